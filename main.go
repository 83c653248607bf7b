package main

import "screenshot-mirror/cmd"

func main() {
	cmd.Execute()
}
