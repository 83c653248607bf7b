// Package utils provides small formatting helpers shared by the command line
// output and the HTTP handlers.
package utils
