package github

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Config identifies the target repository folder.
type Config struct {
	// Token is a personal access token with contents write permission.
	// Empty means unauthenticated requests.
	Token string

	// Owner is the repository owner.
	Owner string

	// Repo is the repository name.
	Repo string

	// Repository is "owner/repo". It is split into Owner and Repo when
	// either of them is empty.
	Repository string

	// Branch receives the commits.
	Branch string

	// Folder is the path inside the repository, without leading or trailing slash.
	Folder string

	// CommitAuthor is an optional "Name <email>" used as committer.
	CommitAuthor string

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration

	// BaseURL overrides the API root, e.g. for GitHub Enterprise.
	BaseURL string
}

// SplitRepository splits "owner/repo".
func SplitRepository(full string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.Trim(full, "/"), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", errors.New("repository must be in owner/repo form")
	}
	return owner, repo, nil
}

func parseAuthor(s string) (name, email string, err error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return "", "", err
	}
	return addr.Name, addr.Address, nil
}
