package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"screenshot-mirror/core/reconcile"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// errIsDirectory means the target path holds a directory, not a file.
var errIsDirectory = errors.New("path is a directory")

// Client implements reconcile.Mirror over a repository folder.
type Client struct {
	gh        *gh.Client
	owner     string
	repo      string
	branch    string
	folder    string
	committer *gh.CommitAuthor
}

// New builds a client. The token, when set, is sent as an OAuth2 bearer.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if (cfg.Owner == "" || cfg.Repo == "") && cfg.Repository != "" {
		owner, repo, err := SplitRepository(cfg.Repository)
		if err != nil {
			return nil, err
		}
		cfg.Owner, cfg.Repo = owner, repo
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("github owner and repo are required")
	}

	httpClient := http.DefaultClient
	if cfg.Token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	}
	if cfg.Timeout > 0 {
		httpClient = &http.Client{Transport: httpClient.Transport, Timeout: cfg.Timeout}
	}

	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		client.BaseURL = u
	}

	c := &Client{
		gh:     client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
		folder: strings.Trim(cfg.Folder, "/"),
	}
	if c.branch == "" {
		c.branch = "main"
	}
	if cfg.CommitAuthor != "" {
		name, email, err := parseAuthor(cfg.CommitAuthor)
		if err != nil {
			return nil, fmt.Errorf("parse commit author: %w", err)
		}
		c.committer = &gh.CommitAuthor{Name: gh.String(name), Email: gh.String(email)}
	}
	return c, nil
}

// Exists reports whether the folder holds name on the branch.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	_, found, err := c.sha(ctx, name)
	if err != nil {
		return false, classify(err, reconcile.OpExists, name)
	}
	return found, nil
}

// Put commits content as name, creating or updating the file. The current
// SHA is looked up first and passed along so a concurrent change is
// rejected rather than overwritten.
func (c *Client) Put(ctx context.Context, name string, content []byte) error {
	sha, found, err := c.sha(ctx, name)
	if err != nil {
		return classify(err, reconcile.OpPut, name)
	}

	p := c.path(name)
	opts := &gh.RepositoryContentFileOptions{
		Message:   gh.String("Add or update " + p),
		Content:   content,
		Branch:    gh.String(c.branch),
		Committer: c.committer,
	}
	if found {
		opts.SHA = gh.String(sha)
		_, _, err = c.gh.Repositories.UpdateFile(ctx, c.owner, c.repo, c.escapedPath(name), opts)
	} else {
		_, _, err = c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, c.escapedPath(name), opts)
	}
	if err != nil {
		return classify(err, reconcile.OpPut, name)
	}
	return nil
}

// Delete removes name with a commit. A file that is already gone is
// reported as reconcile.KindMirrorItemMissing.
func (c *Client) Delete(ctx context.Context, name string) error {
	sha, found, err := c.sha(ctx, name)
	if err != nil {
		return classify(err, reconcile.OpDelete, name)
	}
	if !found {
		return reconcile.NewError(reconcile.KindMirrorItemMissing, reconcile.OpDelete, name, errors.New("not found on branch "+c.branch))
	}

	_, _, err = c.gh.Repositories.DeleteFile(ctx, c.owner, c.repo, c.escapedPath(name), &gh.RepositoryContentFileOptions{
		Message:   gh.String("Delete " + name),
		SHA:       gh.String(sha),
		Branch:    gh.String(c.branch),
		Committer: c.committer,
	})
	if err != nil {
		return classify(err, reconcile.OpDelete, name)
	}
	return nil
}

// sha returns the blob SHA of name. found is false on 404.
func (c *Client) sha(ctx context.Context, name string) (sha string, found bool, err error) {
	file, dir, resp, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, c.path(name), &gh.RepositoryContentGetOptions{Ref: c.branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	if file == nil {
		return "", false, fmt.Errorf("%w: %s has %d entries", errIsDirectory, c.path(name), len(dir))
	}
	return file.GetSHA(), true, nil
}

func (c *Client) path(name string) string {
	if c.folder == "" {
		return name
	}
	return path.Join(c.folder, name)
}

// escapedPath is path(name) with each segment percent-encoded. CreateFile,
// UpdateFile and DeleteFile put the path into the URL verbatim, while
// GetContents escapes it itself and must get the raw path.
func (c *Client) escapedPath(name string) string {
	segments := strings.Split(c.path(name), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func classify(err error, op reconcile.Op, name string) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return reconcile.NewError(reconcile.KindMirrorUnavailable, op, name, err)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return reconcile.NewError(reconcile.KindMirrorItemMissing, op, name, err)
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return reconcile.NewError(reconcile.KindMirrorConflict, op, name, err)
		}
	}
	if errors.Is(err, errIsDirectory) {
		return reconcile.NewError(reconcile.KindMirrorConflict, op, name, err)
	}
	return reconcile.NewError(reconcile.KindMirrorUnavailable, op, name, err)
}
