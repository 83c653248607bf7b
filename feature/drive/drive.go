package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"screenshot-mirror/core/reconcile"

	"github.com/mitchellh/go-homedir"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Config selects the folder and credentials.
type Config struct {
	// FolderID is the Drive folder whose children are mirrored.
	FolderID string

	// CredentialsFile is a service account key. "~" is expanded.
	CredentialsFile string
}

// Client lists and downloads files from a single Drive folder.
type Client struct {
	svc      *gdrive.Service
	folderID string
}

// New creates a client authenticated with the configured key file. Extra
// options are appended after the credentials and may override them.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.FolderID == "" {
		return nil, errors.New("drive folder id is required")
	}

	base := []option.ClientOption{option.WithScopes(gdrive.DriveReadonlyScope)}
	if cfg.CredentialsFile != "" {
		path, err := homedir.Expand(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("expand credentials path: %w", err)
		}
		base = append(base, option.WithCredentialsFile(path))
	}

	svc, err := gdrive.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc, folderID: cfg.FolderID}, nil
}

// List returns every non-trashed child of the folder.
func (c *Client) List(ctx context.Context) ([]reconcile.Item, error) {
	var items []reconcile.Item
	call := c.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(c.folderID))).
		Fields("nextPageToken, files(id, name)").
		PageSize(1000)

	err := call.Pages(ctx, func(page *gdrive.FileList) error {
		for _, f := range page.Files {
			items = append(items, reconcile.Item{ID: f.Id, Name: f.Name})
		}
		return nil
	})
	if err != nil {
		return nil, reconcile.NewError(reconcile.KindSourceUnavailable, reconcile.OpList, "", err)
	}
	return items, nil
}

// Fetch downloads the file content. A 404 is KindSourceItemMissing.
func (c *Client) Fetch(ctx context.Context, item reconcile.Item) (io.ReadCloser, error) {
	resp, err := c.svc.Files.Get(item.ID).Context(ctx).Download()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, reconcile.NewError(reconcile.KindSourceItemMissing, reconcile.OpFetch, item.Name, err)
		}
		return nil, reconcile.NewError(reconcile.KindSourceUnavailable, reconcile.OpFetch, item.Name, err)
	}
	return resp.Body, nil
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
