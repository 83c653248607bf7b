package bucket

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"screenshot-mirror/core/reconcile"
	"screenshot-mirror/core/storage"

	"github.com/minio/minio-go/v7"
)

// Source lists and reads objects directly under a bucket prefix.
type Source struct {
	client storage.Client
	bucket string
	prefix string
}

// NewSource creates a source over bucket/prefix.
func NewSource(client storage.Client, bucket, prefix string) *Source {
	return &Source{client: client, bucket: bucket, prefix: normalizePrefix(prefix)}
}

// List returns the objects directly under the prefix. Item.ID is the full key.
func (s *Source) List(ctx context.Context) ([]reconcile.Item, error) {
	var items []reconcile.Item
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix}) {
		if obj.Err != nil {
			return nil, reconcile.NewError(reconcile.KindSourceUnavailable, reconcile.OpList, "", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		items = append(items, reconcile.Item{ID: obj.Key, Name: path.Base(obj.Key)})
	}
	return items, nil
}

// Fetch opens the object stored under item.ID.
func (s *Source) Fetch(ctx context.Context, item reconcile.Item) (io.ReadCloser, error) {
	key := item.ID
	if key == "" {
		key = s.prefix + item.Name
	}
	// GetObject is lazy; stat first so a missing key is classified here.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, classify(err, reconcile.KindSourceItemMissing, reconcile.KindSourceUnavailable, reconcile.OpFetch, item.Name)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(err, reconcile.KindSourceItemMissing, reconcile.KindSourceUnavailable, reconcile.OpFetch, item.Name)
	}
	return obj, nil
}

// Mirror stores mirrored files as objects under a bucket prefix.
type Mirror struct {
	client      storage.Client
	bucket      string
	prefix      string
	contentType func(name string) string
}

// NewMirror creates a mirror writing to bucket/prefix.
func NewMirror(client storage.Client, bucket, prefix string) *Mirror {
	return &Mirror{client: client, bucket: bucket, prefix: normalizePrefix(prefix), contentType: contentTypeOf}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *Mirror) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return reconcile.NewError(reconcile.KindMirrorUnavailable, "", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return reconcile.NewError(reconcile.KindMirrorUnavailable, "", m.bucket, err)
	}
	return nil
}

// Exists stats the object. A missing key is false without error.
func (m *Mirror) Exists(ctx context.Context, name string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, m.key(name), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if storage.IsNotFound(err) {
		return false, nil
	}
	return false, reconcile.NewError(reconcile.KindMirrorUnavailable, reconcile.OpExists, name, err)
}

// Put uploads content. The object is stat'ed first and the write is made
// conditional on what was seen: If-Match on its ETag when it exists,
// If-None-Match "*" when it does not. A concurrent change is reported as
// reconcile.KindMirrorConflict instead of being overwritten.
func (m *Mirror) Put(ctx context.Context, name string, content []byte) error {
	key := m.key(name)
	opts := minio.PutObjectOptions{ContentType: m.contentType(name)}

	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	switch {
	case err == nil:
		opts.SetMatchETag(info.ETag)
	case storage.IsNotFound(err):
		opts.SetMatchETagExcept("*")
	default:
		return reconcile.NewError(reconcile.KindMirrorUnavailable, reconcile.OpPut, name, err)
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(content), int64(len(content)), opts)
	if storage.IsPreconditionFailed(err) {
		return reconcile.NewError(reconcile.KindMirrorConflict, reconcile.OpPut, name, err)
	}
	if err != nil {
		return reconcile.NewError(reconcile.KindMirrorUnavailable, reconcile.OpPut, name, err)
	}
	return nil
}

// Delete removes the object. S3 deletes are idempotent, so the key is
// stat'ed first to report a missing object as KindMirrorItemMissing.
func (m *Mirror) Delete(ctx context.Context, name string) error {
	key := m.key(name)
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		return classify(err, reconcile.KindMirrorItemMissing, reconcile.KindMirrorUnavailable, reconcile.OpDelete, name)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return classify(err, reconcile.KindMirrorItemMissing, reconcile.KindMirrorUnavailable, reconcile.OpDelete, name)
	}
	return nil
}

func (m *Mirror) key(name string) string {
	return m.prefix + name
}

func classify(err error, missing, unavailable reconcile.Kind, op reconcile.Op, name string) error {
	if storage.IsNotFound(err) {
		return reconcile.NewError(missing, op, name, err)
	}
	return reconcile.NewError(unavailable, op, name, err)
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func contentTypeOf(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
