// Package storage wraps the MinIO client behind a narrow interface so the
// bucket source and mirror can be tested against core/storage/mocks.
//
// Works with AWS S3 and self-hosted MinIO alike. Only the calls the bucket
// adapters need are exposed: bucket checks, object put/get/stat, listing
// by prefix and single-object removal.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	info, err := client.StatObject(ctx, "screenshots", "maps/a.png", minio.StatObjectOptions{})
//	if storage.IsNotFound(err) {
//	    // absent
//	}
package storage
