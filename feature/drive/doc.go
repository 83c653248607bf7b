// Package drive reads a Google Drive folder as a reconcile source.
//
// Only direct children of the folder that are not trashed are listed, and
// only their id and name are requested. Listing follows nextPageToken until
// the folder is exhausted. Authentication uses a service account key file
// with the read-only Drive scope.
//
// # Usage
//
//	client, err := drive.New(ctx, drive.Config{
//	    FolderID:        "1AbC...",
//	    CredentialsFile: "~/service_account.json",
//	})
//	items, err := client.List(ctx)
package drive
