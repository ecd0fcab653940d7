package ports

import "context"

// ObjectStore abstracts the bucket used for CSV artifacts and the
// persisted application state. Keys follow the convention
// {application_id}/{filename}.
type ObjectStore interface {
	// Bucket returns the bucket name, used to build s3:// URLs handed to
	// the remote import API.
	Bucket() string

	// GetObject reads an object wholesale. Returns
	// domain.ErrStateNotFound when no object exists at the key.
	GetObject(ctx context.Context, key string) ([]byte, error)

	// PutObject overwrites an object wholesale. Last writer wins.
	PutObject(ctx context.Context, key string, data []byte) error

	// UploadFile streams a local file into the bucket.
	UploadFile(ctx context.Context, localPath, key string) error

	// DownloadFile streams an object to a local file.
	DownloadFile(ctx context.Context, key, localPath string) error

	// Exists reports whether an object is present at the key.
	Exists(ctx context.Context, key string) (bool, error)
}
