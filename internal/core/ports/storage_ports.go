package ports

import "context"

// Upload is an in-memory file received from a client.
type Upload struct {
	Data        []byte
	Name        string
	ContentType string
	Size        int64
}

// ObjectStore is the blob storage collaborator. Category selects the target
// container ("image", "video", "gif").
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, name, contentType, category string) (string, error)
	// Delete removes the object behind a previously returned URL and reports
	// whether anything was removed. URLs the store does not own are a no-op.
	Delete(ctx context.Context, url string) (bool, error)
	// Owns reports whether the URL points into this store.
	Owns(url string) bool
}

// PasswordHasher is the credential hashing collaborator.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}
