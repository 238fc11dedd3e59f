package storage

import (
	"context"

	"poolchill/models"
)

// Upload folders for the two media collections.
const (
	ListingPhotosFolder = "listings"
	IdentityDocsFolder  = "identity"
)

// Uploader pushes queued media files to external storage and returns their
// public URLs in input order.
type Uploader interface {
	UploadAll(ctx context.Context, files []models.MediaFile, folder string) ([]string, error)
	Delete(ctx context.Context, publicID string) error
}
