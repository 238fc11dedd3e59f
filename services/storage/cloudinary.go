package storage

import (
	"context"
	"fmt"

	"poolchill/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader is the production Uploader.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader builds an Uploader from Cloudinary credentials.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// UploadAll uploads every file into the given folder, preserving order. The
// first error aborts the batch; the submission pipeline treats any partial
// upload as a full failure and retries from scratch.
func (u *CloudinaryUploader) UploadAll(ctx context.Context, files []models.MediaFile, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		result, err := u.cld.Upload.Upload(ctx, file.Path, uploader.UploadParams{Folder: folder})
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", file.Name, err)
		}
		if result.SecureURL == "" {
			return nil, fmt.Errorf("no URL returned for %s", file.Name)
		}
		urls = append(urls, result.SecureURL)
	}
	return urls, nil
}

// Delete removes a previously uploaded file by its public ID.
func (u *CloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	if _, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", publicID, err)
	}
	return nil
}
