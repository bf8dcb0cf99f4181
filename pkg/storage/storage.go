package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	firebase "firebase.google.com/go/v4"
	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Client wraps the avatar image bucket (Firebase Storage).
type Client struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewClient creates a storage client for the given bucket using the provided
// credentials file.
func NewClient(credentialsFile, bucketName string) (*Client, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("storage bucket name is required")
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage client: %w", err)
	}

	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketName, err)
	}

	log.Println("[Storage] Client initialized successfully")
	return &Client{bucket: bucket, bucketName: bucketName}, nil
}

// Upload writes an object and returns its stored path.
func (c *Client) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	w := c.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", path, err)
	}

	return path, nil
}

// PublicURL resolves a stored object path to its public download URL.
// Empty paths resolve to "" so callers can pass through unset avatars.
func (c *Client) PublicURL(path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, path)
}
