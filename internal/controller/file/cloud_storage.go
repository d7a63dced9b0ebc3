package file

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// CloudStorageClient mirrors uploaded documents to a GCS bucket.
type CloudStorageClient struct {
	BucketName string
	Ctx        context.Context
	Client     *storage.Client
}

// NewCloudStorageClient builds a client for the named bucket.
func NewCloudStorageClient(bucketName string) (*CloudStorageClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Ctx:        ctx,
		Client:     client,
	}, nil
}

// UploadFile writes fileData to objectName in the bucket.
func (c *CloudStorageClient) UploadFile(objectName string, fileData io.Reader) error {
	bucket := c.Client.Bucket(c.BucketName)
	obj := bucket.Object(objectName)
	wc := obj.NewWriter(c.Ctx)
	if _, err := io.Copy(wc, fileData); err != nil {
		return fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %v", err)
	}
	return nil
}
