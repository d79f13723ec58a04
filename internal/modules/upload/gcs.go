package upload

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
)

// GCSBackend is the primary object store. Objects land under
// products/{productId}/{timestamp}_{sanitizedFilename} and are served from
// the public storage URL.
type GCSBackend struct {
	client *storage.Client
	bucket string
}

func NewGCSBackend(client *storage.Client, bucket string) *GCSBackend {
	return &GCSBackend{client: client, bucket: bucket}
}

func (b *GCSBackend) Name() Provider { return ProviderGCS }

func (b *GCSBackend) Configured() error {
	if b.client == nil || b.bucket == "" {
		return &Error{
			Provider: ProviderGCS,
			Category: CategoryConfig,
			Err:      fmt.Errorf("bucket or client not configured"),
		}
	}
	return nil
}

func (b *GCSBackend) Upload(ctx context.Context, req *Request) (string, error) {
	namespace := req.ProductID
	if namespace == "" {
		namespace = "misc"
	}
	object := fmt.Sprintf("products/%s/%d_%s",
		namespace, time.Now().UnixMilli(), sanitizeFilename(req.Filename))

	w := b.client.Bucket(b.bucket).Object(object).NewWriter(ctx)
	w.ContentType = req.ContentType
	if _, err := w.Write(req.Data); err != nil {
		w.Close()
		return "", classifyTransport(ProviderGCS, err)
	}
	if err := w.Close(); err != nil {
		return "", classifyTransport(ProviderGCS, err)
	}
	return objectPublicURL(b.bucket, object), nil
}

func objectPublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}
