package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CloudinaryBackend does an unsigned upload against a named cloud and
// upload preset. Both must be configured or the backend is skipped.
type CloudinaryBackend struct {
	Cloud    string
	Preset   string
	Endpoint string // derived from Cloud unless overridden
	Client   *http.Client
}

func NewCloudinaryBackend(cloud, preset string) *CloudinaryBackend {
	return &CloudinaryBackend{Cloud: cloud, Preset: preset, Client: http.DefaultClient}
}

func (b *CloudinaryBackend) Name() Provider { return ProviderCloudinary }

func (b *CloudinaryBackend) Configured() error {
	if b.Cloud == "" || b.Preset == "" {
		return &Error{
			Provider: ProviderCloudinary,
			Category: CategoryConfig,
			Err:      fmt.Errorf("CLOUDINARY_CLOUD_NAME or CLOUDINARY_UPLOAD_PRESET not set"),
		}
	}
	return nil
}

func (b *CloudinaryBackend) endpoint() string {
	if b.Endpoint != "" {
		return b.Endpoint
	}
	return fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", b.Cloud)
}

func (b *CloudinaryBackend) Upload(ctx context.Context, req *Request) (string, error) {
	fields := map[string]string{"upload_preset": b.Preset}
	body, err := postImage(ctx, b.Client, ProviderCloudinary, b.endpoint(), "file", req, fields, nil)
	if err != nil {
		return "", err
	}
	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &Error{Provider: ProviderCloudinary, Category: CategoryServerError,
			Err: fmt.Errorf("malformed response: %w", err)}
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", &Error{Provider: ProviderCloudinary, Category: CategoryServerError,
		Err: fmt.Errorf("no url in response: %s", truncate(body))}
}
