package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const imgbbEndpoint = "https://api.imgbb.com/1/upload"

// ImgBBBackend uploads to ImgBB. An API key is required; without one the
// backend reports itself unconfigured and is skipped.
type ImgBBBackend struct {
	Key      string
	Endpoint string
	Client   *http.Client
}

func NewImgBBBackend(key string) *ImgBBBackend {
	return &ImgBBBackend{Key: key, Endpoint: imgbbEndpoint, Client: http.DefaultClient}
}

func (b *ImgBBBackend) Name() Provider { return ProviderImgBB }

func (b *ImgBBBackend) Configured() error {
	if b.Key == "" {
		return &Error{
			Provider: ProviderImgBB,
			Category: CategoryConfig,
			Err:      fmt.Errorf("IMGBB_API_KEY not set"),
		}
	}
	return nil
}

func (b *ImgBBBackend) Upload(ctx context.Context, req *Request) (string, error) {
	endpoint := b.Endpoint + "?key=" + url.QueryEscape(b.Key)
	body, err := postImage(ctx, b.Client, ProviderImgBB, endpoint, "image", req, nil, nil)
	if err != nil {
		return "", err
	}
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &Error{Provider: ProviderImgBB, Category: CategoryServerError,
			Err: fmt.Errorf("malformed response: %w", err)}
	}
	if !out.Success || out.Data.URL == "" {
		return "", &Error{Provider: ProviderImgBB, Category: CategoryServerError,
			Err: fmt.Errorf("upload rejected: %s", truncate(body))}
	}
	return out.Data.URL, nil
}
