package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	imgurEndpoint = "https://api.imgur.com/3/image"
	// Anonymous uploads work with any registered application id; this one
	// only identifies the app, it grants no account access.
	imgurDefaultClientID = "546c25a59c58ad7"
)

// ImgurBackend accepts anonymous uploads, so it is always configured. It is
// classified least reliable and every preset places it last.
type ImgurBackend struct {
	ClientID string
	Endpoint string
	Client   *http.Client
}

func NewImgurBackend(clientID string) *ImgurBackend {
	if clientID == "" {
		clientID = imgurDefaultClientID
	}
	return &ImgurBackend{ClientID: clientID, Endpoint: imgurEndpoint, Client: http.DefaultClient}
}

func (b *ImgurBackend) Name() Provider { return ProviderImgur }

func (b *ImgurBackend) Configured() error { return nil }

func (b *ImgurBackend) Upload(ctx context.Context, req *Request) (string, error) {
	headers := map[string]string{"Authorization": "Client-ID " + b.ClientID}
	body, err := postImage(ctx, b.Client, ProviderImgur, b.Endpoint, "image", req, nil, headers)
	if err != nil {
		return "", err
	}
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &Error{Provider: ProviderImgur, Category: CategoryServerError,
			Err: fmt.Errorf("malformed response: %w", err)}
	}
	if !out.Success || out.Data.Link == "" {
		return "", &Error{Provider: ProviderImgur, Category: CategoryServerError,
			Err: fmt.Errorf("upload rejected: %s", truncate(body))}
	}
	return out.Data.Link, nil
}
