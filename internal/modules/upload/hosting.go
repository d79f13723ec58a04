package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// postImage does the multipart POST all three hosting services share:
// the payload under fieldName plus any extra form fields, returning the raw
// response body for the adapter to parse. Transport failures come back
// already classified.
func postImage(ctx context.Context, client *http.Client, provider Provider,
	endpoint, fieldName string, req *Request, fields map[string]string,
	headers map[string]string) ([]byte, error) {

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fieldName, sanitizeFilename(req.Filename))
	if err != nil {
		return nil, &Error{Provider: provider, Category: CategoryServerError, Err: err}
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, &Error{Provider: provider, Category: CategoryServerError, Err: err}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, &Error{Provider: provider, Category: CategoryServerError, Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Provider: provider, Category: CategoryServerError, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, &Error{Provider: provider, Category: CategoryClientError, Err: err}
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, classifyTransport(provider, err)
	}
	if resp.StatusCode >= 500 {
		return nil, &Error{Provider: provider, Category: CategoryServerError,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body))}
	}
	if resp.StatusCode >= 400 {
		return nil, &Error{Provider: provider, Category: CategoryClientError,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body))}
	}
	return body, nil
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
