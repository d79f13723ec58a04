package upload

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestImgBBParsesUploadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("bad multipart: %v", err)
		}
		if _, _, err := r.FormFile("image"); err != nil {
			t.Fatalf("missing image field: %v", err)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("missing api key, query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/abc/photo.jpg"}}`))
	}))
	defer srv.Close()

	b := NewImgBBBackend("test-key")
	b.Endpoint = srv.URL
	url, err := b.Upload(context.Background(), imageReq(32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://i.ibb.co/abc/photo.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestImgBBRequiresKey(t *testing.T) {
	b := NewImgBBBackend("")
	err := b.Configured()
	var ue *Error
	if !errors.As(err, &ue) || ue.Category != CategoryConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestCloudinaryUsesSecureURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("bad multipart: %v", err)
		}
		if r.FormValue("upload_preset") != "unsigned" {
			t.Fatalf("missing upload_preset")
		}
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/x.jpg","url":"http://res.cloudinary.com/demo/x.jpg"}`))
	}))
	defer srv.Close()

	b := NewCloudinaryBackend("demo", "unsigned")
	b.Endpoint = srv.URL
	url, err := b.Upload(context.Background(), imageReq(32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://res.cloudinary.com/demo/x.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestCloudinaryRequiresCloudAndPreset(t *testing.T) {
	var ue *Error
	if err := NewCloudinaryBackend("", "unsigned").Configured(); !errors.As(err, &ue) {
		t.Fatalf("expected config error, got %v", err)
	}
	if err := NewCloudinaryBackend("demo", "").Configured(); !errors.As(err, &ue) {
		t.Fatalf("expected config error, got %v", err)
	}
	if err := NewCloudinaryBackend("demo", "unsigned").Configured(); err != nil {
		t.Fatalf("expected configured, got %v", err)
	}
}

func TestImgurAlwaysConfigured(t *testing.T) {
	if err := NewImgurBackend("").Configured(); err != nil {
		t.Fatalf("imgur should accept anonymous uploads: %v", err)
	}
}

func TestImgurSendsClientID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Client-ID my-app" {
			t.Fatalf("bad auth header %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"success":true,"data":{"link":"https://i.imgur.com/xyz.jpg"}}`))
	}))
	defer srv.Close()

	b := NewImgurBackend("my-app")
	b.Endpoint = srv.URL
	url, err := b.Upload(context.Background(), imageReq(32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://i.imgur.com/xyz.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestHostingErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		want   Category
	}{
		{http.StatusBadRequest, CategoryClientError},
		{http.StatusForbidden, CategoryClientError},
		{http.StatusInternalServerError, CategoryServerError},
		{http.StatusBadGateway, CategoryServerError},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		b := NewImgBBBackend("k")
		b.Endpoint = srv.URL
		_, err := b.Upload(context.Background(), imageReq(8))
		srv.Close()

		var ue *Error
		if !errors.As(err, &ue) {
			t.Fatalf("status %d: expected *Error, got %v", tc.status, err)
		}
		if ue.Category != tc.want {
			t.Errorf("status %d: category %s, want %s", tc.status, ue.Category, tc.want)
		}
	}
}

func TestRefusedConnectionIsPolicyBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens here anymore

	b := NewImgurBackend("")
	b.Endpoint = srv.URL
	_, err := b.Upload(context.Background(), imageReq(8))
	var ue *Error
	if !errors.As(err, &ue) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ue.Category != CategoryPolicyBlocked {
		t.Fatalf("refused connection should classify as policy_blocked, got %s", ue.Category)
	}
}

func TestMalformedResponseIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	b := NewImgBBBackend("k")
	b.Endpoint = srv.URL
	_, err := b.Upload(context.Background(), imageReq(8))
	var ue *Error
	if !errors.As(err, &ue) || ue.Category != CategoryServerError {
		t.Fatalf("expected server_error, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":        "photo.jpg",
		"my photo (1).jpg": "my_photo__1_.jpg",
		"../../etc/passwd": ".._.._etc_passwd",
		"":                 "image",
		"  ":               "image",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
