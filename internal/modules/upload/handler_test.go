package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
)

// flakyBackend fails a scripted number of times before succeeding.
type flakyBackend struct {
	name     Provider
	url      string
	failures int
	calls    int
}

func (f *flakyBackend) Name() Provider    { return f.name }
func (f *flakyBackend) Configured() error { return nil }

func (f *flakyBackend) Upload(ctx context.Context, req *Request) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", &Error{Provider: f.name, Category: CategoryServerError, Err: errors.New("transient")}
	}
	return f.url, nil
}

func uploadRouter(backends []Backend) *chi.Mux {
	orch := NewOrchestrator(backends, OrchestratorConfig{})
	r := chi.NewRouter()
	admin := func(next http.Handler) http.Handler { return next }
	NewHandler(orch, admin).RegisterRoutes(r)
	return r
}

func multipartImage(t *testing.T, field, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("fake image bytes"))
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestUploadEndpointSuccess(t *testing.T) {
	b := &fakeBackend{name: ProviderImgBB, url: "https://i.ibb.co/x.jpg"}
	router := uploadRouter([]Backend{b})

	body, ct := multipartImage(t, "image", "photo.jpg", "image/jpeg")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var result Result
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result.URL != "https://i.ibb.co/x.jpg" || result.Provider != ProviderImgBB {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestUploadEndpointRetriesOnce(t *testing.T) {
	b := &flakyBackend{name: ProviderImgBB, url: "https://i.ibb.co/x.jpg", failures: 1}
	router := uploadRouter([]Backend{b})

	body, ct := multipartImage(t, "image", "photo.jpg", "image/jpeg")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("one transient failure should be retried away: %d %s", rec.Code, rec.Body.String())
	}
	if b.calls != 2 {
		t.Fatalf("expected 2 backend calls, got %d", b.calls)
	}
}

func TestUploadEndpointDoesNotRetryValidation(t *testing.T) {
	b := &fakeBackend{name: ProviderImgBB, url: "https://i.ibb.co/x.jpg"}
	router := uploadRouter([]Backend{b})

	body, ct := multipartImage(t, "image", "notes.pdf", "application/pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	if b.calls != 0 {
		t.Fatalf("validation failure must not reach a backend, got %d calls", b.calls)
	}
}

func TestUploadEndpointRequiresImageField(t *testing.T) {
	router := uploadRouter([]Backend{&fakeBackend{name: ProviderImgBB}})

	body, ct := multipartImage(t, "picture", "photo.jpg", "image/jpeg")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestUploadEndpointExhaustedChain(t *testing.T) {
	b := &fakeBackend{name: ProviderImgBB, err: failWith(ProviderImgBB, CategoryServerError)}
	router := uploadRouter([]Backend{b})

	body, ct := multipartImage(t, "image", "photo.jpg", "image/jpeg")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d", rec.Code)
	}
	if b.calls != retryAttempts {
		t.Fatalf("expected %d attempts, got %d", retryAttempts, b.calls)
	}
}
