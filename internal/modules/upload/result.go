// Package upload delivers product images to one of several hosting
// backends, trying them in priority order with per-attempt timeouts and an
// inline base64 fallback so the operation never fails outright while the
// fallback is enabled.
package upload

import "fmt"

// Provider identifies which backend produced a result.
type Provider string

const (
	ProviderGCS        Provider = "gcs"        // primary object store
	ProviderCloudinary Provider = "cloudinary" // hosting service B
	ProviderImgBB      Provider = "imgbb"      // hosting service A
	ProviderImgur      Provider = "imgur"      // hosting service C, least reliable
	ProviderInline     Provider = "inline"     // base64 data URL fallback
	ProviderNone       Provider = "none"
)

// Category classifies a failure. It is set by the adapter that observed the
// failure, never inferred downstream from message text.
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryConfig        Category = "config"
	CategoryTimeout       Category = "timeout"
	CategoryPolicyBlocked Category = "policy_blocked"
	CategoryClientError   Category = "client_error"
	CategoryServerError   Category = "server_error"
)

// Result is a successful upload: the durable reference and who served it.
type Result struct {
	URL      string   `json:"url"`
	Provider Provider `json:"provider"`
}

// Error is a classified upload failure.
type Error struct {
	Provider Provider
	Category Category
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("upload %s (%s): %v", e.Provider, e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
