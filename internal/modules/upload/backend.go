package upload

import (
	"context"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Request is one image payload to deliver.
type Request struct {
	Filename    string
	ContentType string
	Data        []byte
	// ProductID namespaces the object path at the primary store only.
	ProductID string
}

// Backend is one external hosting or storage service.
type Backend interface {
	Name() Provider
	// Configured returns a CategoryConfig *Error when required tokens are
	// missing; the orchestrator then skips the backend without a call.
	Configured() error
	Upload(ctx context.Context, req *Request) (string, error)
}

// Preset selects the backend priority order.
type Preset string

const (
	PresetPrimaryFirst Preset = "primary_first"
	PresetHostingFirst Preset = "hosting_first"
	// PresetAuto behaves like primary_first when the object store is
	// configured and hosting_first otherwise.
	PresetAuto Preset = "auto"
)

// orderFor returns the attempt order for a preset. Imgur is last in every
// permutation: it is the least reliable backend under restrictive networks.
func orderFor(preset Preset, primaryConfigured bool) []Provider {
	switch preset {
	case PresetHostingFirst:
		return []Provider{ProviderCloudinary, ProviderImgBB, ProviderGCS, ProviderImgur}
	case PresetAuto:
		if primaryConfigured {
			return orderFor(PresetPrimaryFirst, true)
		}
		return orderFor(PresetHostingFirst, false)
	default: // PresetPrimaryFirst
		return []Provider{ProviderGCS, ProviderCloudinary, ProviderImgBB, ProviderImgur}
	}
}

// Per-attempt timeout: a fixed base plus a size-scaled bonus so large files
// get more time before being abandoned.
const (
	timeoutBase     = 8 * time.Second
	timeoutPerMiB   = 3 * time.Second
	timeoutMaxBonus = 15 * time.Second
)

func attemptTimeout(size int) time.Duration {
	bonus := time.Duration(float64(size) / (1 << 20) * float64(timeoutPerMiB))
	if bonus > timeoutMaxBonus {
		bonus = timeoutMaxBonus
	}
	return timeoutBase + bonus
}

// sanitizeFilename keeps the character set object stores and CDNs are happy
// with; everything else becomes an underscore.
var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "image"
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// classifyTransport maps a transport-level failure to a category at the
// point it is observed. Connection-level refusals and DNS failures are
// policy-blocked: when the network path itself is shut, sibling backends
// will not fare better.
func classifyTransport(provider Provider, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Provider: provider, Category: CategoryTimeout, Err: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Provider: provider, Category: CategoryPolicyBlocked, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Provider: provider, Category: CategoryPolicyBlocked, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Provider: provider, Category: CategoryTimeout, Err: err}
	}
	return &Error{Provider: provider, Category: CategoryServerError, Err: err}
}
