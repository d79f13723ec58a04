package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/s2wears/storefront/internal/obs"
)

// Orchestrator tries backends strictly one after another: a backend is only
// attempted once the previous one definitively failed or timed out, and the
// first success wins. Serial attempts avoid duplicate uploads of the same
// logical image to two hosts.
type Orchestrator struct {
	backends       map[Provider]Backend
	preset         Preset
	inlineFallback bool
	maxBytes       int64
}

// OrchestratorConfig tunes the chain. Zero MaxBytes means a 5 MiB ceiling.
type OrchestratorConfig struct {
	Preset         Preset
	InlineFallback bool
	MaxBytes       int64
}

func NewOrchestrator(backends []Backend, cfg OrchestratorConfig) *Orchestrator {
	m := make(map[Provider]Backend, len(backends))
	for _, b := range backends {
		m[b.Name()] = b
	}
	if cfg.Preset == "" {
		cfg.Preset = PresetAuto
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 << 20
	}
	return &Orchestrator{
		backends:       m,
		preset:         cfg.Preset,
		inlineFallback: cfg.InlineFallback,
		maxBytes:       cfg.MaxBytes,
	}
}

// Upload delivers req to the first backend that accepts it. The returned
// error is non-nil only for a validation failure (no network attempt made)
// or when every backend failed and the inline fallback is disabled.
func (o *Orchestrator) Upload(ctx context.Context, req *Request) (Result, error) {
	if !strings.HasPrefix(req.ContentType, "image/") {
		return Result{Provider: ProviderNone}, &Error{
			Provider: ProviderNone,
			Category: CategoryValidation,
			Err:      fmt.Errorf("media type %q is not an image", req.ContentType),
		}
	}
	if int64(len(req.Data)) > o.maxBytes {
		return Result{Provider: ProviderNone}, &Error{
			Provider: ProviderNone,
			Category: CategoryValidation,
			Err: fmt.Errorf("payload is %d bytes, limit is %d bytes",
				len(req.Data), o.maxBytes),
		}
	}

	primaryReady := false
	if b, ok := o.backends[ProviderGCS]; ok && b.Configured() == nil {
		primaryReady = true
	}

	var attempts []string
	for _, name := range orderFor(o.preset, primaryReady) {
		b, ok := o.backends[name]
		if !ok {
			continue
		}
		if err := b.Configured(); err != nil {
			// Missing tokens are a configuration problem, not a network
			// one: skip without spending a call.
			obs.Logger.Debug("upload backend not configured", "backend", name, "err", err)
			attempts = append(attempts, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		actx, cancel := context.WithTimeout(ctx, attemptTimeout(len(req.Data)))
		url, err := b.Upload(actx, req)
		cancel()
		if err == nil {
			return Result{URL: url, Provider: name}, nil
		}

		cat := categoryOf(err)
		obs.Logger.Warn("upload backend failed", "backend", name, "category", cat, "err", err)
		attempts = append(attempts, fmt.Sprintf("%s: %v", name, err))
		if cat == CategoryPolicyBlocked {
			// The network path itself is shut; trying siblings is futile.
			break
		}
	}

	if o.inlineFallback {
		return Result{URL: inlineDataURL(req), Provider: ProviderInline}, nil
	}
	return Result{Provider: ProviderNone}, &Error{
		Provider: ProviderNone,
		Category: CategoryServerError,
		Err:      fmt.Errorf("all backends failed: %s", strings.Join(attempts, "; ")),
	}
}

// categoryOf reads the category an adapter attached, falling back to
// timeout detection for the orchestrator's own deadline.
func categoryOf(err error) Category {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	return CategoryServerError
}

// inlineDataURL encodes the payload as a self-contained data URL. This is
// the terminal fallback: it cannot fail, the reference just lives inside
// the record instead of on a host.
func inlineDataURL(req *Request) string {
	return "data:" + req.ContentType + ";base64," +
		base64.StdEncoding.EncodeToString(req.Data)
}
