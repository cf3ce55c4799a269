package authctx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// CredentialResolver extracts an opaque identity credential from an HTTP
// request. Verifying the credential itself (session token, JWT, API key)
// belongs to the external identity collaborator behind ProfileProvider.
type CredentialResolver interface {
	// Resolve extracts the credential from the request.
	// Returns empty string if no credential is present.
	Resolve(r *http.Request) (string, error)
}

// ProfileProvider maps a verified credential to a profile.
type ProfileProvider interface {
	// GetByCredential retrieves the profile the credential resolves to.
	// Returns ErrProfileNotFound when the credential is invalid or expired.
	GetByCredential(ctx context.Context, credential string) (*Profile, error)
}

// BearerResolver extracts the credential from the Authorization header.
type BearerResolver struct{}

// Resolve returns the token following the "Bearer " prefix.
func (BearerResolver) Resolve(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(token), nil
}

// HeaderResolver extracts the credential from a custom header.
type HeaderResolver struct {
	// HeaderName is the name of the header to read (e.g. "X-Api-Key").
	HeaderName string
}

// Resolve returns the configured header's value.
func (h HeaderResolver) Resolve(r *http.Request) (string, error) {
	return r.Header.Get(h.HeaderName), nil
}

// CompositeResolver tries multiple resolvers in order until one returns a
// non-empty credential.
type CompositeResolver struct {
	Resolvers []CredentialResolver
}

// NewCompositeResolver creates a composite resolver.
func NewCompositeResolver(resolvers ...CredentialResolver) *CompositeResolver {
	return &CompositeResolver{Resolvers: resolvers}
}

// Resolve tries each resolver in order, returning the first non-empty result.
func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	for _, resolver := range c.Resolvers {
		credential, err := resolver.Resolve(r)
		if err != nil {
			return "", err
		}
		if credential != "" {
			return credential, nil
		}
	}
	return "", nil
}

// ResolverFunc adapts an ordinary function to a CredentialResolver.
type ResolverFunc func(r *http.Request) (string, error)

// Resolve calls the function.
func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

// Resolver authenticates a request and produces the sealed request context.
// Resolution is a pure read with no side effects.
type Resolver struct {
	creds    CredentialResolver
	profiles ProfileProvider
	cache    Cache
	cacheTTL time.Duration
}

// ResolverOption configures the resolver.
type ResolverOption func(*Resolver)

// WithCache sets a profile cache keyed by credential.
func WithCache(cache Cache, ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
		r.cacheTTL = ttl
	}
}

// NewResolver creates a Resolver. Panics if a required dependency is nil.
func NewResolver(creds CredentialResolver, profiles ProfileProvider, opts ...ResolverOption) *Resolver {
	if creds == nil {
		panic("authctx: CredentialResolver is required")
	}
	if profiles == nil {
		panic("authctx: ProfileProvider is required")
	}

	r := &Resolver{creds: creds, profiles: profiles}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces the request context for an inbound request.
//
// No credential yields an anonymous context, not an error; a credential
// that resolves to no profile fails ErrUnauthenticated. A missing tenant
// is never an error here - callers that require one check Context.TenantID.
func (r *Resolver) Resolve(req *http.Request) (Context, error) {
	credential, err := r.creds.Resolve(req)
	if err != nil {
		return Context{}, errors.Join(ErrUnauthenticated, err)
	}
	if credential == "" {
		return Anonymous(), nil
	}

	profile, err := r.lookup(req.Context(), credential)
	if err != nil {
		return Context{}, err
	}

	return contextFor(profile)
}

func (r *Resolver) lookup(ctx context.Context, credential string) (*Profile, error) {
	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, credential); ok {
			return cached, nil
		}
	}

	profile, err := r.profiles.GetByCredential(ctx, credential)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, errors.Join(ErrLookupFailed, err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, credential, profile, r.cacheTTL)
	}
	return profile, nil
}

// contextFor builds the most specific context variant the profile supports.
// Suspended identities always land in the plain authenticated variant so
// every tenant-scoped operation they attempt is denied downstream.
func contextFor(p *Profile) (Context, error) {
	if p.Suspended {
		return Authenticated(p), nil
	}
	if p.Role == RoleSuperAdmin {
		return SuperAdmin(p)
	}
	if p.TenantID != nil {
		return TenantScoped(p)
	}
	return Authenticated(p), nil
}
