package authctx

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorHandler handles errors that occur during context resolution.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// middlewareConfig holds middleware configuration.
type middlewareConfig struct {
	errorHandler ErrorHandler
	skipPaths    []string
}

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets path prefixes that bypass context resolution.
func WithSkipPaths(paths []string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPaths = paths
	}
}

// Middleware resolves the authorization context for every request and
// attaches it to the request context. Anonymous requests pass through with
// an anonymous context; only resolution failures invoke the error handler.
func Middleware(resolver *Resolver, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			tc, err := resolver.Resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), tc)))
		})
	}
}

// RequireTenant ensures the resolved context carries a tenant scope.
// Mount behind Middleware on every tenant-scoped route.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, ok := FromContext(r.Context())
			if !ok {
				errorHandler(w, r, ErrNoContext)
				return
			}

			if _, err := tc.TenantID(); err != nil {
				errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrNoContext):
		http.Error(w, "Unauthenticated", http.StatusUnauthorized)
	case errors.Is(err, ErrSuspended):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, ErrTenantRequired):
		http.Error(w, "Tenant required", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
