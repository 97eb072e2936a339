/*
Package handler provides the HTTP handlers and routing setup for the notifyd server.

This file defines the authentication interceptor applied to every call except
the authenticate handshake. It extracts the caller's credentials from call
metadata (the user_id/user_token headers), verifies them against the registry,
and rejects the call before the handler body runs when verification fails.
*/
package handler

import (
	"context"
	"net/http"

	"notifyd/internal/app/notify"
	"notifyd/internal/app/registry"
	"notifyd/internal/pkg/errs"
	"notifyd/internal/pkg/resp"
)

const (
	// HeaderUserID is the call metadata key carrying the caller's public id.
	HeaderUserID = "user_id"

	// HeaderUserToken is the call metadata key carrying the caller's secret token.
	HeaderUserToken = "user_token"
)

// Define Context Key for storing the authenticated caller, preventing key
// collisions with other packages.
type contextKey string

const contextCallerKey contextKey = "authenticated_caller"

// Caller is the authenticated identity attached to a request by RequireAuth.
type Caller struct {
	// ID is the caller's public user id.
	ID string

	// Ref is the caller's public identity view, embedded as the origin of
	// notifications the caller sends.
	Ref notify.UserRef
}

// isASCII reports whether the metadata value consists solely of visible
// ASCII characters, matching the wire contract for credential headers.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequireAuth returns a middleware that authenticates every request against
// the registry. Missing, malformed, or mismatched credentials are rejected
// with ErrUnauthenticated before the wrapped handler runs; on success the
// Caller is injected into the request context.
func RequireAuth(reg *registry.Registry) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(HeaderUserID)
			userToken := r.Header.Get(HeaderUserToken)

			if userID == "" || userToken == "" || !isASCII(userID) || !isASCII(userToken) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
				return
			}

			if !reg.Authenticate(userID, userToken) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
				return
			}

			ref, _, cerr := reg.Lookup(userID)
			if cerr != nil {
				// The record vanished between the check and the lookup; the
				// session lease is gone either way.
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthenticated))
				return
			}

			caller := &Caller{ID: userID, Ref: ref}
			ctx := context.WithValue(r.Context(), contextCallerKey, caller)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext extracts the authenticated Caller placed by RequireAuth.
// A nil return means the handler was reached without the interceptor.
func CallerFromContext(ctx context.Context) *Caller {
	caller, ok := ctx.Value(contextCallerKey).(*Caller)
	if !ok {
		return nil
	}

	return caller
}
