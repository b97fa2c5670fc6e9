package adapthttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var (
	// ErrMissingIdentity means the request carried no caller identity.
	ErrMissingIdentity = errors.New("missing identity")
	// ErrInvalidToken means a bearer token was present but did not verify.
	ErrInvalidToken = errors.New("invalid token")
)

// Identifier resolves the caller's owner id from a request.
type Identifier interface {
	Identify(r *http.Request) (string, error)
}

// identityError carries the client-facing message while matching one of the
// sentinel errors above.
type identityError struct {
	msg  string
	kind error
}

func (e *identityError) Error() string { return e.msg }
func (e *identityError) Unwrap() error { return e.kind }

// HeaderIdentifier trusts a plain request header as the owner id.
type HeaderIdentifier struct {
	Header string
}

// Identify returns the trimmed header value.
func (h HeaderIdentifier) Identify(r *http.Request) (string, error) {
	name := h.Header
	if name == "" {
		name = DefaultUserHeader
	}
	v := strings.TrimSpace(r.Header.Get(name))
	if v == "" {
		return "", &identityError{msg: fmt.Sprintf("Missing %s header", name), kind: ErrMissingIdentity}
	}
	return v, nil
}

type tokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

type userInfoFetcher interface {
	UserInfo(ctx context.Context, ts oauth2.TokenSource) (*oidc.UserInfo, error)
}

// TokenIdentifier authenticates Authorization bearer tokens against an OIDC
// provider and uses the subject claim as the owner id.
type TokenIdentifier struct {
	verifier tokenVerifier
	userinfo userInfoFetcher
}

// NewTokenIdentifier discovers the provider at issuer. With useUserInfo the
// bearer is treated as an opaque access token and resolved through the
// provider's userinfo endpoint instead of being verified as an ID token.
func NewTokenIdentifier(ctx context.Context, issuer, clientID string, useUserInfo bool) (*TokenIdentifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	t := &TokenIdentifier{
		verifier: provider.Verifier(&oidc.Config{
			ClientID:          clientID,
			SkipClientIDCheck: clientID == "",
		}),
	}
	if useUserInfo {
		t.userinfo = provider
	}
	return t, nil
}

// Identify verifies the bearer token and returns its subject.
func (t *TokenIdentifier) Identify(r *http.Request) (string, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return "", &identityError{msg: "Missing bearer token", kind: ErrMissingIdentity}
	}

	var subject string
	if t.userinfo != nil {
		info, err := t.userinfo.UserInfo(r.Context(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: raw, TokenType: "Bearer"}))
		if err != nil {
			return "", &identityError{msg: "invalid token", kind: fmt.Errorf("%w: %v", ErrInvalidToken, err)}
		}
		subject = info.Subject
	} else {
		tok, err := t.verifier.Verify(r.Context(), raw)
		if err != nil {
			return "", &identityError{msg: "invalid token", kind: fmt.Errorf("%w: %v", ErrInvalidToken, err)}
		}
		subject = tok.Subject
	}

	if subject == "" {
		return "", &identityError{msg: "invalid token", kind: ErrInvalidToken}
	}
	return subject, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

type ownerKey struct{}

func withOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the owner id placed on the context by the
// identity middleware.
func OwnerFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ownerKey{}).(string)
	return v
}
