package middleware

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/habitquest/internal/model"
)

// ===== Auth Errors =====
var (
	ErrMissingKey   = errors.New("missing api key")
	ErrMalformedKey = errors.New("api key must be <owner>.<secret>")
	ErrUnknownOwner = errors.New("unknown owner")
	ErrInvalidKey   = errors.New("invalid api key")
)

// KeyVerifier checks an owner's API key secret
type KeyVerifier interface {
	Verify(ownerID, secret string) error
	Len() int
}

// APIKeys verifies secrets against per-owner bcrypt hashes. Successful
// verifications are remembered by token digest so bcrypt runs once per key.
type APIKeys struct {
	hashes   map[string][]byte
	verified sync.Map // sha256(owner.secret) -> owner
}

// NewAPIKeys builds a verifier from owner -> bcrypt hash
func NewAPIKeys(hashes map[string]string) *APIKeys {
	k := &APIKeys{hashes: make(map[string][]byte, len(hashes))}
	for owner, hash := range hashes {
		k.hashes[owner] = []byte(hash)
	}
	return k
}

// Len returns the number of configured owners
func (k *APIKeys) Len() int {
	return len(k.hashes)
}

// Verify implements KeyVerifier
func (k *APIKeys) Verify(ownerID, secret string) error {
	digest := tokenDigest(ownerID, secret)
	if owner, ok := k.verified.Load(digest); ok && owner == ownerID {
		return nil
	}

	hash, ok := k.hashes[ownerID]
	if !ok {
		return ErrUnknownOwner
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(secret)); err != nil {
		return ErrInvalidKey
	}
	k.verified.Store(digest, ownerID)
	return nil
}

func tokenDigest(ownerID, secret string) string {
	sum := sha256.Sum256([]byte(ownerID + "." + secret))
	return hex.EncodeToString(sum[:])
}

// GenerateAPIKey returns a new "<owner>.<secret>" token and the bcrypt hash
// to configure for the owner
func GenerateAPIKey(ownerID string) (token, hash string, err error) {
	if ownerID == "" || strings.ContainsAny(ownerID, " \t") {
		return "", "", errors.New("owner id must be non-empty without whitespace")
	}
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	secret := hex.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return ownerID + "." + secret, string(hashed), nil
}

// ParseAPIKey splits a bearer token into owner and secret. The secret is
// everything after the last dot.
func ParseAPIKey(token string) (ownerID, secret string, err error) {
	i := strings.LastIndex(token, ".")
	if i <= 0 || i == len(token)-1 {
		return "", "", ErrMalformedKey
	}
	return token[:i], token[i+1:], nil
}

// Auth resolves the owner of each request. With no keys configured every
// request acts as defaultOwner; otherwise a valid bearer key is required.
func Auth(keys KeyVerifier, defaultOwner string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keys == nil || keys.Len() == 0 {
				next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), defaultOwner)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("missing authorization header").WriteJSON(w)
				return
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}

			ownerID, secret, err := ParseAPIKey(strings.TrimSpace(parts[1]))
			if err != nil {
				model.NewUnauthorizedError(err.Error()).WriteJSON(w)
				return
			}
			if err := keys.Verify(ownerID, secret); err != nil {
				// Same detail for unknown owners and wrong secrets
				model.NewUnauthorizedError("invalid api key").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}

// WithOwnerID stores the authenticated owner in ctx
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}

// GetOwnerID extracts the owner ID from context
func GetOwnerID(ctx context.Context) string {
	if id, ok := ctx.Value(OwnerIDKey).(string); ok {
		return id
	}
	return ""
}
