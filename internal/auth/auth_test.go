package auth_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sciforge/chemlab/internal/auth"
)

func TestJWTIssueAndValidate(t *testing.T) {
	v, err := auth.NewVerifier("", "")
	require.NoError(t, err)
	require.True(t, v.CanIssue())

	token, expiresAt, err := v.IssueToken("student-42", false, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "student-42", claims.UserID)
	assert.False(t, claims.Admin)
}

func TestAdminClaimRoundTrips(t *testing.T) {
	v, err := auth.NewVerifier("", "")
	require.NoError(t, err)

	token, _, err := v.IssueToken("teacher-1", true, time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
}

// newTestVerifierWithKey creates a Verifier backed by a real Ed25519 key pair
// written to temp PEM files, and returns the raw private key for forging tokens.
func newTestVerifierWithKey(t *testing.T) (*auth.Verifier, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	dir := t.TempDir()

	pubBytes, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	pubPath := filepath.Join(dir, "pub.pem")
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	v, err := auth.NewVerifier(pubPath, "")
	require.NoError(t, err)
	return v, priv
}

// forgeToken signs a JWT with the given private key and claims.
func forgeToken(t *testing.T, privKey ed25519.PrivateKey, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(privKey)
	require.NoError(t, err)
	return signed
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	v, privKey := newTestVerifierWithKey(t)

	now := time.Now().UTC()
	token := forgeToken(t, privKey, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-42",
			Issuer:    "someone-else",
			Audience:  jwt.ClaimStrings{"chemlab"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			ID:        uuid.New().String(),
		},
		UserID: "student-42",
	})

	_, err := v.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid issuer")
}

func TestValidateToken_WrongAudience(t *testing.T) {
	v, privKey := newTestVerifierWithKey(t)

	now := time.Now().UTC()
	token := forgeToken(t, privKey, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-42",
			Issuer:    "chemlab-idp",
			Audience:  jwt.ClaimStrings{"other-app"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			ID:        uuid.New().String(),
		},
		UserID: "student-42",
	})

	_, err := v.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_MissingIdentity(t *testing.T) {
	v, privKey := newTestVerifierWithKey(t)

	now := time.Now().UTC()
	token := forgeToken(t, privKey, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "chemlab-idp",
			Audience:  jwt.ClaimStrings{"chemlab"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			ID:        uuid.New().String(),
		},
	})

	_, err := v.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing user identity")
}

func TestValidateToken_Expired(t *testing.T) {
	v, privKey := newTestVerifierWithKey(t)

	now := time.Now().UTC()
	token := forgeToken(t, privKey, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-42",
			Issuer:    "chemlab-idp",
			Audience:  jwt.ClaimStrings{"chemlab"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)),
			ID:        uuid.New().String(),
		},
		UserID: "student-42",
	})

	_, err := v.ValidateToken(token)
	require.Error(t, err)
}

func TestSubjectFallsBackToUserID(t *testing.T) {
	v, privKey := newTestVerifierWithKey(t)

	now := time.Now().UTC()
	token := forgeToken(t, privKey, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student-99",
			Issuer:    "chemlab-idp",
			Audience:  jwt.ClaimStrings{"chemlab"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			ID:        uuid.New().String(),
		},
	})

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "student-99", claims.UserID)
}
