// Package auth verifies JWTs issued by the external identity provider.
//
// Uses Ed25519 (EdDSA). The verification key is loaded from a PEM file;
// when no key is configured an ephemeral pair is generated so local
// development can mint its own tokens.
package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "chemlab-idp"

// Claims extends jwt.RegisteredClaims with chemlab-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Admin  bool   `json:"admin,omitempty"` // Grants write access to the chemical and lesson libraries.
}

// Verifier validates tokens minted by the identity provider.
type Verifier struct {
	publicKey ed25519.PublicKey

	// Set only in dev mode when no key files are configured; lets tests
	// and local runs mint their own tokens.
	privateKey ed25519.PrivateKey
}

// NewVerifier loads the provider's public key from a PEM file. If the path
// is empty, generates an ephemeral key pair (for development).
func NewVerifier(publicKeyPath, privateKeyPath string) (*Verifier, error) {
	if publicKeyPath == "" {
		slog.Warn("auth: no JWT public key configured, generating ephemeral key pair (not for production)")
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("auth: generate key pair: %w", err)
		}
		return &Verifier{publicKey: pub, privateKey: priv}, nil
	}

	pubPEM, err := os.ReadFile(publicKeyPath) //nolint:gosec // paths come from validated config, not user input
	if err != nil {
		return nil, fmt.Errorf("auth: read public key: %w", err)
	}
	pubBlock, _ := pem.Decode(pubPEM)
	if pubBlock == nil {
		return nil, fmt.Errorf("auth: decode public key PEM")
	}
	pubKey, err := x509.ParsePKIXPublicKey(pubBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("auth: parse public key: %w", err)
	}
	edPub, ok := pubKey.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("auth: public key is not Ed25519")
	}

	v := &Verifier{publicKey: edPub}

	if privateKeyPath != "" {
		privPEM, err := os.ReadFile(privateKeyPath) //nolint:gosec // paths come from validated config, not user input
		if err != nil {
			return nil, fmt.Errorf("auth: read private key: %w", err)
		}
		block, _ := pem.Decode(privPEM)
		if block == nil {
			return nil, fmt.Errorf("auth: decode private key PEM")
		}
		privKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("auth: parse private key: %w", err)
		}
		edPriv, ok := privKey.(ed25519.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("auth: private key is not Ed25519")
		}
		v.privateKey = edPriv
	}

	return v, nil
}

// CanIssue reports whether this verifier holds a signing key. True only in
// dev mode or when a private key path was configured.
func (v *Verifier) CanIssue() bool {
	return v.privateKey != nil
}

// IssueToken mints a signed JWT for the given user. Only available when a
// private key is held; production deployments verify tokens minted elsewhere.
func (v *Verifier) IssueToken(userID string, admin bool, ttl time.Duration) (string, time.Time, error) {
	if v.privateKey == nil {
		return "", time.Time{}, fmt.Errorf("auth: no signing key available")
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{"chemlab"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.New().String(),
		},
		UserID: userID,
		Admin:  admin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(v.privateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (v *Verifier) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodEd25519); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return v.publicKey, nil
		},
		jwt.WithAudience("chemlab"),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: validate token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if claims.Issuer != issuer {
		return nil, fmt.Errorf("auth: invalid issuer: %s", claims.Issuer)
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("auth: token missing user identity")
	}

	return claims, nil
}
