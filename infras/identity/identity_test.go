package identity_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"libraryhub/config"
	"libraryhub/infras/identity"
	"libraryhub/infras/otel/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "library-secret"
	testIssuer   = "https://securetoken.example/library"
	testAudience = "library"
)

func hsConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Identity.Secret = testSecret
	cfg.Identity.Issuer = testIssuer
	cfg.Identity.Audience = testAudience

	return cfg
}

func claims(email string, verified bool, expiresIn time.Duration) identity.Claims {
	now := time.Now()

	return identity.Claims{
		Email:         email,
		EmailVerified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-7",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
}

func signHS(t *testing.T, c identity.Claims, secret string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := identity.New(&config.Config{}, mocks.NewOtel())

	assert.Error(t, err)
}

func TestVerify_HS256(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		token       func(t *testing.T) string
		requireMail bool
		wantErr     error
		wantEmail   string
	}{
		{
			name:      "valid token",
			token:     func(t *testing.T) string { return signHS(t, claims("Reader@Library.test", true, time.Hour), testSecret) },
			wantEmail: "reader@library.test",
		},
		{
			name:    "expired token",
			token:   func(t *testing.T) string { return signHS(t, claims("reader@library.test", true, -time.Hour), testSecret) },
			wantErr: identity.ErrExpiredToken,
		},
		{
			name:    "wrong secret",
			token:   func(t *testing.T) string { return signHS(t, claims("reader@library.test", true, time.Hour), "other") },
			wantErr: identity.ErrInvalidToken,
		},
		{
			name:    "missing email",
			token:   func(t *testing.T) string { return signHS(t, claims("", true, time.Hour), testSecret) },
			wantErr: identity.ErrMissingEmail,
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				c := claims("reader@library.test", true, time.Hour)
				c.Audience = jwt.ClaimStrings{"someone-else"}

				return signHS(t, c, testSecret)
			},
			wantErr: identity.ErrInvalidToken,
		},
		{
			name:        "unverified email rejected when required",
			token:       func(t *testing.T) string { return signHS(t, claims("reader@library.test", false, time.Hour), testSecret) },
			requireMail: true,
			wantErr:     identity.ErrUnverifiedEmail,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "not-a-jwt" },
			wantErr: identity.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := hsConfig()
			cfg.Identity.RequireVerifiedEmail = tt.requireMail

			verifier, err := identity.New(cfg, mocks.NewOtel())
			require.NoError(t, err)

			got, err := verifier.Verify(ctx, tt.token(t))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, got.Email)
			assert.Equal(t, "uid-7", got.Subject)
		})
	}
}

func TestVerify_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Identity.PublicKeyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
	cfg.Identity.Issuer = testIssuer

	verifier, err := identity.New(cfg, mocks.NewOtel())
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims("reader@library.test", true, time.Hour)).SignedString(key)
	require.NoError(t, err)

	got, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "reader@library.test", got.Email)
	assert.True(t, got.EmailVerified)

	t.Run("rejects HS256 when configured for RS256", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), signHS(t, claims("reader@library.test", true, time.Hour), testSecret))

		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: identity.ErrMissingHeader},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantErr: identity.ErrMalformedHeader},
		{name: "bearer without token", header: "Bearer ", wantErr: identity.ErrMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := identity.ExtractTokenFromHeader(tt.header)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
