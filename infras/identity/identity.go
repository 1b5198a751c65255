package identity

//go:generate go run go.uber.org/mock/mockgen -source=./identity.go -destination=./mocks/identity_mock.go -package=mocks

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"libraryhub/config"
	"libraryhub/infras/otel"
	"libraryhub/shared/constant"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	ErrMissingEmail      = errors.New("token carries no email")
	ErrUnverifiedEmail   = errors.New("email address is not verified")
	ErrMissingHeader     = errors.New("authorization header is required")
	ErrMalformedHeader   = errors.New("authorization header must start with 'Bearer '")
	errNoVerificationKey = errors.New("identity verifier has neither a public key nor a secret")
)

const bearerPrefix = "Bearer "

// Identity is what the rest of the service knows about an authenticated caller.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
}

// Claims mirrors the ID tokens issued by the identity provider.
type Claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type verifierImpl struct {
	publicKey            *rsa.PublicKey
	secret               []byte
	parser               *jwt.Parser
	requireVerifiedEmail bool
	otel                 otel.Otel
}

// New builds a verifier for RS256 tokens when a PEM public key is configured,
// otherwise for HS256 tokens signed with the shared secret.
func New(cfg *config.Config, otel otel.Otel) (Verifier, error) {
	options := []jwt.ParserOption{jwt.WithExpirationRequired()}

	if cfg.Identity.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Identity.Issuer))
	}

	if cfg.Identity.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.Identity.Audience))
	}

	verifier := &verifierImpl{
		requireVerifiedEmail: cfg.Identity.RequireVerifiedEmail,
		otel:                 otel,
	}

	switch {
	case cfg.Identity.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.Identity.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse identity public key: %w", err)
		}

		verifier.publicKey = key
		options = append(options, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	case cfg.Identity.Secret != "":
		verifier.secret = []byte(cfg.Identity.Secret)
		options = append(options, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	default:
		return nil, errNoVerificationKey
	}

	verifier.parser = jwt.NewParser(options...)

	return verifier, nil
}

func (v *verifierImpl) keyFunc(*jwt.Token) (any, error) {
	if v.publicKey != nil {
		return v.publicKey, nil
	}

	return v.secret, nil
}

// Verify validates the token signature and registered claims and returns the caller identity.
func (v *verifierImpl) Verify(ctx context.Context, token string) (res *Identity, err error) {
	_, scope := v.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".identity.Verify")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims := &Claims{}

	parsed, err := v.parser.ParseWithClaims(token, claims, v.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	if v.requireVerifiedEmail && !claims.EmailVerified {
		return nil, ErrUnverifiedEmail
	}

	return &Identity{
		Subject:       claims.Subject,
		Email:         strings.ToLower(email),
		EmailVerified: claims.EmailVerified,
	}, nil
}

// ExtractTokenFromHeader extracts the bearer token from an Authorization header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	token, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found || strings.TrimSpace(token) == "" {
		return "", ErrMalformedHeader
	}

	return strings.TrimSpace(token), nil
}
