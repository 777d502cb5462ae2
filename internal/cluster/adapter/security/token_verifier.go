package security

import (
	"context"
	"errors"
	"time"

	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/cluster/domain/repository"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// verifyTimeout bounds token verification; a hung verification must surface
// as an error instead of stalling the request.
const verifyTimeout = 5 * time.Second

// idTokenClaims are the claims carried by the identity provider's tokens.
type idTokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier resolves bearer tokens into principals using HS256 signature
// and issuer checks.
type JWTVerifier struct {
	secretKey []byte
	issuer    string
}

// NewJWTVerifier creates a token verifier from configuration.
func NewJWTVerifier(cfg *config.Config) (*JWTVerifier, error) {
	if cfg.AuthSecretKey == "" {
		return nil, errors.New("auth secret key cannot be empty")
	}
	if cfg.AuthIssuer == "" {
		return nil, errors.New("auth issuer cannot be empty")
	}
	return &JWTVerifier{
		secretKey: []byte(cfg.AuthSecretKey),
		issuer:    cfg.AuthIssuer,
	}, nil
}

// Verify validates the token and returns the principal it identifies.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*repository.Principal, error) {
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	type result struct {
		claims *idTokenClaims
		err    error
	}
	done := make(chan result, 1)
	go func() {
		claims, err := v.parse(tokenString)
		done <- result{claims, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return &repository.Principal{
			UID:   res.claims.Subject,
			Email: res.claims.Email,
		}, nil
	}
}

func (v *JWTVerifier) parse(tokenString string) (*idTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &idTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignatureInvalid
		}
		return v.secretKey, nil
	}, jwt.WithIssuer(v.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenSignatureInvalid
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*idTokenClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
