// Package auth provides the token verifiers used by middleware.AuthMiddleware.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// claimsToken exposes the claims of a verified JWT.
type claimsToken struct {
	claims jwt.MapClaims
}

func (t *claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// HMACVerifier accepts HS256 access tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHMACVerifier(secret string) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &HMACVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

func (v *HMACVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if sub, _ := claims.GetSubject(); sub == "" {
		return nil, errors.New("verify token: missing subject")
	}
	return &claimsToken{claims: claims}, nil
}
