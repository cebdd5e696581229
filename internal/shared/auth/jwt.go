// Package auth issues and verifies the HS256 session tokens handed out after Google login.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// Issuer is stamped on every token and required on verification.
	Issuer = "resume-builder"

	defaultTTL = 24 * time.Hour
	devSecret  = "dev-secret"
)

// Claims is the identity carried by a session token.
type Claims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Iss     string `json:"iss,omitempty"`
	Exp     int64  `json:"exp,omitempty"`
	Iat     int64  `json:"iat,omitempty"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)

	errMissingSecret = errors.New("jwt secret not configured")
)

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

var encodedHeader = mustEncode(header{Alg: "HS256", Typ: "JWT"})

// SignJWT signs claims with the configured secret. Iat, Exp and Iss are filled in when unset;
// tokens live for a day by default.
func SignJWT(claims Claims) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(claims.Sub) == "" {
		return "", fmt.Errorf("%w: sub is required", ErrInvalidToken)
	}

	now := time.Now().UTC()
	if claims.Iat == 0 {
		claims.Iat = now.Unix()
	}
	if claims.Exp == 0 {
		claims.Exp = now.Add(defaultTTL).Unix()
	}
	if claims.Iss == "" {
		claims.Iss = Issuer
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}
	unsigned := encodedHeader + "." + base64.RawURLEncoding.EncodeToString(payload)
	return unsigned + "." + signature(unsigned, secret), nil
}

// VerifyJWT checks the signature, algorithm, issuer and expiry of token and returns its claims.
func VerifyJWT(token string) (Claims, error) {
	secret, err := secretKey()
	if err != nil {
		return Claims{}, err
	}

	headerPart, rest, ok := strings.Cut(token, ".")
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	payloadPart, sig, ok := strings.Cut(rest, ".")
	if !ok || strings.Contains(sig, ".") {
		return Claims{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(signature(headerPart+"."+payloadPart, secret))) {
		return Claims{}, ErrInvalidToken
	}

	var h header
	if err := decodeSegment(headerPart, &h); err != nil || h.Alg != "HS256" {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := decodeSegment(payloadPart, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if claims.Sub == "" || (claims.Iss != "" && claims.Iss != Issuer) {
		return Claims{}, ErrInvalidToken
	}
	if claims.Exp > 0 && time.Now().UTC().Unix() > claims.Exp {
		return Claims{}, ErrExpiredToken
	}
	return claims, nil
}

func decodeSegment(seg string, out any) error {
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func signature(input string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func mustEncode(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// secretKey reads JWT_SECRET. Outside production an unset secret falls back to a dev value.
func secretKey() ([]byte, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret != "" {
		return []byte(secret), nil
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))) {
	case "production", "prod":
		return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
	}
	return []byte(devSecret), nil
}
