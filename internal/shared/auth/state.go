package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidState = errors.New("invalid oauth state")

// NewState returns an OAuth state value valid until exp: "<nonce>.<unix exp>.<hmac>".
// It needs no server-side storage, so any instance can verify it.
func NewState(exp time.Time) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}
	unsigned := uuid.NewString() + "." + strconv.FormatInt(exp.Unix(), 10)
	return unsigned + "." + signature("state:"+unsigned, secret), nil
}

// VerifyState checks the signature and expiry of a value produced by NewState.
func VerifyState(state string, now time.Time) error {
	secret, err := secretKey()
	if err != nil {
		return err
	}
	parts := strings.Split(state, ".")
	if len(parts) != 3 {
		return ErrInvalidState
	}
	unsigned := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(signature("state:"+unsigned, secret))) {
		return ErrInvalidState
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ErrInvalidState
	}
	if now.Unix() > exp {
		return fmt.Errorf("%w: expired", ErrInvalidState)
	}
	return nil
}
