package object

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxFileNameLen = 120

var ErrInvalidFileName = errors.New("invalid file name")

// NewKey returns <user namespace>/<uuid>_<clean name>. The namespace is a hash so user ids
// never appear in object paths.
func NewKey(userID, fileName string) (string, error) {
	clean, err := CleanFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(UserNamespace(userID), uuid.NewString()+"_"+clean), nil
}

// UserNamespace is the hex SHA-256 of userID.
func UserNamespace(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

// CleanFileName keeps the base name of an uploaded file with separators and control
// characters replaced by "_". Traversal attempts and empty names are rejected.
func CleanFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
	if runes := []rune(cleaned); len(runes) > maxFileNameLen {
		ext := path.Ext(cleaned)
		if len([]rune(ext)) >= maxFileNameLen {
			ext = ""
		}
		cleaned = string(runes[:maxFileNameLen-len([]rune(ext))]) + ext
	}
	return cleaned, nil
}
