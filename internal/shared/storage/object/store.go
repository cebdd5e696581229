package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Info describes a stored object.
type Info struct {
	Key      string
	Size     int64
	MimeType string
}

// ObjectStore saves and reads binary objects such as uploaded resume files.
type ObjectStore interface {
	// Save stores r under a fresh key in the user's namespace and sniffs its MIME type.
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (Info, error)
	// Put stores r at key, replacing any existing object.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Sniff detects the MIME type from the first 512 bytes of r. The returned reader yields
// the full original content.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}

// Putter writes an object at an exact key.
type Putter interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
}

// SaveNew sniffs r and writes it to p under a fresh key in userID's namespace. Stores
// implement Save with it.
func SaveNew(ctx context.Context, p Putter, userID, fileName string, r io.Reader) (Info, error) {
	key, err := NewKey(userID, fileName)
	if err != nil {
		return Info{}, err
	}
	mime, body, err := Sniff(r)
	if err != nil {
		return Info{}, err
	}
	size, err := p.Put(ctx, key, mime, body)
	if err != nil {
		return Info{}, err
	}
	return Info{Key: key, Size: size, MimeType: mime}, nil
}
