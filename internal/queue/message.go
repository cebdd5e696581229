package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MessageVersion is the payload version this build writes and the newest it reads.
const MessageVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported message version")

// Message asks a worker to process a queued resume import.
type Message struct {
	ImportID   string `json:"importId"`
	RequestID  string `json:"requestId,omitempty"`
	EnqueuedAt string `json:"enqueuedAt,omitempty"`
	Version    int    `json:"version"`
}

// EncodeMessage stamps the current version on msg when unset and returns its JSON.
func EncodeMessage(msg Message) ([]byte, error) {
	if strings.TrimSpace(msg.ImportID) == "" {
		return nil, errors.New("import id is required")
	}
	if msg.Version == 0 {
		msg.Version = MessageVersion
	}
	return json.Marshal(msg)
}

// DecodeMessage parses payload. Payloads without a version are read as version 1; newer
// versions are rejected with ErrUnsupportedVersion.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Version == 0 {
		msg.Version = MessageVersion
	}
	if msg.Version > MessageVersion {
		return Message{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, msg.Version)
	}
	return msg, nil
}
