// Package workerproc turns queued import messages into ProcessImport calls. Both the
// long-polling worker and the Lambda worker go through it.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"resume-builder/internal/queue"
)

// Processor structures a queued import.
type Processor interface {
	ProcessImport(ctx context.Context, importID string) error
}

// MessageMeta identifies a payload in logs without echoing it.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

func metaOf(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// Reasons a payload is rejected before processing.
const (
	ReasonEmpty     = "empty_body"
	ReasonDecode    = "decode"
	ReasonMissingID = "missing_import_id"
)

// MessageError reports a payload that can never be processed.
type MessageError struct {
	Reason    string
	Meta      MessageMeta
	RequestID string
	Err       error
}

func (e *MessageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid import message (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid import message (%s)", e.Reason)
}

func (e *MessageError) Unwrap() error { return e.Err }

// ProcessError wraps a failure from the processor for a well-formed message.
type ProcessError struct {
	ImportID  string
	RequestID string
	Err       error
}

func (e *ProcessError) Error() string { return "process import " + e.ImportID + ": " + errString(e.Err) }

func (e *ProcessError) Unwrap() error { return e.Err }

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// Unrecoverable reports whether err means the message should be dropped instead of redelivered.
func Unrecoverable(err error) bool {
	var msgErr *MessageError
	return errors.As(err, &msgErr)
}

// ParseMessage decodes and validates a queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := metaOf(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, &MessageError{Reason: ReasonEmpty, Meta: meta}
	}
	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, &MessageError{Reason: ReasonDecode, Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.ImportID) == "" {
		return msg, meta, &MessageError{Reason: ReasonMissingID, Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedKey struct{}

// WithParsedMessage lets HandleMessage skip decoding a payload the caller already parsed.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedKey{}, msg)
}

// HandleMessage parses body (unless the context already carries it) and processes the import.
func HandleMessage(ctx context.Context, processor Processor, body string) error {
	if processor == nil {
		return errors.New("import processor not configured")
	}
	msg, ok := ctx.Value(parsedKey{}).(queue.Message)
	if !ok || strings.TrimSpace(msg.ImportID) == "" {
		var err error
		if msg, _, err = ParseMessage(body); err != nil {
			return err
		}
	}
	if err := processor.ProcessImport(ctx, msg.ImportID); err != nil {
		return &ProcessError{ImportID: msg.ImportID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
