package workerproc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/queue"
)

type recordingProcessor struct {
	ids []string
	err error
}

func (p *recordingProcessor) ProcessImport(_ context.Context, importID string) error {
	p.ids = append(p.ids, importID)
	return p.err
}

func encode(t *testing.T, msg queue.Message) string {
	t.Helper()
	raw, err := queue.EncodeMessage(msg)
	require.NoError(t, err)
	return string(raw)
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		assert func(t *testing.T, err error)
	}{
		{name: "empty", body: "  ", assert: func(t *testing.T, err error) {
			var target *MessageError
			require.ErrorAs(t, err, &target)
			assert.Equal(t, ReasonEmpty, target.Reason)
		}},
		{name: "bad json", body: "{", assert: func(t *testing.T, err error) {
			var target *MessageError
			require.ErrorAs(t, err, &target)
			assert.Equal(t, ReasonDecode, target.Reason)
			assert.Equal(t, 1, target.Meta.BodyLen)
			assert.Len(t, target.Meta.BodySHA, 64)
		}},
		{name: "missing id", body: `{"requestId":"req-1"}`, assert: func(t *testing.T, err error) {
			var target *MessageError
			require.ErrorAs(t, err, &target)
			assert.Equal(t, ReasonMissingID, target.Reason)
			assert.Equal(t, "req-1", target.RequestID)
		}},
		{name: "valid", body: `{"importId":"imp-1"}`, assert: func(t *testing.T, err error) {
			assert.NoError(t, err)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseMessage(tt.body)
			tt.assert(t, err)
		})
	}
}

func TestHandleMessageProcessesImport(t *testing.T) {
	p := &recordingProcessor{}
	require.NoError(t, HandleMessage(t.Context(), p, encode(t, queue.Message{ImportID: "imp-1", RequestID: "req-1"})))
	assert.Equal(t, []string{"imp-1"}, p.ids)
}

func TestHandleMessageUsesParsedMessageFromContext(t *testing.T) {
	p := &recordingProcessor{}
	ctx := WithParsedMessage(t.Context(), queue.Message{ImportID: "imp-ctx"})
	require.NoError(t, HandleMessage(ctx, p, "ignored"))
	assert.Equal(t, []string{"imp-ctx"}, p.ids)
}

func TestHandleMessageWrapsProcessError(t *testing.T) {
	cause := errors.New("llm timeout")
	p := &recordingProcessor{err: cause}
	err := HandleMessage(t.Context(), p, encode(t, queue.Message{ImportID: "imp-1", RequestID: "req-1"}))

	var procErr *ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "imp-1", procErr.ImportID)
	assert.ErrorIs(t, err, cause)
	assert.False(t, Unrecoverable(err))
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	p := &recordingProcessor{}
	for _, body := range []string{"", "{", `{"importId":" "}`} {
		err := HandleMessage(t.Context(), p, body)
		require.Error(t, err, body)
		assert.True(t, Unrecoverable(err), body)
	}
	assert.Empty(t, p.ids)
	assert.Error(t, HandleMessage(t.Context(), nil, `{"importId":"imp-1"}`))
}

func TestFutureMessageVersionIsUnrecoverable(t *testing.T) {
	p := &recordingProcessor{}
	err := HandleMessage(t.Context(), p, `{"importId":"imp-1","version":99}`)
	assert.ErrorIs(t, err, queue.ErrUnsupportedVersion)
	assert.True(t, Unrecoverable(err))
	assert.Empty(t, p.ids)
}
