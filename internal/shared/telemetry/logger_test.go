package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEmitsJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("resume.merge", map[string]any{
		"resume_count": 2,
		"err":          errors.New("boom"),
	})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "warn", payload["level"])
	assert.Equal(t, "resume.merge", payload["msg"])
	assert.Equal(t, float64(2), payload["resume_count"])
	assert.Equal(t, "boom", payload["err"])
	assert.NotEmpty(t, payload["ts"])
}

func TestSetOutputConcurrentWithLogging(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			restore := SetOutput(io.Discard)
			restore()
		}()
		go func() {
			defer wg.Done()
			Info("concurrent", map[string]any{"n": 1})
		}()
	}
	wg.Wait()

	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()
	Info("after", nil)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "after", payload["msg"])
	assert.NotEmpty(t, payload["ts"])
}
