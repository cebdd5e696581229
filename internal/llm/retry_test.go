package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyClient struct {
	errs  []error
	calls int
}

func (f *flakyClient) Complete(context.Context, string) (string, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return `{"ok":true}`, nil
}

func fastRetry(base Client) Client {
	return retryingClient{base: base}
}

func TestRetryRecoversFromTransientError(t *testing.T) {
	base := &flakyClient{errs: []error{errors.New("openai: http status 503")}}
	out, err := fastRetry(base).Complete(t.Context(), "p")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, 2, base.calls)
}

func TestRetryGivesUpAfterOneRetry(t *testing.T) {
	transient := errors.New("connection reset by peer")
	base := &flakyClient{errs: []error{transient, transient}}
	_, err := fastRetry(base).Complete(t.Context(), "p")
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 2, base.calls)
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	base := &flakyClient{errs: []error{errors.New("openai: http status 400")}}
	_, err := fastRetry(base).Complete(t.Context(), "p")
	assert.Error(t, err)
	assert.Equal(t, 1, base.calls)

	_, err = WithRetry(PlaceholderClient{}).Complete(t.Context(), "p")
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestWithRetryNil(t *testing.T) {
	assert.Nil(t, WithRetry(nil))
}
