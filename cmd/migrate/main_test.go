package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRejectsExtraArgs(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 2, run(t.Context(), []string{"up", "down"}, &stderr))
	assert.Contains(t, stderr.String(), "usage")
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 2, run(t.Context(), []string{"--nope"}, &stderr))
}

func TestRunFailsWithoutDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Chdir(t.TempDir())
	var stderr bytes.Buffer
	assert.Equal(t, 1, run(t.Context(), []string{"status"}, &stderr))
	assert.Contains(t, stderr.String(), "DATABASE_URL is empty")
}
