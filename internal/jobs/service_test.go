package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreateValidates(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateInput
	}{
		{name: "missing company", in: CreateInput{Position: "Engineer"}},
		{name: "missing position", in: CreateInput{CompanyName: "Acme"}},
		{name: "relative url", in: CreateInput{CompanyName: "Acme", Position: "Engineer", JobURL: "/careers/1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestServiceLifecycle(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	tick := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", CreateInput{
		CompanyName: " Acme ",
		Position:    "Engineer",
		JobURL:      "https://acme.example/jobs/1",
		Keywords:    []string{"go", " ", "postgres"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", first.CompanyName)
	assert.Equal(t, []string{"go", "postgres"}, first.Keywords)

	second, err := svc.Create(ctx, "user-1", CreateInput{CompanyName: "Initech", Position: "SRE"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = svc.Get(ctx, "user-2", first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "user-1", first.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "user-1", first.ID), ErrNotFound)
}
