package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/queue"
)

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]sqstypes.Message
	deleted  []string
	receives int
	onEmpty  func()
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	f.receives++
	if len(f.batches) == 0 {
		onEmpty := f.onEmpty
		f.mu.Unlock()
		if onEmpty != nil {
			onEmpty()
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	f.mu.Unlock()
	return &sqs.ReceiveMessageOutput{Messages: batch}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeProcessor struct {
	mu   sync.Mutex
	ids  []string
	fail map[string]error
}

func (f *fakeProcessor) ProcessImport(_ context.Context, importID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, importID)
	return f.fail[importID]
}

func sqsMessage(t *testing.T, receipt, body string) sqstypes.Message {
	t.Helper()
	return sqstypes.Message{
		MessageId:     aws.String("m-" + receipt),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(body),
		Attributes:    map[string]string{"ApproximateReceiveCount": "2"},
	}
}

func encoded(t *testing.T, importID string) string {
	t.Helper()
	raw, err := queue.EncodeMessage(queue.Message{ImportID: importID, RequestID: "req-1"})
	require.NoError(t, err)
	return string(raw)
}

func newPoller(client sqsAPI, proc *fakeProcessor) *poller {
	return &poller{client: client, queueURL: "queue", processor: proc, concurrency: 2, visibility: time.Minute, errBackoff: time.Millisecond}
}

func TestHandleDeletesProcessedMessages(t *testing.T) {
	client := &fakeSQS{}
	proc := &fakeProcessor{}

	newPoller(client, proc).handle(t.Context(), sqsMessage(t, "r1", encoded(t, "imp-1")))

	assert.Equal(t, []string{"imp-1"}, proc.ids)
	assert.Equal(t, []string{"r1"}, client.deleted)
}

func TestHandleKeepsFailedMessages(t *testing.T) {
	client := &fakeSQS{}
	proc := &fakeProcessor{fail: map[string]error{"imp-1": errors.New("llm timeout")}}

	newPoller(client, proc).handle(t.Context(), sqsMessage(t, "r1", encoded(t, "imp-1")))

	assert.Equal(t, []string{"imp-1"}, proc.ids)
	assert.Empty(t, client.deleted)
}

func TestHandleDeletesMalformedMessages(t *testing.T) {
	for _, body := range []string{"", "{not json", `{"requestId":"req-1"}`, `{"importId":"x","version":7}`} {
		client := &fakeSQS{}
		proc := &fakeProcessor{}
		newPoller(client, proc).handle(t.Context(), sqsMessage(t, "r1", body))
		assert.Equal(t, []string{"r1"}, client.deleted, body)
		assert.Empty(t, proc.ids, body)
	}
}

func TestRunProcessesBatchesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	client := &fakeSQS{
		batches: [][]sqstypes.Message{
			{sqsMessage(t, "r1", encoded(t, "imp-1")), sqsMessage(t, "r2", encoded(t, "imp-2"))},
			{sqsMessage(t, "r3", encoded(t, "imp-3"))},
		},
		onEmpty: cancel,
	}
	proc := &fakeProcessor{fail: map[string]error{"imp-2": errors.New("transient")}}

	assert.True(t, newPoller(client, proc).run(ctx, time.Second))

	assert.ElementsMatch(t, []string{"imp-1", "imp-2", "imp-3"}, proc.ids)
	assert.ElementsMatch(t, []string{"r1", "r3"}, client.deleted)
}

func TestReceiveCount(t *testing.T) {
	assert.Equal(t, 2, receiveCount(sqsMessage(t, "r", "")))
	assert.Equal(t, 0, receiveCount(sqstypes.Message{}))
	assert.Equal(t, 0, receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "x"}}))
}
