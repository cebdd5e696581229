package main

// Long-polling import worker:
//   IMPORT_QUEUE_URL=https://sqs... go run ./cmd/worker

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/workerproc"
)

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// poller receives import jobs and hands them to processor, at most concurrency at a time.
type poller struct {
	client      sqsAPI
	queueURL    string
	processor   workerproc.Processor
	concurrency int
	visibility  time.Duration
	errBackoff  time.Duration
}

func main() {
	cfg := config.Load()
	if cfg.ImportQueueURL == "" {
		log.Fatal("IMPORT_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	region := cfg.AWSRegion
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	p := &poller{
		client:      sqs.NewFromConfig(awsCfg),
		queueURL:    cfg.ImportQueueURL,
		processor:   app.ImportsService,
		concurrency: cfg.WorkerConcurrency,
		visibility:  cfg.WorkerVisibilityTimeout,
		errBackoff:  2 * time.Second,
	}
	shutdownTimeout := cfg.WorkerShutdownTimeout

	telemetry.Info("worker.started", map[string]any{"queue": p.queueURL, "concurrency": p.concurrency})
	if !p.run(ctx, shutdownTimeout) {
		telemetry.Warn("worker.shutdown_timeout", map[string]any{"timeout_s": shutdownTimeout.Seconds()})
	}
	telemetry.Info("worker.stopped", nil)
}

// run polls until ctx is cancelled, then waits up to drain for in-flight jobs. It reports
// whether every job finished.
func (p *poller) run(ctx context.Context, drain time.Duration) bool {
	slots := make(chan struct{}, max(1, p.concurrency))
	var wg sync.WaitGroup

	for ctx.Err() == nil {
		msgs, err := p.receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				break
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			sleep(ctx, p.errBackoff)
			continue
		}
		for _, msg := range msgs {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				// Unstarted messages become visible again after the timeout.
				return waitFor(&wg, drain)
			}
			metrics.IncImportJobsReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-slots }()
				// In-flight jobs finish even after shutdown starts.
				p.handle(context.WithoutCancel(ctx), m)
			}(msg)
		}
	}
	return waitFor(&wg, drain)
}

func (p *poller) receive(ctx context.Context) ([]sqstypes.Message, error) {
	out, err := p.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:                    aws.String(p.queueURL),
		MaxNumberOfMessages:         int32(min(10, max(1, p.concurrency))),
		WaitTimeSeconds:             20,
		VisibilityTimeout:           int32(p.visibility / time.Second),
		MessageSystemAttributeNames: []sqstypes.MessageSystemAttributeName{sqstypes.MessageSystemAttributeNameApproximateReceiveCount},
	})
	if err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// handle processes one message. Processed and malformed messages are deleted; failures stay
// on the queue for redelivery.
func (p *poller) handle(ctx context.Context, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	fields := map[string]any{
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}

	parsed, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields["body_len"] = meta.BodyLen
		fields["body_sha256"] = meta.BodySHA
		fields["error"] = err.Error()
		telemetry.Error("worker.import.invalid_message", fields)
		if p.delete(ctx, msg, fields) {
			metrics.IncImportJobsDeletedUnrecoverable()
		}
		return
	}
	fields["import_id"] = parsed.ImportID
	if parsed.RequestID != "" {
		fields["request_id"] = parsed.RequestID
	}

	if err := workerproc.HandleMessage(workerproc.WithParsedMessage(ctx, parsed), p.processor, body); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.import.failed", fields)
		metrics.IncImportJobsFailed()
		return
	}
	if p.delete(ctx, msg, fields) {
		telemetry.Info("worker.import.completed", fields)
		metrics.IncImportJobsCompleted()
	}
}

func (p *poller) delete(ctx context.Context, msg sqstypes.Message, fields map[string]any) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	err := errors.New("missing receipt handle")
	if receipt != "" {
		_, err = p.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(p.queueURL),
			ReceiptHandle: aws.String(receipt),
		})
	}
	if err != nil {
		fields["delete_error"] = err.Error()
		telemetry.Error("worker.import.delete_failed", fields)
		return false
	}
	return true
}

func receiveCount(msg sqstypes.Message) int {
	n, err := strconv.Atoi(msg.Attributes[string(sqstypes.MessageSystemAttributeNameApproximateReceiveCount)])
	if err != nil {
		return 0
	}
	return n
}

func waitFor(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
