// Package s3 stores objects in an S3 bucket. It backs OBJECT_STORE=s3.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"resume-builder/internal/shared/storage/object"
)

// API is the part of *s3.Client the store calls.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store writes every object with server-side encryption: SSE-KMS when a key id is set,
// SSE-S3 otherwise.
type Store struct {
	api      API
	bucket   string
	prefix   string
	kmsKeyID string
}

// New builds a store on the default AWS credential chain.
func New(ctx context.Context, region, bucket, prefix, kmsKeyID string) (*Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("s3 bucket is required")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(cfg), bucket, prefix, kmsKeyID), nil
}

func NewWithClient(api API, bucket, prefix, kmsKeyID string) *Store {
	return &Store{
		api:      api,
		bucket:   bucket,
		prefix:   strings.Trim(strings.TrimSpace(prefix), "/"),
		kmsKeyID: strings.TrimSpace(kmsKeyID),
	}
}

func (s *Store) Save(ctx context.Context, userID string, fileName string, r io.Reader) (object.Info, error) {
	return object.SaveNew(ctx, s, userID, fileName, r)
}

func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	body := &sizeReader{r: r}
	in := &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(applyPrefix(s.prefix, key)),
		Body:                 body,
		ContentType:          aws.String(contentType),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	}
	if s.kmsKeyID != "" {
		in.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		in.SSEKMSKeyId = aws.String(s.kmsKeyID)
	}
	if _, err := s.api.PutObject(ctx, in); err != nil {
		return 0, fmt.Errorf("s3 put s3://%s/%s: %w", s.bucket, aws.ToString(in.Key), err)
	}
	return body.n, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	full := applyPrefix(s.prefix, key)
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(full)})
	if err != nil {
		return nil, fmt.Errorf("s3 get s3://%s/%s: %w", s.bucket, full, err)
	}
	return out.Body, nil
}

// sizeReader counts the bytes the SDK consumed.
type sizeReader struct {
	r io.Reader
	n int64
}

func (c *sizeReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func applyPrefix(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	key = strings.TrimLeft(key, "/")
	if prefix == "" || key == "" {
		return prefix + key
	}
	return path.Join(prefix, key)
}

var _ object.ObjectStore = (*Store)(nil)
