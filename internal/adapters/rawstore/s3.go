package rawstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	perr "spinlog/internal/platform/errors"
)

const rawContentType = "application/json"

// S3Options configure the bucket-backed store.
type S3Options struct {
	Bucket       string
	Region       string
	Endpoint     string // custom endpoint for MinIO or LocalStack
	UsePathStyle bool   // required by most S3 compatibles
	MaxRetries   int    // retries after the first attempt, default 3
}

// s3API is the slice of the S3 client we call. It satisfies
// s3.ListObjectsV2APIClient so the paginator accepts it too.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3 stores raw payloads in a bucket. Transient failures are retried with
// exponential backoff; NotFound is surfaced immediately.
type S3 struct {
	client     s3API
	bucket     string
	maxRetries int
}

// OpenS3 resolves AWS credentials from the environment and returns a bucket
// store. Endpoint and path style are applied when set so the same path works
// against MinIO in dev.
func OpenS3(ctx context.Context, opt S3Options) (*S3, error) {
	if opt.Bucket == "" {
		return nil, perr.InvalidArgf("rawstore: bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opt.Region))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opt.Endpoint != "" {
			o.BaseEndpoint = aws.String(opt.Endpoint)
		}
		o.UsePathStyle = opt.UsePathStyle
	})
	return NewS3WithClient(client, opt), nil
}

// NewS3WithClient wires an existing client. Tests use it with a fake.
func NewS3WithClient(client s3API, opt S3Options) *S3 {
	retries := opt.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &S3{client: client, bucket: opt.Bucket, maxRetries: retries}
}

// Put uploads body under key, replacing any existing object.
func (s *S3) Put(ctx context.Context, key string, body []byte) error {
	err := s.retry(ctx, func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(rawContentType),
		})
		return err
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: put %s", key)
	}
	return nil
}

// Get returns the object body for key. The caller closes the reader.
func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	var out *s3.GetObjectOutput
	err := s.retry(ctx, func() error {
		var err error
		out, err = s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, perr.NotFoundf("rawstore: %s not found", key)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: get %s", key)
	}
	return out.Body, nil
}

// Exists reports whether key is present without fetching the body.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	err := s.retry(ctx, func() error {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: head %s", key)
	}
	return true, nil
}

// List returns all keys under prefix in lexical order.
func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	pager := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "rawstore: list %s", prefix)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// retry runs op up to maxRetries+1 times with 100ms doubling backoff.
// NotFound style errors are terminal and break the loop at once.
func (s *S3) retry(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(lastErr, &noKey) || errors.As(lastErr, &notFound) {
			return lastErr
		}
	}
	return lastErr
}
