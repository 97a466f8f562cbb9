package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"customer-importer/internal/config"
	"customer-importer/internal/domain/ingestion"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// s3API is the part of *s3.Client the store calls.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Store struct {
	client s3API
	logger *slog.Logger
}

var _ ingestion.ObjectStore = (*S3Store)(nil)

// NewS3Client builds an S3 client from the default AWS credential chain,
// overridden by static keys and a custom endpoint when configured.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

func NewS3Store(client s3API, logger *slog.Logger) *S3Store {
	if client == nil {
		panic("s3 client cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &S3Store{
		client: client,
		logger: logger.With(slog.String("component", "S3Store")),
	}
}

// GetObject streams the object body. The caller closes it.
func (s *S3Store) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	logCtx := s.logger.With(slog.String("bucket", bucket), slog.String("key", key))
	logCtx.DebugContext(ctx, "Fetching object")

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			logCtx.WarnContext(ctx, "Object not found")
			return nil, fmt.Errorf("%w: s3://%s/%s: %w", ingestion.ErrObjectNotFound, bucket, key, err)
		}
		logCtx.ErrorContext(ctx, "Failed to get object", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}

	if out.ContentLength != nil {
		logCtx.DebugContext(ctx, "Object fetched", slog.Int64("contentLength", *out.ContentLength))
	}
	return out.Body, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}
