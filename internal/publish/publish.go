// Package publish uploads rendered résumés to S3-compatible object storage
// so they can be shared by link.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ObjectPutter is the subset of the S3 client the publisher needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config selects the bucket and, for R2 or MinIO, the endpoint
type Config struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	// Static credentials; when empty the default AWS chain is used
	AccessKey string
	SecretKey string
}

// WithEnvCredentials fills the credentials from PUBLISH_ACCESS_KEY and
// PUBLISH_SECRET_KEY
func (c Config) WithEnvCredentials() Config {
	if v := os.Getenv("PUBLISH_ACCESS_KEY"); v != "" {
		c.AccessKey = v
	}
	if v := os.Getenv("PUBLISH_SECRET_KEY"); v != "" {
		c.SecretKey = v
	}
	return c
}

// Error reports a failed upload
type Error struct {
	Key     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("publish %s: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("publish %s: %s", e.Key, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Publisher writes objects under a key prefix in one bucket
type Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *zap.Logger
}

// New wraps an existing client
func New(client ObjectPutter, bucket, prefix string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// NewS3 builds a Publisher backed by the AWS SDK
func NewS3(ctx context.Context, cfg Config, logger *zap.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, &Error{Message: "bucket is required"}
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return New(client, cfg.Bucket, cfg.Prefix, logger), nil
}

// Key returns the object key name is stored under
func (p *Publisher) Key(name string) string {
	return path.Join(p.prefix, strings.TrimLeft(name, "/"))
}

// Put uploads data under name and returns the object key
func (p *Publisher) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := p.Key(name)
	if name == "" {
		return "", &Error{Key: key, Message: "object name is empty"}
	}

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", &Error{Key: key, Message: "upload failed", Cause: err}
	}

	p.logger.Info("published export",
		zap.String("bucket", p.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return key, nil
}

// ContentType returns the MIME type for an export file extension
func ContentType(ext string) string {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "pdf":
		return "application/pdf"
	case "html":
		return "text/html; charset=utf-8"
	case "json":
		return "application/json"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "txt":
		return "text/plain; charset=utf-8"
	case "tex":
		return "application/x-tex"
	default:
		return "application/octet-stream"
	}
}
