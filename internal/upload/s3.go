package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Config describes an S3-compatible bucket (AWS S3, MinIO, RustFS...).
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	// PublicURL is the prefix of returned object URLs. Defaults to
	// Endpoint/Bucket.
	PublicURL string
}

// putObjectAPI is the subset of *s3.Client used by S3Uploader.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader implements Uploader on an S3 bucket.
type S3Uploader struct {
	client    putObjectAPI
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// S3Option is a functional option for configuring S3Uploader
type S3Option func(*S3Uploader)

// WithLogger sets a custom logger for S3Uploader
func WithLogger(l *zap.Logger) S3Option {
	return func(u *S3Uploader) {
		u.logger = l
	}
}

// NewS3Uploader creates an uploader from cfg.
func NewS3Uploader(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("upload bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("upload credentials are required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}

	return newS3Uploader(client, cfg.Bucket, publicURL, opts...), nil
}

func newS3Uploader(client putObjectAPI, bucket, publicURL string, opts ...S3Option) *S3Uploader {
	u := &S3Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *S3Uploader) Upload(ctx context.Context, att models.Attachment) (string, error) {
	if len(att.Data) == 0 {
		return "", ErrEmptyAttachment
	}
	contentType := att.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(att.Data)
	}
	key := objectKey(att)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(att.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	u.logger.Debug("attachment uploaded", zap.String("bucket", u.bucket), zap.String("key", key), zap.Int("bytes", len(att.Data)))
	return u.publicURL + "/" + key, nil
}
