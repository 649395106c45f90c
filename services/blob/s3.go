package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket   string
	Region   string
	// Endpoint points at an S3 compatible service, path style is used then
	Endpoint  string
	UploadTTL time.Duration
	ReadTTL   time.Duration
}

// S3Store keeps images in one bucket and hands out presigned URLs
type S3Store struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	uploadTTL time.Duration
	readTTL   time.Duration
}

// NewS3Store loads credentials the usual AWS way (env, profile, role)
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3StoreFromConfig(awsCfg, cfg), nil
}

func NewS3StoreFromConfig(awsCfg aws.Config, cfg S3Config) *S3Store {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	if cfg.UploadTTL <= 0 {
		cfg.UploadTTL = 15 * time.Minute
	}
	if cfg.ReadTTL <= 0 {
		cfg.ReadTTL = time.Hour
	}
	return &S3Store{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		uploadTTL: cfg.UploadTTL,
		readTTL:   cfg.ReadTTL,
	}
}

func (s *S3Store) UploadURL(ctx context.Context) (string, string, error) {
	ref := newRef()
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(s.uploadTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, ref, nil
}

func (s *S3Store) URL(ctx context.Context, ref string) (string, error) {
	if !ValidRef(ref) {
		return "", ErrInvalidRef
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(s.readTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if !ValidRef(ref) {
		return ErrInvalidRef
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", ref, err)
	}
	return nil
}

var _ Store = (*S3Store)(nil)
