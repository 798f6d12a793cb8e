// Package storage uploads member avatars to S3-compatible storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/daosail/daosail-server/internal/config"
	"github.com/daosail/daosail-server/internal/domain/profile"
)

var errStorageDisabled = errors.New("avatar storage backend is not configured; set S3_* to enable uploads")

// S3AvatarStorage stores avatar blobs under a per-user key and serves
// them from the public base URL.
type S3AvatarStorage struct {
	bucket     string
	publicBase string
	client     *s3.Client
	log        zerolog.Logger
	disabled   bool
}

var _ profile.AvatarStorage = (*S3AvatarStorage)(nil)

func NewS3AvatarStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3AvatarStorage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()
	storage := &S3AvatarStorage{
		bucket:     strings.TrimSpace(cfg.S3Bucket),
		publicBase: strings.TrimRight(strings.TrimSpace(cfg.S3PublicBase), "/"),
		log:        logger,
	}

	accessKey := strings.TrimSpace(cfg.S3AccessKey)
	secretKey := strings.TrimSpace(cfg.S3SecretKey)
	if storage.bucket == "" || accessKey == "" || secretKey == "" {
		logger.Warn().Msg("S3_BUCKET or credentials are not set; avatar uploads will be disabled until configured")
		storage.disabled = true
		return storage, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	storage.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3Endpoint != ""
	})
	return storage, nil
}

func (s *S3AvatarStorage) StoreAvatar(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	if s.disabled {
		return "", errStorageDisabled
	}

	key := fmt.Sprintf("avatars/%s%s", userID, extensionFor(contentType))
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", err
	}

	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("avatar uploaded")
	if s.publicBase != "" {
		return s.publicBase + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// Health performs a simple HeadBucket request.
func (s *S3AvatarStorage) Health(ctx context.Context) error {
	if s.disabled {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ""
}
