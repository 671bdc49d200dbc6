package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"draperads/internal/config"
	"draperads/internal/utils/logger"
)

// S3Service stores uploads in an S3 or S3-compatible bucket.
type S3Service struct {
	client     *s3.Client
	bucketName string
	endpoint   string
	region     string
	prefix     string
	logger     *logger.Logger
}

func NewS3Service(ctx context.Context, cfg config.S3Config) (*S3Service, error) {
	log := logger.New("s3_service")

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, log.Error("S3 credentials are empty ❌", fmt.Errorf("accessKey or secretKey is empty"))
	}
	if cfg.BucketName == "" {
		return nil, log.Error("S3 bucket is not configured ❌", fmt.Errorf("bucket name is empty"))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, log.Error("Unable to load SDK config ❌", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.BucketName)}); err != nil {
		return nil, log.Error("Failed to verify S3 bucket ❌", err)
	}

	log.Success("S3 storage ready on bucket %s", cfg.BucketName)

	return &S3Service{
		client:     client,
		bucketName: cfg.BucketName,
		endpoint:   endpoint,
		region:     cfg.Region,
		prefix:     "uploads/",
		logger:     log,
	}, nil
}

// Save uploads data as a publicly readable object and returns its URL and key.
func (s *S3Service) Save(ctx context.Context, data []byte, filename, contentType string) (string, string, error) {
	key := s.prefix + uuid.New().String() + ExtensionFor(contentType)

	s.logger.Info("📤 Uploading %s as %s", filename, key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", s.logger.Error("Failed to upload file to storage ❌", err)
	}

	return s.objectURL(key), key, nil
}

func (s *S3Service) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)
}
