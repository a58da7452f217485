package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"donation-platform.backend/internal/config"
)

type s3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var loadAWSConfig = awsconfig.LoadDefaultConfig

// S3ReceiptArchive keeps a copy of every rendered receipt under receipts/<number>.html
type S3ReceiptArchive struct {
	client s3API
	bucket string
}

// NewS3ReceiptArchive builds the archive client and checks that the bucket exists.
func NewS3ReceiptArchive(ctx context.Context, cfg config.StorageConfig) (*S3ReceiptArchive, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := loadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	archive := &S3ReceiptArchive{client: client, bucket: cfg.ReceiptBucket}
	if err := archive.checkBucket(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}

func (a *S3ReceiptArchive) checkBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return fmt.Errorf("bucket '%s' does not exist", a.bucket)
	}
	return fmt.Errorf("failed to check if bucket exists, %w", err)
}

// Key returns the object key a receipt is stored under
func Key(receiptNumber string) string {
	return "receipts/" + receiptNumber + ".html"
}

// Store uploads the rendered receipt and returns its object key.
func (a *S3ReceiptArchive) Store(ctx context.Context, receiptNumber string, body []byte) (string, error) {
	key := Key(receiptNumber)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive receipt %s: %w", receiptNumber, err)
	}
	return key, nil
}
