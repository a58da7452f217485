package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"

	"donation-platform.backend/internal/config"
)

type fakeS3 struct {
	headErr error
	putErr  error
	puts    []*s3.PutObjectInput
	bodies  []string
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	b, _ := io.ReadAll(in.Body)
	f.bodies = append(f.bodies, string(b))
	return &s3.PutObjectOutput{}, f.putErr
}

func TestStore(t *testing.T) {
	fake := &fakeS3{}
	a := &S3ReceiptArchive{client: fake, bucket: "receipts-bucket"}

	key, err := a.Store(context.Background(), "DON-1-abc", []byte("<html>ok</html>"))
	require.NoError(t, err)
	require.Equal(t, "receipts/DON-1-abc.html", key)
	require.Len(t, fake.puts, 1)
	require.Equal(t, "receipts-bucket", aws.ToString(fake.puts[0].Bucket))
	require.Equal(t, "text/html; charset=utf-8", aws.ToString(fake.puts[0].ContentType))
	require.Equal(t, "<html>ok</html>", fake.bodies[0])

	fake.putErr = errors.New("denied")
	_, err = a.Store(context.Background(), "DON-2", nil)
	require.ErrorContains(t, err, "failed to archive receipt DON-2")
}

func TestCheckBucket(t *testing.T) {
	a := &S3ReceiptArchive{client: &fakeS3{}, bucket: "b"}
	require.NoError(t, a.checkBucket(context.Background()))

	a.client = &fakeS3{headErr: &smithy.GenericAPIError{Code: "NotFound"}}
	require.EqualError(t, a.checkBucket(context.Background()), "bucket 'b' does not exist")

	a.client = &fakeS3{headErr: errors.New("timeout")}
	require.ErrorContains(t, a.checkBucket(context.Background()), "failed to check if bucket exists")
}

func TestNewS3ReceiptArchive_ConfigError(t *testing.T) {
	orig := loadAWSConfig
	t.Cleanup(func() { loadAWSConfig = orig })
	loadAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := NewS3ReceiptArchive(context.Background(), config.StorageConfig{ReceiptBucket: "b", AWSRegion: "us-east-1"})
	require.ErrorContains(t, err, "failed to load aws config")
}
