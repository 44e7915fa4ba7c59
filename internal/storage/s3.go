package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// ObjectAPI is the subset of the S3 client used by S3Store.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// S3Store uploads resumes to an S3 compatible bucket.
type S3Store struct {
	client ObjectAPI
	bucket string
	prefix string
	now    func() time.Time
	newID  func() string
}

// NewS3Store builds an S3 client from cfg. A custom endpoint and path-style
// addressing allow MinIO and similar services.
func NewS3Store(ctx context.Context, cfg *config.StorageSettings) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3PathStyle
	})

	return NewS3StoreWithClient(client, cfg.S3Bucket, cfg.S3KeyPrefix), nil
}

// NewS3StoreWithClient creates a store around an existing client.
func NewS3StoreWithClient(client ObjectAPI, bucket, prefix string) *S3Store {
	if prefix == "" {
		prefix = constants.DefaultS3KeyPrefix
	}
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// objectKey returns <prefix>/YYYY/MM/DD/<uuid><ext>.
func (s *S3Store) objectKey(ext string) string {
	d := s.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", s.prefix, d.Year(), d.Month(), d.Day(), s.newID(), ext)
}

// Save uploads the resume and returns an s3://bucket/key reference.
func (s *S3Store) Save(ctx context.Context, upload *ResumeUpload) (string, error) {
	key := s.objectKey(upload.Ext())

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          upload.Body,
		ContentLength: aws.Int64(upload.Size),
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}

	ref := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	log.Debug().Str("ref", ref).Int64("size", upload.Size).Msg("Resume stored in bucket")
	return ref, nil
}

// Delete removes the object behind an s3://bucket/key reference produced by Save.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, "s3://"+s.bucket+"/")
	if !ok || key == "" {
		return fmt.Errorf("resume reference %q is not in bucket %s", ref, s.bucket)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}

	log.Debug().Str("ref", ref).Msg("Resume removed from bucket")
	return nil
}
