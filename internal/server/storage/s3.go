// Package storage hands out short-lived links to objects kept in an
// S3-compatible store (MinIO in development).
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
)

// DefaultLinkTTL is how long a presigned link stays usable.
const DefaultLinkTTL = 15 * time.Minute

var ErrNoBucket = errors.New("no bucket configured")

// replaced in tests
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	presignGetObject     = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Presigner signs GET requests for objects of a single bucket.
type S3Presigner struct {
	bucket string
	ttl    time.Duration
	client *s3.PresignClient
}

// NewS3Presigner builds a presigner from the server's S3 settings. Signing
// is local, so no request reaches the store here.
func NewS3Presigner(ctx context.Context, cfg *config.Config) (*S3Presigner, error) {
	if cfg.S3Bucket == "" {
		return nil, ErrNoBucket
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		// MinIO serves buckets under the path, not as subdomains.
		o.UsePathStyle = true
	})

	return &S3Presigner{
		bucket: cfg.S3Bucket,
		ttl:    DefaultLinkTTL,
		client: s3.NewPresignClient(client),
	}, nil
}

// PresignGet returns a download URL for key.
func (p *S3Presigner) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := presignGetObject(p.client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %q: %w", key, err)
	}
	return req.URL, nil
}
