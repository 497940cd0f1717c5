package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.S3BaseEndpoint = "http://127.0.0.1:9000"
	return cfg
}

func TestNewS3Presigner_NoBucket(t *testing.T) {
	cfg := testConfig()
	cfg.S3Bucket = ""
	_, err := NewS3Presigner(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrNoBucket)
}

func TestNewS3Presigner_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	_, err := NewS3Presigner(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aws config: no creds")
}

func TestPresignGet_SignsLocally(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), testConfig())
	require.NoError(t, err)

	raw, err := p.PresignGet(context.Background(), "avatars/u1.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/avatars/avatars/u1.png"), u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresignGet_Error(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), testConfig())
	require.NoError(t, err)

	orig := presignGetObject
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("clock skew")
	}
	t.Cleanup(func() { presignGetObject = orig })

	_, err = p.PresignGet(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `presign get "k": clock skew`)
}
