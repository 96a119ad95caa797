package images

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Bucket:        "estatehub-images",
		Region:        "us-east-1",
		Endpoint:      "http://127.0.0.1:9000",
		AccessKey:     "minioadmin",
		SecretKey:     "minioadmin",
		PublicBaseURL: "https://cdn.example.com/",
		TTL:           10 * time.Minute,
	}
}

func stubSeams(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPut, origNow := loadDefaultAWSConfig, newS3ClientFromConfig, presignPutObject, nowFunc
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, presignPutObject, nowFunc = origLoad, origNew, origPut, origNow
	})
	nowFunc = func() time.Time { return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC) }
}

func TestNewPresigner_AppliesOptions(t *testing.T) {
	stubSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		require.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	_, err := NewPresigner(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	require.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	require.True(t, opts.UsePathStyle)
}

func TestNewPresigner_ConfigError(t *testing.T) {
	stubSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewPresigner(context.Background(), testConfig())
	require.Error(t, err)
	require.Contains(t, err.Error(), "load aws config")
}

func TestPresignUpload(t *testing.T) {
	stubSeams(t)

	var gotInput *s3.PutObjectInput
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotInput = in
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/signed", Method: http.MethodPut}, nil
	}

	p, err := NewPresigner(context.Background(), testConfig())
	require.NoError(t, err)

	up, err := p.PresignUpload(context.Background(), "u1", "image/png")
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9000/signed", up.UploadURL)
	require.Equal(t, http.MethodPut, up.Method)
	require.True(t, strings.HasPrefix(up.Key, "properties/u1/2025/03/"))
	require.True(t, strings.HasSuffix(up.Key, ".png"))
	require.Equal(t, "https://cdn.example.com/"+up.Key, up.PublicURL)
	require.Equal(t, time.Date(2025, 3, 9, 12, 10, 0, 0, time.UTC), up.ExpiresAt)

	require.Equal(t, "estatehub-images", aws.ToString(gotInput.Bucket))
	require.Equal(t, up.Key, aws.ToString(gotInput.Key))
	require.Equal(t, "image/png", aws.ToString(gotInput.ContentType))
}

func TestPresignUpload_RejectsContentType(t *testing.T) {
	stubSeams(t)

	p, err := NewPresigner(context.Background(), testConfig())
	require.NoError(t, err)

	_, err = p.PresignUpload(context.Background(), "u1", "application/pdf")
	require.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestPresignUpload_Error(t *testing.T) {
	stubSeams(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("signer down")
	}

	p, err := NewPresigner(context.Background(), testConfig())
	require.NoError(t, err)

	_, err = p.PresignUpload(context.Background(), "u1", "image/jpeg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "signer down")
}
