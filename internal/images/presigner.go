package images

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrUnsupportedContentType = errors.New("unsupported content type")

// Допустимые типы изображений и их расширения
var contentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	nowFunc = time.Now
)

type Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	TTL           time.Duration
}

// Upload - данные для загрузки изображения объявления напрямую в S3
type Upload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	Method    string    `json:"method"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Presigner struct {
	cfg    Config
	client *s3.PresignClient
}

func NewPresigner(ctx context.Context, cfg Config) (*Presigner, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	return &Presigner{cfg: cfg, client: s3.NewPresignClient(client)}, nil
}

// PresignUpload выдает подписанный PUT URL для изображения пользователя
func (p *Presigner) PresignUpload(ctx context.Context, userID, contentType string) (*Upload, error) {
	ext, ok := contentTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedContentType
	}

	key := objectKey(userID, ext)
	req, err := presignPutObject(p.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.cfg.TTL))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &Upload{
		Key:       key,
		UploadURL: req.URL,
		Method:    req.Method,
		PublicURL: p.publicURL(key),
		ExpiresAt: nowFunc().Add(p.cfg.TTL),
	}, nil
}

func (p *Presigner) publicURL(key string) string {
	if p.cfg.PublicBaseURL != "" {
		return strings.TrimRight(p.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}

func objectKey(userID, ext string) string {
	d := nowFunc().UTC()
	return path.Join("properties", userID, fmt.Sprintf("%d/%02d", d.Year(), d.Month()), uuid.New().String()+ext)
}
