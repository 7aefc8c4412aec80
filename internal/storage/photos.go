package storage

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"vertrieb-backend/internal/config"
)

// PhotoStorage stores completion photos in an S3-compatible bucket. Without
// credentials it degrades to a no-op that fails every upload, which the
// submission flow turns into photo obligations instead of errors.
type PhotoStorage struct {
	client *s3.Client
	bucket string
}

var ErrNotConfigured = errors.New("photo storage not configured")

func NewPhotoStorage(cfg *config.Config) *PhotoStorage {
	if cfg.Photos.AccessKey == "" || cfg.Photos.SecretKey == "" || cfg.Photos.Bucket == "" {
		log.Printf("[Storage] photo storage not configured, uploads will be deferred")
		return &PhotoStorage{}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Photos.AccessKey,
			cfg.Photos.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Photos.Region),
	)
	if err != nil {
		log.Printf("[Storage] failed to configure photo storage: %v", err)
		return &PhotoStorage{}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Photos.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Photos.Endpoint)
		}
	})
	return &PhotoStorage{client: client, bucket: cfg.Photos.Bucket}
}

// Upload stores one photo under the given object key.
func (p *PhotoStorage) Upload(ctx context.Context, key string, data []byte) error {
	if p.client == nil {
		return ErrNotConfigured
	}
	contentType := http.DetectContentType(data)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// Fetch reads a stored photo back, for the admin review screens.
func (p *PhotoStorage) Fetch(ctx context.Context, key string) ([]byte, error) {
	if p.client == nil {
		return nil, ErrNotConfigured
	}
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
