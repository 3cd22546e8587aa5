// Package storage implements the object-storage port on S3-compatible
// backends.
package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config captures the bucket settings. Endpoint is optional and supports
// S3-compatible stores (MinIO, R2); PublicBaseURL is the prefix served to
// clients.
type Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// S3Store uploads local files and returns their permanent public URL.
type S3Store struct {
	client *s3.Client
	cfg    Config
}

func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, cfg: cfg}, nil
}

// Upload sends the local file to <folder>/<random>.<ext> in the bucket and
// returns its public URL. The local file is removed regardless of outcome;
// it is a request-scoped temp file nobody else owns.
func (s *S3Store) Upload(ctx context.Context, localPath, folder string) (string, error) {
	defer os.Remove(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	key := folder + "/" + uuid.NewString() + ext

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.cfg.PublicBaseURL + "/" + key, nil
}
