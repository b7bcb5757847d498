// Package storage guarda archivos de usuario (avatares) en un bucket compatible con S3.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/crm-motorenting/internal/application/usecase"
	"github.com/jhoicas/crm-motorenting/pkg/config"
)

var _ usecase.AvatarStore = (*S3AvatarStore)(nil)

// putObjectAPI la parte del cliente S3 que se usa (reemplazable en tests).
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3AvatarStore sube avatares con PutObject y devuelve su URL pública.
type S3AvatarStore struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

// NewS3AvatarStore construye el cliente S3 (AWS, MinIO, R2...) desde la configuración.
func NewS3AvatarStore(ctx context.Context, cfg config.StorageConfig) (*S3AvatarStore, error) {
	if !cfg.Enabled() {
		return nil, errors.New("storage: bucket y credenciales son obligatorios")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: configuración AWS: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("storage: endpoint inválido: %w", err)
		}
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return newS3AvatarStore(client, cfg.Bucket, publicBaseURL(cfg, region, endpoint)), nil
}

func newS3AvatarStore(client putObjectAPI, bucket, baseURL string) *S3AvatarStore {
	return &S3AvatarStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// publicBaseURL S3_PUBLIC_BASE_URL si existe; si no, la URL del bucket según el estilo de direccionamiento.
func publicBaseURL(cfg config.StorageConfig, region, endpoint string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case endpoint != "" && cfg.UsePathStyle:
		return endpoint + "/" + cfg.Bucket
	case endpoint != "":
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" {
			return endpoint + "/" + cfg.Bucket
		}
		return fmt.Sprintf("%s://%s.%s", u.Scheme, cfg.Bucket, u.Host)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
}

// Upload sube el objeto con lectura pública y devuelve baseURL/key.
func (s *S3AvatarStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage: key vacío")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}
