package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-motorenting/pkg/config"
)

type fakePut struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePut) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3AvatarStore_Upload(t *testing.T) {
	api := &fakePut{}
	store := newS3AvatarStore(api, "crm-avatars", "https://cdn.crm.co/")

	url, err := store.Upload(context.Background(), "avatars/user_5_x.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.crm.co/avatars/user_5_x.png", url)
	assert.Equal(t, "crm-avatars", aws.ToString(api.in.Bucket))
	assert.Equal(t, "avatars/user_5_x.png", aws.ToString(api.in.Key))
	assert.Equal(t, "image/png", aws.ToString(api.in.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(api.in.ContentLength))
	assert.Equal(t, []byte("png"), api.body)

	api.err = errors.New("AccessDenied")
	_, err = store.Upload(context.Background(), "avatars/a.png", []byte("x"), "image/png")
	assert.ErrorContains(t, err, "AccessDenied")

	_, err = store.Upload(context.Background(), "", nil, "image/png")
	assert.Error(t, err)
}

func TestPublicBaseURL(t *testing.T) {
	cases := []struct {
		name     string
		cfg      config.StorageConfig
		endpoint string
		want     string
	}{
		{"explícita", config.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.crm.co"}, "http://minio:9000", "https://cdn.crm.co"},
		{"path style", config.StorageConfig{Bucket: "b", UsePathStyle: true}, "http://minio:9000", "http://minio:9000/b"},
		{"virtual host", config.StorageConfig{Bucket: "b"}, "https://r2.example.com", "https://b.r2.example.com"},
		{"aws", config.StorageConfig{Bucket: "b"}, "", "https://b.s3.us-east-1.amazonaws.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, publicBaseURL(tc.cfg, "us-east-1", tc.endpoint))
		})
	}
}

func TestNewS3AvatarStore_SinCredenciales(t *testing.T) {
	_, err := NewS3AvatarStore(context.Background(), config.StorageConfig{Bucket: "b"})
	assert.Error(t, err)
}
