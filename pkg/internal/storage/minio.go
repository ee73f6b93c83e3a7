package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
	URLTTL    time.Duration
}

type MinioBucket struct {
	client *minio.Client
	bucket string
	region string
	urlTTL time.Duration
}

func NewMinioBucket(cfg MinioConfig) (*MinioBucket, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &MinioBucket{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		urlTTL: ttl,
	}, nil
}

func (v *MinioBucket) EnsureBucket(ctx context.Context) error {
	exists, err := v.client.BucketExists(ctx, v.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", v.bucket, err)
	} else if exists {
		return nil
	}
	if err := v.client.MakeBucket(ctx, v.bucket, minio.MakeBucketOptions{Region: v.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", v.bucket, err)
	}
	return nil
}

func (v *MinioBucket) Put(ctx context.Context, ref string, r io.Reader, size int64, contentType string) error {
	_, err := v.client.PutObject(ctx, v.bucket, ref, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", ref, err)
	}
	return nil
}

// URL presigns a GET for the reference. It does not check that the object exists.
func (v *MinioBucket) URL(ctx context.Context, ref string) (string, error) {
	link, err := v.client.PresignedGetObject(ctx, v.bucket, ref, v.urlTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %s: %w", ref, err)
	}
	return link.String(), nil
}

func (v *MinioBucket) Remove(ctx context.Context, ref string) error {
	if err := v.client.RemoveObject(ctx, v.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", ref, err)
	}
	return nil
}
