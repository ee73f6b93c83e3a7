package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

// Bucket holds uploaded blobs addressed by an opaque storage reference.
type Bucket interface {
	Put(ctx context.Context, ref string, r io.Reader, size int64, contentType string) error
	URL(ctx context.Context, ref string) (string, error)
	Remove(ctx context.Context, ref string) error
}

// B is nil when no storage is configured, image references then resolve to nothing.
var B Bucket

func NewBucket() error {
	switch driver := viper.GetString("storage.driver"); driver {
	case "", "s3":
		bucket, err := NewMinioBucket(MinioConfig{
			Endpoint:  viper.GetString("storage.endpoint"),
			AccessKey: viper.GetString("storage.access_key"),
			SecretKey: viper.GetString("storage.secret_key"),
			Bucket:    viper.GetString("storage.bucket"),
			Region:    viper.GetString("storage.region"),
			Secure:    viper.GetBool("storage.secure"),
			URLTTL:    viper.GetDuration("storage.url_ttl"),
		})
		if err != nil {
			return err
		}
		if err := bucket.EnsureBucket(context.Background()); err != nil {
			return err
		}
		B = bucket
	case "memory":
		B = NewMemoryBucket(viper.GetString("storage.public_url"))
	default:
		return fmt.Errorf("unsupported storage driver: %s", driver)
	}
	return nil
}
