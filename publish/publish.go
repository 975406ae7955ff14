// CLAUDE:SUMMARY Uploads a committed report archive to S3-compatible object storage (MinIO, S3) with minio-go.
// Package publish copies report archives to object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config locates the bucket. An empty Endpoint disables publication.
type Config struct {
	Endpoint  string `yaml:"endpoint"` // host[:port], no scheme
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"` // empty: AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether an endpoint is configured.
func (c Config) Enabled() bool { return c.Endpoint != "" }

// Validate checks an enabled configuration.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("publish: endpoint %q must not include a scheme", c.Endpoint)
	}
	if c.Bucket == "" {
		return errors.New("publish: bucket is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.New("publish: access_key and secret_key go together")
	}
	return nil
}

// Key returns the object name of the file at local.
func (c Config) Key(local string) string {
	return path.Join(c.Prefix, filepath.Base(local))
}

// Uploader puts files into one bucket.
type Uploader struct {
	cfg    Config
	client *minio.Client
	logger *slog.Logger
}

// New creates an Uploader. No request is made until Upload.
func New(cfg Config, logger *slog.Logger) (*Uploader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled() {
		return nil, errors.New("publish: no endpoint configured")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	creds := credentials.NewEnvAWS()
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("publish: client: %w", err)
	}
	return &Uploader{cfg: cfg, client: client, logger: logger}, nil
}

// Upload puts the file at local under Prefix and returns its object key.
func (u *Uploader) Upload(ctx context.Context, local string) (string, error) {
	key := u.cfg.Key(local)

	exists, err := u.client.BucketExists(ctx, u.cfg.Bucket)
	if err != nil {
		return "", fmt.Errorf("publish: bucket %s: %w", u.cfg.Bucket, err)
	}
	if !exists {
		return "", fmt.Errorf("publish: bucket %s does not exist", u.cfg.Bucket)
	}

	info, err := u.client.FPutObject(ctx, u.cfg.Bucket, key, local, minio.PutObjectOptions{
		ContentType: contentType(local),
	})
	if err != nil {
		return "", fmt.Errorf("publish: put %s: %w", key, err)
	}
	u.logger.Info("publish: uploaded", "bucket", info.Bucket, "key", info.Key, "size", info.Size, "etag", info.ETag)
	return info.Key, nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip":
		return "application/zip"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
