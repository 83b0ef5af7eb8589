package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/imamik/podlet/internal/config"
	"github.com/imamik/podlet/internal/util/retry"
)

// Client uploads and downloads state archives against an S3-compatible
// endpoint.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewClient builds a client from the tool's backup configuration.
func NewClient(ctx context.Context, cfg config.BackupConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("backup bucket is not configured; set backup.bucket in podlet.yaml")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{s3: client, bucket: cfg.Bucket}, nil
}

// Upload packs the state directory and uploads it under key. Transient
// upload failures are retried with backoff.
func (c *Client) Upload(ctx context.Context, stateDir, key string) error {
	tmp, err := os.CreateTemp("", "podlet-backup-*.tar.gz")
	if err != nil {
		return fmt.Errorf("failed to create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := Pack(stateDir, tmpPath); err != nil {
		return err
	}
	data, err := os.ReadFile(tmpPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	err = retry.WithBackoff(ctx, func() error {
		_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(c.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		if err != nil && !retryable(err) {
			return retry.Fatal(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, c.bucket, err)
	}
	return nil
}

// Download fetches an archive by key and restores it into stateDir.
func (c *Client) Download(ctx context.Context, key, stateDir string) error {
	var data []byte
	err := retry.WithBackoff(ctx, func() error {
		result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			if !retryable(err) {
				return retry.Fatal(err)
			}
			return err
		}
		defer result.Body.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(result.Body); err != nil {
			return fmt.Errorf("failed to read object body: %w", err)
		}
		data = buf.Bytes()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to download %s from bucket %s: %w", key, c.bucket, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(stateDir), ".podlet-restore-*.tar.gz")
	if err != nil {
		return fmt.Errorf("failed to create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}

	return Unpack(tmpPath, stateDir)
}

// List returns the backup archive keys present in the bucket.
func (c *Client) List(ctx context.Context) ([]string, error) {
	result, err := c.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String("podlet-state-"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list backups in bucket %s: %w", c.bucket, err)
	}

	var keys []string
	for _, obj := range result.Contents {
		if obj.Key != nil {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}

// retryable reports whether an S3 error is worth retrying. Client-side
// errors (bad credentials, missing bucket or key) are not.
func retryable(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NoSuchKey", "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return false
		}
	}
	return true
}
