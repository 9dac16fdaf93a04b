// Package storage uploads chart images to S3. The client is initialized
// lazily on first use and held for process lifetime.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	appconfig "chartsense-app/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	initOnce sync.Once
	client   *s3.Client
	region   string
	initErr  error
)

func getClient(ctx context.Context) (*s3.Client, error) {
	initOnce.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			initErr = fmt.Errorf("load aws config: %w", err)
			return
		}
		region = cfg.Region
		client = s3.NewFromConfig(cfg)
	})
	return client, initErr
}

// Put uploads body under key and returns the public object URL.
func Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	bucket := appconfig.S3_BUCKET
	if bucket == "" {
		return "", errors.New("storage not configured: S3_BUCKET not set")
	}

	cl, err := getClient(ctx)
	if err != nil {
		return "", err
	}

	_, err = cl.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key), nil
}
