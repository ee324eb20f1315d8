// Package s3 keeps avatar images in an S3 compatible object storage.
package s3

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/investperdiem/perdiem/pkg/domain"
)

type Config struct {
	Bucket string
	Region string

	// Endpoint of an S3 compatible storage. Empty for AWS.
	Endpoint string

	// Static credentials. When empty, the default credential chain of AWS is used.
	AccessKeyId     string
	SecretAccessKey string

	SignedURLTTL time.Duration
}

type Bucket interface {
	// Put uploads an object. Content type is guessed from the extension of key when empty.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error

	// SignedURL returns a time-limited URL to get the object.
	SignedURL(ctx context.Context, key string) (string, error)
}

type bucket struct {
	name      string
	client    *s3.Client
	presigner *s3.PresignClient
	ttl       time.Duration
}

func New(ctx context.Context, conf Config) (Bucket, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(conf.Region)}
	if conf.AccessKeyId != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKeyId, conf.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &bucket{
		name:      conf.Bucket,
		client:    client,
		presigner: s3.NewPresignClient(client),
		ttl:       conf.SignedURLTTL,
	}, nil
}

func (b *bucket) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(key))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (b *bucket) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := b.presigner.PresignGetObject(
		ctx,
		&s3.GetObjectInput{Bucket: aws.String(b.name), Key: aws.String(key)},
		func(po *s3.PresignOptions) {
			po.Expires = b.ttl
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", key, err)
	}
	return req.URL, nil
}

// Signer adapts b into an AvatarSigner. Objects which can not be signed get "".
//
// b can be nil, then every object gets "".
func Signer(b Bucket, logger *log.Logger) domain.AvatarSigner {
	if b == nil {
		return func(string) string { return "" }
	}
	return func(key string) string {
		u, err := b.SignedURL(context.Background(), key)
		if err != nil {
			logger.Printf("avatar is not available: %v", err)
			return ""
		}
		return u
	}
}
