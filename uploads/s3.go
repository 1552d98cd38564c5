package uploads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures an S3 or S3-compatible bucket.
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string // empty for AWS
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string // CDN origin; derived from bucket and region when empty
}

// S3Backend lets browsers PUT straight into the bucket with a presigned URL.
type S3Backend struct {
	presign   *s3.PresignClient
	bucket    string
	publicURL string
}

func NewS3Backend(ctx context.Context, opts S3Options) (*S3Backend, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	public := opts.PublicURL
	if public == "" {
		switch {
		case opts.Endpoint != "":
			public = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		default:
			public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, awsCfg.Region)
		}
	}

	return &S3Backend{
		presign:   s3.NewPresignClient(client),
		bucket:    opts.Bucket,
		publicURL: strings.TrimRight(public, "/"),
	}, nil
}

func (b *S3Backend) Prepare(ctx context.Context, pathname, contentType string, ttl time.Duration) (string, string, string, error) {
	req, err := b.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(pathname),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", "", "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, req.Method, b.publicURL + "/" + pathname, nil
}
