package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	DefaultRegion = "us-east-1"
	contentType   = "application/xml"
)

// PutObjectAPI is the part of the S3 client the sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Sink(client PutObjectAPI, bucket, prefix string) Sink {
	return &s3Sink{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// S3Options select the shared AWS profile and region used for uploads.
type S3Options struct {
	Profile string
	Region  string
}

func LoadAWSConfig(ctx context.Context, opts S3Options) (*awssdk.Config, error) {
	region := opts.Region
	if region == "" {
		region = DefaultRegion
	}

	loaders := []func(*config.LoadOptions) error{config.WithDefaultRegion(region)}
	if opts.Profile != "" {
		loaders = append(loaders, config.WithSharedConfigProfile(opts.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &awsCfg, nil
}

// S3Factory builds sinks for "bucket/prefix" targets.
func S3Factory(opts S3Options) SinkFactory {
	return func(ctx context.Context, target string) (Sink, error) {
		bucket, prefix, _ := strings.Cut(target, "/")
		if bucket == "" {
			return nil, fmt.Errorf("s3 destination needs a bucket: s3://bucket/prefix")
		}

		awsCfg, err := LoadAWSConfig(ctx, opts)
		if err != nil {
			return nil, err
		}
		return NewS3Sink(s3.NewFromConfig(*awsCfg), bucket, prefix), nil
	}
}

func (s *s3Sink) Name() string {
	return SchemeS3
}

func (s *s3Sink) Write(ctx context.Context, fileName string, data []byte) (string, error) {
	key := fileName
	if s.prefix != "" {
		key = path.Join(s.prefix, fileName)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(s.bucket),
		Key:           awssdk.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: awssdk.Int64(int64(len(data))),
		ContentType:   awssdk.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload checklist to s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
