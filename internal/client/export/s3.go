package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	// Prefix is prepended to every object key.
	Prefix string
}

// S3Sink uploads payloads to a bucket under date-partitioned keys.
type S3Sink struct {
	client objectPutter
	bucket string
	prefix string
	now    func() time.Time
}

func NewS3Sink(ctx context.Context, o S3Options) (*S3Sink, error) {
	if o.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})

	return newS3Sink(client, o.Bucket, o.Prefix), nil
}

func newS3Sink(client objectPutter, bucket, prefix string) *S3Sink {
	if prefix == "" {
		prefix = "hmpi"
	}
	return &S3Sink{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

func (s *S3Sink) key(name string) string {
	d := s.now().UTC()
	return path.Join(s.prefix, fmt.Sprintf("%d/%02d/%02d", d.Year(), d.Month(), d.Day()),
		uuid.NewString(), filepath.Base(name))
}

// Put needs a seekable r (bytes.Reader, *os.File) when the endpoint is
// plain HTTP, as the payload has to be hashed before sending.
func (s *S3Sink) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	key := s.key(name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
