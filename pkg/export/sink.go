package export

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/storefront/internal/errors"
)

// DirSink writes documents below a local directory.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink writing below dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Put implements Sink.
func (s *DirSink) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if s.dir == "" {
		return errors.New("E302").WithDetail("no output directory")
	}
	local := filepath.FromSlash(key)
	if !filepath.IsLocal(local) {
		return errors.New("E301").WithDetailf("key %q escapes %s", key, s.dir)
	}
	target := filepath.Join(s.dir, local)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return os.WriteFile(target, body, 0644)
}

// S3API is the subset of *s3.Client the S3 sink uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads documents to an S3 bucket.
type S3Sink struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Sink creates a sink uploading below prefix in bucket.
func NewS3Sink(client S3API, bucket, prefix string) (*S3Sink, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("E302").WithDetail("S3 export needs a client and a bucket")
	}
	return &S3Sink{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// Key returns the object key for a document key.
func (s *S3Sink) Key(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Put implements Sink.
func (s *S3Sink) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(key)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"generator": "storefront",
		},
	})
	return err
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for MinIO or LocalStack.
	// Path-style addressing is used when set.
	Endpoint string

	// Credentials defaults to the AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
	// and AWS_SESSION_TOKEN environment variables.
	Credentials aws.CredentialsProvider
}

// NewS3Client creates an S3 client.
func NewS3Client(opts S3Options) *s3.Client {
	creds := opts.Credentials
	if creds == nil {
		creds = EnvCredentials()
	}
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	o := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(creds),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	}
	return s3.New(o)
}

// EnvCredentials reads static credentials from the environment.
func EnvCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		creds := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "EnvCredentials",
		}
		if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
			return aws.Credentials{}, errors.New("E302").
				WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set")
		}
		return creds, nil
	})
}
