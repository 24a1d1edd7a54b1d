// Package source opens CUR exports from the local filesystem or S3.
package source

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

const s3Scheme = "s3://"

// ErrInvalidLocation is returned for an s3:// location without bucket or key.
var ErrInvalidLocation = errors.New("invalid s3 location")

// ObjectGetter is the subset of the S3 client used to download exports.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener resolves export locations to readers. The S3 client is created on
// first use.
type Opener struct {
	profile string
	region  string

	mu     sync.Mutex
	client ObjectGetter
}

// Option configures an Opener.
type Option func(*Opener)

// WithAWSProfile selects the shared config profile used for S3.
func WithAWSProfile(profile string) Option {
	return func(o *Opener) { o.profile = profile }
}

// WithRegion overrides the AWS region used for S3.
func WithRegion(region string) Option {
	return func(o *Opener) { o.region = region }
}

// WithS3Client uses the given client instead of loading AWS configuration.
func WithS3Client(client ObjectGetter) Option {
	return func(o *Opener) { o.client = client }
}

// NewOpener creates an Opener.
func NewOpener(opts ...Option) *Opener {
	o := &Opener{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IsS3 reports whether location is an s3:// URI.
func IsS3(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}

// Open returns a reader over the decompressed export at location. A .gz
// suffix or a gzip content encoding selects decompression.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !IsS3(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open export %s: %w", location, err)
		}
		return maybeGzip(f, strings.HasSuffix(strings.ToLower(location), ".gz"))
	}

	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}
	client, err := o.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", location, err)
	}
	gz := strings.HasSuffix(strings.ToLower(key), ".gz") ||
		strings.EqualFold(aws.ToString(out.ContentEncoding), "gzip")
	return maybeGzip(out.Body, gz)
}

// ReadRows opens location and parses it as CUR CSV.
func (o *Opener) ReadRows(ctx context.Context, location string) ([]model.BillingRow, error) {
	rc, err := o.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := cur.ReadCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("parse export %s: %w", location, err)
	}
	return rows, nil
}

func (o *Opener) s3Client(ctx context.Context) (ObjectGetter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.client != nil {
		return o.client, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for profile %q: %w", o.profile, err)
	}

	o.client = s3.NewFromConfig(cfg)
	return o.client, nil
}

// gzipReadCloser closes both the decompressor and the underlying body.
type gzipReadCloser struct {
	*gzip.Reader
	body io.Closer
}

func (g *gzipReadCloser) Close() error {
	return errors.Join(g.Reader.Close(), g.body.Close())
}

func maybeGzip(body io.ReadCloser, gz bool) (io.ReadCloser, error) {
	if !gz {
		return body, nil
	}
	zr, err := gzip.NewReader(body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	return &gzipReadCloser{Reader: zr, body: body}, nil
}
