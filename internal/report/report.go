// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report publishes sync run summaries to an append-only log object
// in an S3-compatible store (DigitalOcean Spaces, MinIO, AWS S3).
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/optisigns/optibot/pkg/types"
)

// DefaultKey is the log object key used when the config leaves report.key empty.
const DefaultKey = "logs/vector_upload.log"

// separator delimits appended run blocks in the log object.
const separator = "\n\n---\n\n"

// ObjectAPI is the slice of the S3 client the reporter needs. Tests stub it.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Reporter appends formatted run summaries to a single log object.
type Reporter struct {
	client ObjectAPI
	bucket string
	key    string
	public string
}

// New builds a Reporter against the configured object store. The endpoint
// override selects S3-compatible providers; path style is forced there
// because virtual-host addressing is not a given outside AWS.
func New(ctx context.Context, cfg types.ReportConfig) (*Reporter, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithClient(client, cfg), nil
}

// NewWithClient wires a Reporter over an existing object store client.
func NewWithClient(client ObjectAPI, cfg types.ReportConfig) *Reporter {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	return &Reporter{
		client: client,
		bucket: cfg.Bucket,
		key:    key,
		public: publicURL(cfg, key),
	}
}

// Format renders a summary as the log block: timestamp, counters, and the
// per-document detail lines when any document was mutated.
func Format(s types.SyncSummary) string {
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Timestamp: %s\n", ts.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "Added: %d\nUpdated: %d\nSkipped: %d", s.Added, s.Updated, s.Skipped)

	if len(s.Details) > 0 {
		b.WriteString("\n\nDetails:\n")
		b.WriteString(strings.Join(s.Details, "\n"))
	}
	return b.String()
}

// Publish appends the formatted summary to the log object, creating it when
// absent, and returns the public URL of the log. Reporting failures do not
// undo the sync: the caller logs them and moves on.
func (r *Reporter) Publish(ctx context.Context, summary types.SyncSummary) (string, error) {
	existing, err := r.fetchExisting(ctx)
	if err != nil {
		return "", fmt.Errorf("reading log object %s/%s: %w", r.bucket, r.key, err)
	}

	updated := existing + separator + Format(summary)

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader([]byte(updated)),
		ACL:         s3types.ObjectCannedACLPublicRead,
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return "", fmt.Errorf("writing log object %s/%s: %w", r.bucket, r.key, err)
	}
	return r.public, nil
}

// fetchExisting returns the current log contents, or "" when the object does
// not exist yet.
func (r *Reporter) fetchExisting(ctx context.Context) (string, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return "", nil
		}
		return "", err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// publicURL derives the browsable URL of the log object.
func publicURL(cfg types.ReportConfig, key string) string {
	if cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
			return fmt.Sprintf("https://%s.%s/%s", cfg.Bucket, u.Host, key)
		}
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
}
