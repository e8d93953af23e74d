package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ohsu-comp-bio/nextflow/iox"
)

// s3Scheme prefixes object-store config refs.
const s3Scheme = "s3://"

// Fetcher retrieves remote config refs: plain paths read the local
// filesystem, s3://bucket/key refs read from the object store using the AWS
// default credential chain.
type Fetcher struct {
	// getObject is swapped out in tests.
	getObject func(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// NewFetcher creates a fetcher with the real S3 backend.
func NewFetcher() *Fetcher {
	return &Fetcher{getObject: s3GetObject}
}

// Fetch retrieves the raw bytes of one config ref.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, s3Scheme) {
		bucket, key, err := ParseS3Ref(ref)
		if err != nil {
			return nil, err
		}
		body, err := f.getObject(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", ref, err)
		}
		defer iox.DiscardClose(body)
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", ref, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("reading config ref %s: %w", ref, err)
	}
	return data, nil
}

// ParseS3Ref splits "s3://bucket/key" into bucket and key.
func ParseS3Ref(ref string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(ref, s3Scheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 ref %q (want s3://bucket/key)", ref)
	}
	return parts[0], parts[1], nil
}

// s3GetObject reads one object using the AWS default credential chain.
func s3GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// Resolve builds the effective configuration: the local config file (when
// present), each remote ref merged over it in order, then the selected
// profile overlay.
func (f *Fetcher) Resolve(ctx context.Context, localPath string, remoteRefs []string, profile string) (*Config, error) {
	cfg := &Config{}

	if localPath != "" {
		local, err := Load(localPath)
		if err != nil {
			return nil, err
		}
		cfg = local
	}

	for _, ref := range remoteRefs {
		data, err := f.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		overlay, err := Parse(data, ref)
		if err != nil {
			return nil, err
		}
		cfg.Merge(overlay)
	}

	if err := cfg.ApplyProfile(profile); err != nil {
		return nil, err
	}
	return cfg, nil
}
