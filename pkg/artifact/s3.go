// Package artifact uploads finished run artifacts (report document and
// raw log) to S3-compatible storage for CI retention. Upload is a
// post-run convenience; failures never change the run verdict.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Config configures the artifact store.
type Config struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`

	// Endpoint enables S3-compatible stores (MinIO etc.); path-style
	// addressing is forced when set.
	Endpoint string `mapstructure:"endpoint"`
	Profile  string `mapstructure:"profile"`

	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// Validate checks the minimum viable configuration.
func (c Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("artifact: bucket is required")
	}
	return nil
}

// Uploader puts run artifacts into a bucket.
type Uploader struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an uploader using the AWS SDK default credential chain
// unless explicit credentials are configured.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("artifact: load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// UploadRun stores the report document and raw log under
// <prefix>/<jobName>/. Missing local files are skipped silently so a
// degraded run (no log sink) still uploads what exists.
func (u *Uploader) UploadRun(ctx context.Context, jobName, reportPath, logPath string) error {
	uploads := map[string]string{
		"report.json": reportPath,
		"runner.log":  logPath,
	}

	for name, local := range uploads {
		if local == "" {
			continue
		}
		if err := u.putFile(ctx, Key(u.prefix, jobName, name), local); err != nil {
			return err
		}
	}
	return nil
}

// Key builds the object key for one artifact of a job.
func Key(prefix, jobName, name string) string {
	return path.Join(prefix, jobName, name)
}

func (u *Uploader) putFile(ctx context.Context, key, local string) error {
	f, err := os.Open(local)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("artifact: open %s: %w", local, err)
	}
	defer func() { _ = f.Close() }()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("artifact: put s3://%s/%s: %s: %s",
				u.bucket, key, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return fmt.Errorf("artifact: put s3://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}
