package storage

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

var ErrInvalidObject = errors.New("invalid storage object")

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL prefixes returned object URLs. Empty falls back to Endpoint/Bucket.
	PublicBaseURL string
	UsePathStyle  bool
	Logger        *logging.Logger
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes profile images to an S3-compatible bucket (AWS, R2, MinIO).
type S3Store struct {
	client  objectPutter
	bucket  string
	baseURL string
	logger  *logging.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if baseURL == "" && endpoint != "" {
		baseURL = endpoint + "/" + cfg.Bucket
	}
	if baseURL == "" {
		baseURL = "https://" + cfg.Bucket + ".s3." + region + ".amazonaws.com"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: baseURL, logger: logger}, nil
}

// Put implements usecase.ImageStore.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" || body == nil {
		return "", errors.Wrap(ErrInvalidObject, "key and body are required")
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.WarnContext(ctx, "s3 put object failed", "bucket", s.bucket, "key", key, "error", err)
		return "", errors.Wrapf(err, "put object %s", key)
	}

	return s.baseURL + "/" + key, nil
}
