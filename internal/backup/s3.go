package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/julianstephens/bamboocare/internal/constants"
)

const defaultKeyPrefix = "backups/"

// S3Config describes the bucket that off-site backups are mirrored to.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. MinIO
	Prefix          string
	AccessKeyID     string // optional, falls back to the default credentials chain
	SecretAccessKey string
	PathStyle       bool
}

// S3ConfigFromEnv reads BAMBOOCARE_BACKUP_S3_* variables. ok is false when no
// bucket is configured.
func S3ConfigFromEnv() (S3Config, bool) {
	bucket := os.Getenv(constants.EnvS3Bucket)
	if bucket == "" {
		return S3Config{}, false
	}
	endpoint := os.Getenv(constants.EnvS3Endpoint)
	return S3Config{
		Bucket:    bucket,
		Region:    os.Getenv(constants.EnvS3Region),
		Endpoint:  endpoint,
		PathStyle: endpoint != "",
	}, true
}

// RemoteObject is a backup stored in the bucket.
type RemoteObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

type S3Remote struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Remote builds a client for cfg. Extra options are applied to the S3 client.
func NewS3Remote(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Remote, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)...)

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Remote{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (r *S3Remote) key(name string) string {
	return r.prefix + filepath.Base(name)
}

// Upload copies a local backup file into the bucket and returns its key.
func (r *S3Remote) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := r.key(path)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &r.bucket,
		Key:         &key,
		Body:        f,
		ContentType: aws.String("application/vnd.sqlite3"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// List returns the bucket's backups, newest first.
func (r *S3Remote) List(ctx context.Context) ([]RemoteObject, error) {
	var objects []RemoteObject
	var token *string
	for {
		out, err := r.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &r.bucket,
			Prefix:            &r.prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", err)
		}
		for _, obj := range out.Contents {
			objects = append(objects, RemoteObject{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}

	slices.SortFunc(objects, func(a, b RemoteObject) int { return strings.Compare(b.Key, a.Key) })
	return objects, nil
}

// Download fetches a backup by key or file name into dir and returns the local path.
func (r *S3Remote) Download(ctx context.Context, name, dir string) (string, error) {
	key := name
	if !strings.HasPrefix(key, r.prefix) {
		key = r.key(name)
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &r.bucket, Key: &key})
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, filepath.Base(key))
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		return "", err
	}
	return dest, f.Sync()
}
