package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

type S3Options struct {
	Bucket       string `json:"bucket" yaml:"bucket"`
	Region       string `json:"region" yaml:"region"`
	BaseEndpoint string `json:"base_endpoint" yaml:"base_endpoint"`
	AccessKey    string `json:"access_key" yaml:"access_key"`
	SecretKey    string `json:"secret_key" yaml:"secret_key"`
	Prefix       string `json:"prefix" yaml:"prefix"`
}

// s3API is the part of *s3.Client the store needs.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store writes each document as JSON to <prefix>/<collection>/<id>.json.
// Query lists the collection and filters client-side.
type S3Store struct {
	api    s3API
	bucket string
	prefix string
	log    logging.Logger
}

func NewS3Store(ctx context.Context, opts S3Options, log logging.Logger) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	s := newS3Store(client, opts.Bucket, opts.Prefix)
	if log != nil {
		s.log = log
	}
	return s, nil
}

func newS3Store(api s3API, bucket, prefix string) *S3Store {
	return &S3Store{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/"), log: logging.Discard()}
}

func (s *S3Store) key(collection, id string) string {
	return path.Join(s.prefix, collection, id+".json")
}

func (s *S3Store) Set(ctx context.Context, collection, id string, fields models.Fields) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(collection, id)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, collection, id string) (models.Fields, error) {
	return s.read(ctx, s.key(collection, id))
}

func (s *S3Store) read(ctx context.Context, key string) (models.Fields, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var f models.Fields
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrMalformedDocument, key, err)
	}
	return f, nil
}

func (s *S3Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(collection, id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *S3Store) Query(ctx context.Context, collection, field string, value any) ([]models.Fields, error) {
	prefix := path.Join(s.prefix, collection) + "/"
	out := []models.Fields{}

	var token *string
	for {
		page, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", collection, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			doc, err := s.read(ctx, key)
			if errors.Is(err, models.ErrMalformedDocument) {
				s.log.Warn(ctx, "skipping unreadable document", "key", key, "error", err)
				continue
			}
			if err != nil {
				return nil, err
			}
			if doc != nil && fieldMatches(doc[field], value) {
				out = append(out, doc)
			}
		}

		if !aws.ToBool(page.IsTruncated) {
			return out, nil
		}
		token = page.NextContinuationToken
	}
}

// fieldMatches compares a decoded JSON value with a query value. Numbers
// arrive as json.Number and match any numeric value with the same text;
// objects and arrays never match.
func fieldMatches(got, want any) bool {
	switch g := got.(type) {
	case string:
		w, ok := want.(string)
		return ok && g == w
	case bool:
		w, ok := want.(bool)
		return ok && g == w
	case json.Number:
		switch want.(type) {
		case int, int32, int64, uint, uint32, uint64, float64, json.Number:
			return g.String() == fmt.Sprint(want)
		}
	}
	return false
}

func (s *S3Store) Ping(ctx context.Context) error {
	if _, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *S3Store) Close() error { return nil }
