// Package storage issues presigned S3 uploads for KYC documents.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"
)

// Presigner is the subset of *s3.PresignClient used here.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type DocumentStore struct {
	p       Presigner
	bucket  string
	baseURL string // object URL prefix, no trailing slash
	ttl     time.Duration
	now     func() time.Time
}

func NewDocumentStore(p Presigner, bucket, baseURL string, ttl time.Duration) *DocumentStore {
	return &DocumentStore{
		p:       p,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewS3Presigner builds a presign client from the default AWS chain. A
// non-empty endpoint (LocalStack, MinIO) switches to path-style addressing.
func NewS3Presigner(ctx context.Context, region, endpoint string) (*s3.PresignClient, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

// ObjectBaseURL is where uploaded objects are read from.
func ObjectBaseURL(bucket, region, endpoint string) string {
	if endpoint != "" {
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

// PresignUpload returns a PUT URL for a fresh key under prefix.
func (s *DocumentStore) PresignUpload(ctx context.Context, prefix, contentType string) (string, string, time.Time, error) {
	key := strings.Trim(prefix, "/") + "/" + ulid.Make().String() + extFor(contentType)
	req, err := s.p.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	}, func(o *s3.PresignOptions) { o.Expires = s.ttl })
	if err != nil {
		return "", "", time.Time{}, err
	}
	obj := s.baseURL + "/" + (&url.URL{Path: key}).EscapedPath()
	return req.URL, obj, s.now().Add(s.ttl).UTC(), nil
}

func extFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	}
	return ""
}
