// Package media issues direct-upload URLs for Cloud Storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type signFunc func(object string, opts *storage.SignedURLOptions) (string, error)

// GCSSigner signs V4 PUT URLs for one bucket.
type GCSSigner struct {
	bucket     string
	publicBase string
	sign       signFunc
	client     *storage.Client
}

var _ core.MediaSigner = (*GCSSigner)(nil)

// NewGCSSigner signs with the credentials the storage client resolves
// (a key file, or the IAM signBlob API on GCE/Cloud Run).
func NewGCSSigner(ctx context.Context, bucket, credentialsFile, publicBase string) (*GCSSigner, error) {
	if bucket == "" {
		return nil, errors.New("GCS bucket is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSigner{
		bucket:     bucket,
		publicBase: publicBaseURL(bucket, publicBase),
		sign:       client.Bucket(bucket).SignedURL,
		client:     client,
	}, nil
}

// NewKeySigner signs with an explicit service account id and PEM private key.
func NewKeySigner(bucket, accessID string, privateKey []byte, publicBase string) *GCSSigner {
	return &GCSSigner{
		bucket:     bucket,
		publicBase: publicBaseURL(bucket, publicBase),
		sign: func(object string, opts *storage.SignedURLOptions) (string, error) {
			opts.GoogleAccessID = accessID
			opts.PrivateKey = privateKey
			return storage.SignedURL(bucket, object, opts)
		},
	}
}

func publicBaseURL(bucket, base string) string {
	if base == "" {
		return "https://storage.googleapis.com/" + bucket
	}
	return strings.TrimRight(base, "/")
}

// SignedUploadURL signs a PUT for objectName. The uploader must send the
// content length range header with the signed value or the upload is refused.
func (s *GCSSigner) SignedUploadURL(_ context.Context, objectName, contentType string, maxBytes int64, expiresAt time.Time) (string, error) {
	if maxBytes < 1 {
		return "", fmt.Errorf("%w: max upload size must be positive", errs.ErrInvalidInput)
	}
	url, err := s.sign(objectName, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Headers:     []string{models.ContentLengthRangeHeader + ":" + models.ContentLengthRange(maxBytes)},
		Expires:     expiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: sign upload url: %v", errs.ErrUpstream, err)
	}
	return url, nil
}

func (s *GCSSigner) PublicURL(objectName string) string {
	return s.publicBase + "/" + objectName
}

func (s *GCSSigner) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Disabled stands in for the signer when no bucket is configured.
type Disabled struct{}

var _ core.MediaSigner = Disabled{}

func (Disabled) SignedUploadURL(context.Context, string, string, int64, time.Time) (string, error) {
	return "", fmt.Errorf("%w: media storage is not configured", errs.ErrUpstream)
}

func (Disabled) PublicURL(string) string { return "" }
