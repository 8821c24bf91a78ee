// Package storage handles object storage for signed quote documents and
// payment proofs, backed by MinIO.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"servicehub_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL is the expiration time for presigned URLs.
const PresignedURLTTL = 15 * time.Minute

// Service wraps a MinIO client scoped to the two document buckets.
type Service struct {
	client             *minio.Client
	bucketProofs       string
	bucketSignedQuotes string
}

// Disabled is returned from New when MinIO is not configured; the caller
// decides whether that is fatal.
var Disabled = fmt.Errorf("object storage is not configured")

// Noop stands in when object storage is disabled: every presign attempt
// fails with Disabled, which surfaces as an internal error to the caller.
type Noop struct{}

func (Noop) PresignSignedQuoteUpload(context.Context, string, string) (string, error) {
	return "", Disabled
}

func (Noop) PresignPaymentProofUpload(context.Context, string, string) (string, error) {
	return "", Disabled
}

func (Noop) PresignSignedQuoteDownload(context.Context, string) (string, error) {
	return "", Disabled
}

func (Noop) PresignProofDownload(context.Context, string) (string, error) {
	return "", Disabled
}

// New creates the storage service and ensures both buckets exist.
func New(ctx context.Context, cfg config.MinIOConfig) (*Service, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, Disabled
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &Service{
		client:             client,
		bucketProofs:       cfg.GetMinioBucketPaymentProofs(),
		bucketSignedQuotes: cfg.GetMinioBucketSignedQuotes(),
	}

	for _, bucket := range []string{s.bucketProofs, s.bucketSignedQuotes} {
		if err := s.ensureBucket(ctx, bucket); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Service) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// PresignSignedQuoteUpload issues a presigned PUT URL for a signed quote
// document.
func (s *Service) PresignSignedQuoteUpload(ctx context.Context, objectKey, contentType string) (string, error) {
	return s.presignPut(ctx, s.bucketSignedQuotes, objectKey)
}

// PresignPaymentProofUpload issues a presigned PUT URL for a payment proof.
func (s *Service) PresignPaymentProofUpload(ctx context.Context, objectKey, contentType string) (string, error) {
	return s.presignPut(ctx, s.bucketProofs, objectKey)
}

// PresignProofDownload issues a presigned GET URL so staff can review an
// uploaded proof.
func (s *Service) PresignProofDownload(ctx context.Context, objectKey string) (string, error) {
	return s.presignGet(ctx, s.bucketProofs, objectKey)
}

// PresignSignedQuoteDownload issues a presigned GET URL for a signed
// quote document.
func (s *Service) PresignSignedQuoteDownload(ctx context.Context, objectKey string) (string, error) {
	return s.presignGet(ctx, s.bucketSignedQuotes, objectKey)
}

func (s *Service) presignPut(ctx context.Context, bucket, objectKey string) (string, error) {
	presigned, err := s.client.PresignedPutObject(ctx, bucket, objectKey, PresignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}
	return presigned.String(), nil
}

func (s *Service) presignGet(ctx context.Context, bucket, objectKey string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, bucket, objectKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presigned.String(), nil
}
