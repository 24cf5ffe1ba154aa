// internal/services/storage_service.go
package services

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/clipcoin/clipcoin-backend/internal/config"
)

// StorageService issues short-lived playback URLs for video objects. The
// bucket is private; unlocked access is granted exclusively through
// presigned GETs so playback keys never leave the server.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// PlaybackURL presigns a GET for the given object key, valid for the
// configured TTL.
func (s *StorageService) PlaybackURL(key string) (string, time.Time, error) {
	ttl := time.Duration(s.config.AWS.PlaybackURLTTL) * time.Minute
	expiresAt := time.Now().Add(ttl)

	if s.s3Client == nil {
		// Local development: hand back a direct URL with no signing.
		return fmt.Sprintf("http://localhost:%s/media/%s", s.config.Server.Port, key), expiresAt, nil
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url, expiresAt, nil
}

// ThumbnailURL builds the public URL for a thumbnail key, preferring the
// CDN when configured.
func (s *StorageService) ThumbnailURL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
