package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	appconfig "back2u-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLTTL = 5 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// ImageService hands out pre-signed upload URLs for report and return images
type ImageService struct {
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string
}

// NewImageService creates an image service for the configured bucket
func NewImageService(ctx context.Context, cfg appconfig.AWSConfig) (*ImageService, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageService{
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.S3Bucket,
		region:        cfg.Region,
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
	}, nil
}

// UploadResponse carries a pre-signed URL and the image path to store
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	ImagePath string `json:"image_path"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignUpload generates a pre-signed PUT URL for a new image of uid
func (s *ImageService) PresignUpload(ctx context.Context, uid, contentType string) (*UploadResponse, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type %q: %w", contentType, ErrValidation)
	}

	key := fmt.Sprintf("images/%s/%s%s", uid, uuid.New().String(), ext)

	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLTTL
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w: %w", ErrBackendUnavailable, err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		ImagePath: s.objectURL(key),
		ExpiresIn: int(uploadURLTTL.Seconds()),
	}, nil
}

func (s *ImageService) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
