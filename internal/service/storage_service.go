package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/config"
	"github.com/sirawit/examportal/internal/dto"
)

// StorageService stores question and choice images and hands back public URLs.
type StorageService interface {
	UploadImage(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (*dto.UploadResponseDTO, error)
	PublicURL(objectPath string) string
}

type storageService struct {
	client *minio.Client
	cfg    *config.Config
}

func NewMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize MinIO client")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
	if err != nil {
		log.Warn().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("Could not check bucket existence")
		return client, nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Storage.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.Error().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("Failed to create bucket")
			return nil, err
		}
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("Created storage bucket")
	}
	return client, nil
}

func NewStorageService(client *minio.Client, cfg *config.Config) StorageService {
	return &storageService{client: client, cfg: cfg}
}

func (s *storageService) UploadImage(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (*dto.UploadResponseDTO, error) {
	objectPath := path.Join(folder, fmt.Sprintf("%s-%s", uuid.NewString(), filename))

	_, err := s.client.PutObject(ctx, s.cfg.Storage.Bucket, objectPath, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Error().Err(err).Str("path", objectPath).Msg("Image upload failed")
		return nil, fmt.Errorf("error uploading image: %w", err)
	}

	return &dto.UploadResponseDTO{
		Path:      objectPath,
		PublicURL: s.PublicURL(objectPath),
	}, nil
}

func (s *storageService) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", s.cfg.Storage.PublicBaseURL, s.cfg.Storage.Bucket, objectPath)
}
