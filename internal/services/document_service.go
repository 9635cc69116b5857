package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentsBucket holds tenancy agreement scans and payment receipts.
const DocumentsBucket = "kosmart-documents"

// DocumentService stores scanned documents (agreements, receipts) in object
// storage keyed by the owning record.
type DocumentService interface {
	UploadAgreement(ctx context.Context, tenancyID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	UploadReceipt(ctx context.Context, paymentID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	GetPresignedURL(objectName string, expiry time.Duration) (string, error)
	DeleteDocument(ctx context.Context, objectName string) error
	EnsureBucketExists(ctx context.Context) error
}

type minioDocumentService struct {
	client *minio.Client
}

func NewDocumentService(endpoint, accessKey, secretKey string, useSSL bool) (DocumentService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioDocumentService{client: client}, nil
}

func (m *minioDocumentService) UploadAgreement(ctx context.Context, tenancyID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("agreements/%s", tenancyID.String())
	return objectName, m.upload(ctx, objectName, reader, size, contentType)
}

func (m *minioDocumentService) UploadReceipt(ctx context.Context, paymentID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("receipts/%s", paymentID.String())
	return objectName, m.upload(ctx, objectName, reader, size, contentType)
}

func (m *minioDocumentService) upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, DocumentsBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioDocumentService) GetPresignedURL(objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(context.Background(), DocumentsBucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioDocumentService) DeleteDocument(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, DocumentsBucket, objectName, minio.RemoveObjectOptions{})
}

func (m *minioDocumentService) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, DocumentsBucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, DocumentsBucket, minio.MakeBucketOptions{})
	}
	return nil
}
