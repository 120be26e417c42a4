package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

const signedURLTTL = 15 * time.Minute

type IDocumentService interface {
	Upload(ctx context.Context, caller *auth.User, req *dto.UploadDocumentRequest, filename, contentType string, size int64, content io.Reader) (*entity.Document, error)
	List(ctx context.Context, caller *auth.User) ([]dto.DocumentResponse, error)
	Delete(ctx context.Context, caller *auth.User, id uuid.UUID) error
}

type documentService struct {
	client backend.Client
	policy *datasource.Policy
	bucket string
	log    logger.ILogger
}

func NewDocumentService(client backend.Client, policy *datasource.Policy, bucket string, log logger.ILogger) IDocumentService {
	return &documentService{client: client, policy: policy, bucket: bucket, log: log}
}

// Upload stores the file in the object bucket first, then records its
// metadata row. A failed insert removes the orphaned object.
func (s *documentService) Upload(ctx context.Context, caller *auth.User, req *dto.UploadDocumentRequest, filename, contentType string, size int64, content io.Reader) (*entity.Document, error) {
	uploadedBy, err := uuid.Parse(caller.ID)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	storageName := storageFilename(id, filename)
	storagePath := fmt.Sprintf("%s/%s", caller.ID, storageName)

	if _, err := s.client.Storage().Upload(ctx, s.bucket, storagePath, content, contentType); err != nil {
		return nil, err
	}

	now := time.Now()
	document := entity.Document{
		Id:               id,
		Filename:         storageName,
		OriginalFilename: filename,
		FileSize:         size,
		FileType:         contentType,
		Category:         req.Category,
		Description:      req.Description,
		StoragePath:      storagePath,
		StorageBucket:    s.bucket,
		UploadedBy:       uploadedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.client.From("documents").Insert(ctx, &document, nil); err != nil {
		if rmErr := s.client.Storage().Remove(ctx, s.bucket, storagePath); rmErr != nil {
			s.log.Warn("document", "Failed to remove orphaned upload", map[string]interface{}{
				"path":  storagePath,
				"error": rmErr.Error(),
			})
		}
		return nil, err
	}
	return &document, nil
}

// List returns document metadata with short-lived download links. Non-admin
// callers only ever see their own uploads; the filter is applied here, not
// left to the client.
func (s *documentService) List(ctx context.Context, caller *auth.User) ([]dto.DocumentResponse, error) {
	if !s.policy.Live() {
		out := make([]dto.DocumentResponse, 0)
		for _, doc := range datasource.DemoDocuments() {
			out = append(out, dto.DocumentResponse{Document: doc})
		}
		return out, nil
	}

	query := s.client.From("documents").Select("*")
	if !caller.IsAdmin() {
		query = query.Eq("uploaded_by", caller.ID)
	}

	var documents []entity.Document
	if err := query.Order("created_at", false).Get(ctx, &documents); err != nil {
		return nil, err
	}

	out := make([]dto.DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		res := dto.DocumentResponse{Document: doc}
		if url, err := s.client.Storage().SignedURL(ctx, doc.StorageBucket, doc.StoragePath, signedURLTTL); err == nil {
			res.DownloadURL = url
		}
		out = append(out, res)
	}
	return out, nil
}

func (s *documentService) Delete(ctx context.Context, caller *auth.User, id uuid.UUID) error {
	var document entity.Document
	err := s.client.From("documents").
		Select("*").
		Eq("id", id.String()).
		Single().
		Get(ctx, &document)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && document.UploadedBy.String() != caller.ID {
		return ErrForbidden
	}

	if err := s.client.From("documents").Eq("id", id.String()).Delete(ctx); err != nil {
		return err
	}
	if err := s.client.Storage().Remove(ctx, document.StorageBucket, document.StoragePath); err != nil {
		s.log.Warn("document", "Failed to remove stored object", map[string]interface{}{
			"path":  document.StoragePath,
			"error": err.Error(),
		})
	}
	return nil
}

// storageFilename keeps the original extension but replaces the rest with the
// record id, so object keys are collision free and safe regardless of what
// the browser sent.
func storageFilename(id uuid.UUID, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return id.String() + ext
}
