package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"findtern_backend/internal/logger"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/internal/storage"
	"findtern_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaConfig - лимиты загрузки файлов онбординга
type MediaConfig struct {
	MaxSize           int64
	AllowedImageTypes []string
	AllowedVideoTypes []string
	URLExpiry         time.Duration
}

// MediaService - серверный кеш файлов онбординга (фото, видео, документы).
// Файл сразу пишется в хранилище со staged=true, commit снимает флаг.
type MediaService interface {
	UploadMedia(ctx context.Context, db *gorm.DB, actor dto.Actor, userID string, key models.MediaKey, file *multipart.FileHeader, lastModified *time.Time) (*dto.MediaResponse, error)
	ListMedia(ctx context.Context, db *gorm.DB, actor dto.Actor, userID string) (*dto.MediaListResponse, error)
	GetMedia(ctx context.Context, db *gorm.DB, actor dto.Actor, userID string, key models.MediaKey) (*dto.MediaResponse, error)
	DeleteMedia(ctx context.Context, db *gorm.DB, actor dto.Actor, userID string, key models.MediaKey) error
	CommitMedia(db *gorm.DB, actor dto.Actor, userID string) (*dto.CommitMediaResponse, error)

	// EvictStaged удаляет незакоммиченные файлы старше before (для воркера)
	EvictStaged(ctx context.Context, db *gorm.DB, before time.Time, limit int) (int64, error)
}

type mediaService struct {
	documentRepo repositories.DocumentRepository
	userRepo     repositories.UserRepository
	storage      storage.Storage
	config       MediaConfig
	now          func() time.Time
}

func NewMediaService(
	documentRepo repositories.DocumentRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	config MediaConfig,
) MediaService {
	if config.MaxSize <= 0 {
		config.MaxSize = 50 << 20
	}
	if config.URLExpiry <= 0 {
		config.URLExpiry = 15 * time.Minute
	}
	return &mediaService{
		documentRepo: documentRepo,
		userRepo:     userRepo,
		storage:      store,
		config:       config,
		now:          time.Now,
	}
}

func (s *mediaService) UploadMedia(ctx context.Context, db *gorm.DB, actor dto.Actor, userID string, key models.MediaKey, file *multipart.FileHeader, lastModified *time.Time) (*dto.MediaResponse, error) {
	if !actor.Owns(userID) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !key.Valid() {
		return nil, fieldError("key", "Invalid value")
	}
	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		return nil, handleRepoError(err)
	}

	contentType, err := s.validateFile(key, file)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	path := fmt.Sprintf("onboarding/%s/%s/%s%s", userID, key, uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	if err := s.storage.Save(ctx, path, src, file.Size, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	doc, err := s.documentRepo.FindByKey(db, userID, key)
	var previousPath string
	switch {
	case err == nil:
		previousPath = doc.StoragePath
	case errors.Is(err, repositories.ErrDocumentNotFound):
		doc = &models.InternDocument{UserID: userID, Key: key}
	default:
		s.removeObject(ctx, path)
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	doc.Name = filepath.Base(file.Filename)
	doc.ContentType = contentType
	doc.Size = file.Size
	doc.LastModified = now
	if lastModified != nil && !lastModified.IsZero() {
		doc.LastModified = *lastModified
	}
	doc.StoragePath = path
	doc.Staged = true
	doc.CommittedAt = nil

	if err := s.documentRepo.Save(db, doc); err != nil {
		s.removeObject(ctx, path)
		return nil, apperrors.InternalError(err)
	}

	// замена ключа: старый объект больше никому не нужен
	if previousPath != "" && previousPath != path {
		s.removeObject(ctx, previousPath)
	}

	return s.buildResponse(ctx, doc), nil
}

func (s *mediaService) ListMedia(ctx context.Context, db *gorm.DB, actor dto.Actor, userID string) (*dto.MediaListResponse, error) {
	if !actor.Owns(userID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	docs, err := s.documentRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	files := make([]*dto.MediaResponse, 0, len(docs))
	for i := range docs {
		files = append(files, s.buildResponse(ctx, &docs[i]))
	}
	return &dto.MediaListResponse{Files: files}, nil
}

func (s *mediaService) GetMedia(ctx context.Context, db *gorm.DB, actor dto.Actor, userID string, key models.MediaKey) (*dto.MediaResponse, error) {
	if !actor.Owns(userID) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !key.Valid() {
		return nil, fieldError("key", "Invalid value")
	}

	doc, err := s.documentRepo.FindByKey(db, userID, key)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return s.buildResponse(ctx, doc), nil
}

func (s *mediaService) DeleteMedia(ctx context.Context, db *gorm.DB, actor dto.Actor, userID string, key models.MediaKey) error {
	if !actor.Owns(userID) {
		return apperrors.ErrInsufficientPermissions
	}
	if !key.Valid() {
		return fieldError("key", "Invalid value")
	}

	doc, err := s.documentRepo.FindByKey(db, userID, key)
	if err != nil {
		return handleRepoError(err)
	}

	if err := s.documentRepo.Delete(db, doc.ID); err != nil {
		return handleRepoError(err)
	}
	s.removeObject(ctx, doc.StoragePath)
	return nil
}

func (s *mediaService) CommitMedia(db *gorm.DB, actor dto.Actor, userID string) (*dto.CommitMediaResponse, error) {
	if !actor.Owns(userID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	n, err := s.documentRepo.CommitAll(db, userID, s.now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.CommitMediaResponse{Committed: n}, nil
}

func (s *mediaService) EvictStaged(ctx context.Context, db *gorm.DB, before time.Time, limit int) (int64, error) {
	docs, err := s.documentRepo.FindStaleStaged(db, before, limit)
	if err != nil {
		return 0, err
	}

	var evicted int64
	for _, doc := range docs {
		if err := s.storage.Delete(ctx, doc.StoragePath); err != nil && !errors.Is(err, storage.ErrNotFound) {
			// строку оставляем, попробуем на следующем тике
			logger.CtxWithError(ctx, "Failed to delete staged object", err, "path", doc.StoragePath)
			continue
		}
		if err := s.documentRepo.Delete(db, doc.ID); err != nil {
			return evicted, err
		}
		evicted++
	}
	return evicted, nil
}

// ---------------- helpers ----------------

// validateFile возвращает итоговый MIME-тип
func (s *mediaService) validateFile(key models.MediaKey, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", fieldError("file", "This field is required")
	}
	if file.Size > s.config.MaxSize {
		return "", apperrors.ErrFileTooLarge
	}

	contentType := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimeTypeFromFilename(file.Filename)
	}

	allowed := s.config.AllowedImageTypes
	if key.IsVideo() {
		allowed = s.config.AllowedVideoTypes
	}
	if !contains(allowed, contentType) {
		return "", apperrors.ErrInvalidFileType
	}
	return contentType, nil
}

func (s *mediaService) buildResponse(ctx context.Context, doc *models.InternDocument) *dto.MediaResponse {
	url, err := s.storage.GetSignedURL(ctx, doc.StoragePath, s.config.URLExpiry)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to build media url", err, "path", doc.StoragePath)
		url = ""
	}
	return dto.NewMediaResponse(doc, url)
}

func (s *mediaService) removeObject(ctx context.Context, path string) {
	if err := s.storage.Delete(ctx, path); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.CtxWithError(ctx, "Failed to delete object", err, "path", path)
	}
}

func mimeTypeFromFilename(filename string) string {
	mimeTypes := map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".heic": "image/heic",
		".mp4":  "video/mp4",
		".mov":  "video/quicktime",
		".webm": "video/webm",
	}
	if mime, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	return "application/octet-stream"
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
