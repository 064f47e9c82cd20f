package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"lumina_backend/internal/logger"
	"lumina_backend/internal/models"
	"lumina_backend/internal/storage"
	"lumina_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// UploadConfig - ограничения на вложения
type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string // MIME-типы
}

// FileService - адаптер между каталогом и файловым хранилищем.
// Содержимое файлов каталог не читает, кроме определения типа.
type FileService struct {
	storage storage.Storage
	config  UploadConfig
}

func NewFileService(st storage.Storage, cfg UploadConfig) *FileService {
	return &FileService{storage: st, config: cfg}
}

// Store проверяет файл и сохраняет его по пути submissions/<owner>/<uuid><ext>
func (s *FileService) Store(ctx context.Context, ownerID string, header *multipart.FileHeader) (*models.FileDescriptor, error) {
	if header.Size <= 0 {
		return nil, apperrors.NewBadRequestError("uploaded file is empty")
	}
	if s.config.MaxFileSize > 0 && header.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"max_size": s.config.MaxFileSize})
	}

	src, err := header.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	// Тип определяется по содержимому, заголовок клиента не учитывается
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to detect file type: %w", err))
	}
	if !s.allowed(mtype) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"detected": mtype.String()})
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to rewind uploaded file: %w", err))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	storagePath := path.Join("submissions", ownerID, uuid.NewString()+ext)

	if err := s.storage.Save(ctx, storagePath, src, mtype.String()); err != nil {
		return nil, apperrors.StorageError(err)
	}

	logger.CtxDebug(ctx, "file stored", "path", storagePath, "size", header.Size, "media_type", mtype.String())

	return &models.FileDescriptor{
		Name:      filepath.Base(header.Filename),
		Path:      storagePath,
		MediaType: mtype.String(),
		Size:      header.Size,
	}, nil
}

// Dispose удаляет файл; отсутствующий файл не ошибка
func (s *FileService) Dispose(ctx context.Context, path string) error {
	if err := s.storage.Delete(ctx, path); err != nil {
		return apperrors.StorageError(err)
	}
	return nil
}

// Open возвращает содержимое файла; вызывающий закрывает reader
func (s *FileService) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.storage.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, apperrors.ErrNoFile
		}
		return nil, apperrors.StorageError(err)
	}
	return rc, nil
}

func (s *FileService) allowed(mtype *mimetype.MIME) bool {
	if len(s.config.AllowedTypes) == 0 {
		return true
	}
	for _, t := range s.config.AllowedTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}
