package services

import (
	"lumina_backend/internal/repositories"
	"lumina_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	ModerationService ModerationService
	FileService       *FileService
	Store             *SubmissionStore
}

// NewServiceContainer связывает хранилище работ, файловый сервис и оркестрацию
func NewServiceContainer(repo repositories.SubmissionRepository, st storage.Storage, upload UploadConfig, clock Clock) *ServiceContainer {
	files := NewFileService(st, upload)
	store := NewSubmissionStore(repo, files, clock)
	return &ServiceContainer{
		ModerationService: NewModerationService(store, files),
		FileService:       files,
		Store:             store,
	}
}
