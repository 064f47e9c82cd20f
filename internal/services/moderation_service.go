package services

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"lumina_backend/internal/logger"
	"lumina_backend/internal/models"
	"lumina_backend/internal/services/dto"
	"lumina_backend/pkg/apperrors"
)

// Caller - идентичность из слоя аутентификации. Пустой ID означает анонима.
type Caller struct {
	ID   string
	Role models.UserRole
}

func AnonymousCaller() Caller {
	return Caller{Role: models.UserRoleAnonymous}
}

// IsAnonymous - нет ID или роль неизвестна
func (c Caller) IsAnonymous() bool {
	return c.ID == "" || c.Role == models.UserRoleAnonymous || !c.Role.Valid()
}

// SubmissionFiles - файловый коллаборатор (см. FileService)
type SubmissionFiles interface {
	Store(ctx context.Context, ownerID string, header *multipart.FileHeader) (*models.FileDescriptor, error)
	Dispose(ctx context.Context, path string) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

type ModerationService interface {
	Submit(ctx context.Context, caller Caller, req *dto.CreateSubmissionRequest, file *multipart.FileHeader) (*dto.SubmissionResponse, error)
	Get(ctx context.Context, caller Caller, id string) (*dto.SubmissionResponse, error)
	ListApproved(ctx context.Context) ([]*dto.SubmissionResponse, error)
	ListPending(ctx context.Context, caller Caller) ([]*dto.SubmissionResponse, error)
	ListAll(ctx context.Context, caller Caller) ([]*dto.SubmissionResponse, error)
	Approve(ctx context.Context, caller Caller, id string) (*dto.SubmissionResponse, error)
	Reject(ctx context.Context, caller Caller, id string) (*dto.SubmissionResponse, error)
	Rate(ctx context.Context, caller Caller, id string, req *dto.RateSubmissionRequest) (*dto.RatingSummaryResponse, error)
	Update(ctx context.Context, caller Caller, id string, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
	// OpenFile отдает вложение; видимость как у Get
	OpenFile(ctx context.Context, caller Caller, id string) (io.ReadCloser, *models.FileDescriptor, error)
	Health(ctx context.Context) (*dto.HealthResponse, error)
}

type moderationService struct {
	store *SubmissionStore
	files SubmissionFiles
	clock Clock
}

func NewModerationService(store *SubmissionStore, files SubmissionFiles) ModerationService {
	return &moderationService{
		store: store,
		files: files,
		clock: store.clock,
	}
}

func (s *moderationService) Submit(ctx context.Context, caller Caller, req *dto.CreateSubmissionRequest, file *multipart.FileHeader) (*dto.SubmissionResponse, error) {
	if caller.IsAnonymous() {
		return nil, apperrors.ErrAuthenticationRequired
	}

	var fd *models.FileDescriptor
	if file != nil {
		stored, err := s.files.Store(ctx, caller.ID, file)
		if err != nil {
			return nil, err
		}
		fd = stored
	}

	submission, err := s.store.Create(ctx, CreateSubmissionInput{
		Title:       req.Title,
		Creator:     req.Creator,
		Description: req.Description,
		OwnerID:     caller.ID,
		File:        fd,
	})
	if err != nil {
		// Компенсация: файл без записи никому не нужен
		if fd != nil {
			if dErr := s.files.Dispose(ctx, fd.Path); dErr != nil {
				logger.CtxWithError(ctx, "failed to dispose orphaned upload", dErr, "path", fd.Path)
			}
		}
		return nil, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *moderationService) Get(ctx context.Context, caller Caller, id string) (*dto.SubmissionResponse, error) {
	submission, err := s.store.Get(ctx, id, caller.Role, caller.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

func (s *moderationService) ListApproved(ctx context.Context) ([]*dto.SubmissionResponse, error) {
	items, err := s.store.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionListResponse(items), nil
}

func (s *moderationService) ListPending(ctx context.Context, caller Caller) ([]*dto.SubmissionResponse, error) {
	if caller.IsAnonymous() {
		return nil, apperrors.ErrAuthenticationRequired
	}
	items, err := s.store.ListPending(ctx, caller.Role)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionListResponse(items), nil
}

func (s *moderationService) ListAll(ctx context.Context, caller Caller) ([]*dto.SubmissionResponse, error) {
	if caller.IsAnonymous() {
		return nil, apperrors.ErrAuthenticationRequired
	}
	items, err := s.store.ListAll(ctx, caller.Role)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionListResponse(items), nil
}

func (s *moderationService) Approve(ctx context.Context, caller Caller, id string) (*dto.SubmissionResponse, error) {
	return s.decide(ctx, caller, id, models.DecisionApprove)
}

func (s *moderationService) Reject(ctx context.Context, caller Caller, id string) (*dto.SubmissionResponse, error) {
	return s.decide(ctx, caller, id, models.DecisionReject)
}

func (s *moderationService) decide(ctx context.Context, caller Caller, id string, decision models.Decision) (*dto.SubmissionResponse, error) {
	if caller.IsAnonymous() {
		return nil, apperrors.ErrAuthenticationRequired
	}
	submission, err := s.store.Decide(ctx, id, decision, caller.Role)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

func (s *moderationService) Rate(ctx context.Context, caller Caller, id string, req *dto.RateSubmissionRequest) (*dto.RatingSummaryResponse, error) {
	if caller.IsAnonymous() {
		return nil, apperrors.ErrAuthenticationRequired
	}
	submission, err := s.store.Rate(ctx, id, caller.ID, req.Score)
	if err != nil {
		return nil, err
	}
	yours, _ := submission.RatingBy(caller.ID)
	return &dto.RatingSummaryResponse{
		SubmissionID: submission.ID,
		AverageScore: submission.AverageScore,
		RatingCount:  submission.RatingCount,
		YourScore:    yours,
	}, nil
}

func (s *moderationService) Update(ctx context.Context, caller Caller, id string, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error) {
	if caller.IsAnonymous() {
		return nil, apperrors.ErrAuthenticationRequired
	}

	upd := FieldUpdate{
		Title:       req.Title,
		Creator:     req.Creator,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.SubmissionStatus(*req.Status)
		upd.Status = &status
	}

	submission, err := s.store.UpdateFields(ctx, id, caller.Role, upd)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

func (s *moderationService) Delete(ctx context.Context, caller Caller, id string) error {
	if caller.IsAnonymous() {
		return apperrors.ErrAuthenticationRequired
	}
	return s.store.Delete(ctx, id, caller.Role)
}

func (s *moderationService) OpenFile(ctx context.Context, caller Caller, id string) (io.ReadCloser, *models.FileDescriptor, error) {
	submission, err := s.store.Get(ctx, id, caller.Role, caller.ID)
	if err != nil {
		return nil, nil, err
	}
	fd := submission.File()
	if fd == nil {
		return nil, nil, apperrors.ErrNoFile
	}
	rc, err := s.files.Open(ctx, fd.Path)
	if err != nil {
		return nil, nil, err
	}
	return rc, fd, nil
}

func (s *moderationService) Health(ctx context.Context) (*dto.HealthResponse, error) {
	if err := s.store.Ping(ctx); err != nil {
		return nil, err
	}
	return &dto.HealthResponse{
		Status:    "ok",
		Message:   "Lumina API is running",
		Timestamp: s.clock.Now().Truncate(time.Second),
	}, nil
}
