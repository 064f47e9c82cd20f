package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"lumina_backend/internal/algorithms"
	"lumina_backend/internal/locker"
	"lumina_backend/internal/logger"
	"lumina_backend/internal/models"
	"lumina_backend/internal/repositories"
	"lumina_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// Clock позволяет подменять время в тестах
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// FileDisposer получает путь файла удаленной работы
type FileDisposer interface {
	Dispose(ctx context.Context, path string) error
}

// CreateSubmissionInput - поля новой работы
type CreateSubmissionInput struct {
	Title       string
	Creator     string
	Description string
	OwnerID     string
	File        *models.FileDescriptor
}

// FieldUpdate - частичное обновление; nil означает "не менять"
type FieldUpdate struct {
	Title       *string
	Creator     *string
	Description *string
	Status      *models.SubmissionStatus
}

// SubmissionStore владеет записями работ. Все изменения одной работы
// (чтение, мутация, пересчет агрегата, сохранение) выполняются под ее ключом.
type SubmissionStore struct {
	repo     repositories.SubmissionRepository
	locks    *locker.KeyedMutex
	disposer FileDisposer
	clock    Clock
}

func NewSubmissionStore(repo repositories.SubmissionRepository, disposer FileDisposer, clock Clock) *SubmissionStore {
	if clock == nil {
		clock = systemClock{}
	}
	return &SubmissionStore{
		repo:     repo,
		locks:    locker.New(),
		disposer: disposer,
		clock:    clock,
	}
}

func (s *SubmissionStore) Create(ctx context.Context, in CreateSubmissionInput) (*models.Submission, error) {
	title := strings.TrimSpace(in.Title)
	creator := strings.TrimSpace(in.Creator)
	description := strings.TrimSpace(in.Description)

	details := map[string]string{}
	if title == "" {
		details["title"] = "title is required"
	}
	if creator == "" {
		details["creator"] = "creator is required"
	}
	if description == "" {
		details["description"] = "description is required"
	}
	if len(details) > 0 {
		return nil, apperrors.ValidationError(details)
	}
	if in.File != nil && !in.File.Complete() {
		return nil, apperrors.ErrPartialFile
	}
	if in.OwnerID == "" {
		return nil, apperrors.ErrAuthenticationRequired
	}

	now := s.clock.Now()
	submission := &models.Submission{
		BaseModel:   models.BaseModel{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		Title:       title,
		Creator:     creator,
		Description: description,
		OwnerID:     in.OwnerID,
		Status:      models.SubmissionStatusPending,
	}
	submission.AttachFile(in.File)

	unlock := s.locks.Lock(submission.ID)
	defer unlock()

	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "submission created", "submission_id", submission.ID, "owner_id", submission.OwnerID)
	return submission, nil
}

// Get возвращает работу, если вызывающий ее видит. Скрытая работа неотличима от отсутствующей.
func (s *SubmissionStore) Get(ctx context.Context, id string, role models.UserRole, callerID string) (*models.Submission, error) {
	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !submission.IsVisibleTo(callerID, role) {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return submission, nil
}

func (s *SubmissionStore) ListApproved(ctx context.Context) ([]*models.Submission, error) {
	approved := models.SubmissionStatusApproved
	return s.list(ctx, &approved)
}

func (s *SubmissionStore) ListPending(ctx context.Context, role models.UserRole) ([]*models.Submission, error) {
	if role != models.UserRoleModerator {
		return nil, apperrors.ErrModeratorOnly
	}
	pending := models.SubmissionStatusPending
	return s.list(ctx, &pending)
}

func (s *SubmissionStore) ListAll(ctx context.Context, role models.UserRole) ([]*models.Submission, error) {
	if role != models.UserRoleModerator {
		return nil, apperrors.ErrModeratorOnly
	}
	return s.list(ctx, nil)
}

// Decide применяет решение модератора. Повторное решение разрешено и обновляет отметку времени.
func (s *SubmissionStore) Decide(ctx context.Context, id string, decision models.Decision, role models.UserRole) (*models.Submission, error) {
	if role != models.UserRoleModerator {
		return nil, apperrors.ErrModeratorOnly
	}
	status, ok := decision.Status()
	if !ok {
		return nil, apperrors.ErrInvalidSubmissionStatus
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	setStatus(submission, status, s.clock.Now())

	if err := s.save(ctx, submission); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "submission decided", "submission_id", id, "status", status)
	return submission, nil
}

// Rate добавляет или заменяет оценку пользователя и синхронно пересчитывает агрегат
func (s *SubmissionStore) Rate(ctx context.Context, id, raterID string, score int) (*models.Submission, error) {
	if score < 1 || score > 5 {
		return nil, apperrors.ErrInvalidScore
	}
	if raterID == "" {
		return nil, apperrors.ErrAuthenticationRequired
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.SubmissionStatusApproved {
		return nil, apperrors.ErrRateUnapproved
	}

	now := s.clock.Now()
	replaced := false
	for i := range submission.Ratings {
		if submission.Ratings[i].RaterID == raterID {
			submission.Ratings[i].Score = score
			submission.Ratings[i].UpdatedAt = now
			replaced = true
			break
		}
	}
	if !replaced {
		submission.Ratings = append(submission.Ratings, models.SubmissionRating{
			SubmissionID: submission.ID,
			RaterID:      raterID,
			Score:        score,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	summary := algorithms.AggregateRatings(submission.Ratings)
	submission.AverageScore = summary.AverageScore
	submission.RatingCount = summary.RatingCount

	if err := s.save(ctx, submission); err != nil {
		return nil, err
	}

	logger.CtxDebug(ctx, "submission rated",
		"submission_id", id,
		"rater_id", raterID,
		"average_score", summary.AverageScore,
		"rating_count", summary.RatingCount,
	)
	return submission, nil
}

// UpdateFields - правка модератором. Смена статуса идет через тот же setter, что и Decide.
func (s *SubmissionStore) UpdateFields(ctx context.Context, id string, role models.UserRole, upd FieldUpdate) (*models.Submission, error) {
	if role != models.UserRoleModerator {
		return nil, apperrors.ErrModeratorOnly
	}

	details := map[string]string{}
	trimmed := func(field string, v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			details[field] = field + " must not be empty"
		}
		return &t
	}
	title := trimmed("title", upd.Title)
	creator := trimmed("creator", upd.Creator)
	description := trimmed("description", upd.Description)
	if len(details) > 0 {
		return nil, apperrors.ValidationError(details)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, apperrors.ErrInvalidSubmissionStatus
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		submission.Title = *title
	}
	if creator != nil {
		submission.Creator = *creator
	}
	if description != nil {
		submission.Description = *description
	}
	if upd.Status != nil {
		setStatus(submission, *upd.Status, s.clock.Now())
	}

	if err := s.save(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// Delete удаляет запись и затем передает путь файла на утилизацию.
// Ошибка утилизации только логируется: запись уже удалена.
func (s *SubmissionStore) Delete(ctx context.Context, id string, role models.UserRole) error {
	if role != models.UserRoleModerator {
		return apperrors.ErrModeratorOnly
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	submission, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	if fd := submission.File(); fd != nil && s.disposer != nil {
		if err := s.disposer.Dispose(ctx, fd.Path); err != nil {
			logger.CtxWithError(ctx, "failed to dispose submission file", err,
				"submission_id", id,
				"path", fd.Path,
			)
		}
	}

	logger.CtxInfo(ctx, "submission deleted", "submission_id", id)
	return nil
}

// Ping проверяет доступность хранилища
func (s *SubmissionStore) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return apperrors.StorageError(err)
	}
	return nil
}

// ---------------- helpers ----------------

// setStatus - единственный способ сменить статус: ставит отметку нового статуса и стирает другую
func setStatus(submission *models.Submission, status models.SubmissionStatus, now time.Time) {
	submission.Status = status
	switch status {
	case models.SubmissionStatusApproved:
		submission.ApprovedAt = &now
		submission.RejectedAt = nil
	case models.SubmissionStatusRejected:
		submission.RejectedAt = &now
		submission.ApprovedAt = nil
	default:
		submission.ApprovedAt = nil
		submission.RejectedAt = nil
	}
}

func (s *SubmissionStore) find(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return submission, nil
}

func (s *SubmissionStore) list(ctx context.Context, status *models.SubmissionStatus) ([]*models.Submission, error) {
	submissions, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return submissions, nil
}

func (s *SubmissionStore) save(ctx context.Context, submission *models.Submission) error {
	submission.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, submission); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func mapRepoError(err error) error {
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return apperrors.ErrSubmissionNotFound
	}
	return apperrors.StorageError(err)
}
