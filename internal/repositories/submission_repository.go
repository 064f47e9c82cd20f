package repositories

import (
	"context"
	"errors"
	"fmt"

	"lumina_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
)

// SubmissionRepository хранит работы вместе с набором оценок.
// Save фиксирует строку работы и оценки атомарно.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	// FindByStatus возвращает работы в обратном порядке создания; nil означает все статусы
	FindByStatus(ctx context.Context, status *models.SubmissionStatus) ([]*models.Submission, error)
	Save(ctx context.Context, submission *models.Submission) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type SubmissionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &SubmissionRepositoryImpl{db: db}
}

// AutoMigrate создает таблицы submissions и submission_ratings
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Submission{}, &models.SubmissionRating{})
}

func (r *SubmissionRepositoryImpl) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(submission).Error; err != nil {
			return err
		}
		return upsertRatings(tx, submission.Ratings)
	})
}

func (r *SubmissionRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	// Колонка id имеет тип uuid: произвольная строка дала бы ошибку СУБД, а не "не найдено"
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSubmissionNotFound
	}

	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Ratings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&submission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepositoryImpl) FindByStatus(ctx context.Context, status *models.SubmissionStatus) ([]*models.Submission, error) {
	query := r.db.WithContext(ctx).
		Preload("Ratings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("created_at DESC").Order("id ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var submissions []*models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// Save перезаписывает все колонки работы и делает upsert оценок в одной транзакции
func (r *SubmissionRepositoryImpl) Save(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := updateSubmissionRow(tx, submission)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubmissionNotFound
		}
		return upsertRatings(tx, submission.Ratings)
	})
}

func (r *SubmissionRepositoryImpl) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrSubmissionNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteRatingsOf(tx, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Submission{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubmissionNotFound
		}
		return nil
	})
}

func (r *SubmissionRepositoryImpl) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// upsertRatings - одна строка на (submission_id, rater_id), повторная оценка обновляет score
func upsertRatings(tx *gorm.DB, ratings []models.SubmissionRating) error {
	if len(ratings) == 0 {
		return nil
	}
	return ratingsUpsert(tx, ratings).Error
}

// updateSubmissionRow пишет все колонки, включая нулевые (NULL в approved_at/rejected_at)
func updateSubmissionRow(tx *gorm.DB, submission *models.Submission) *gorm.DB {
	return tx.Model(submission).
		Select("*").
		Omit("ID", "CreatedAt", clause.Associations).
		Updates(submission)
}

func ratingsUpsert(tx *gorm.DB, ratings []models.SubmissionRating) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_id"}, {Name: "rater_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(&ratings)
}

func deleteRatingsOf(tx *gorm.DB, id string) *gorm.DB {
	return tx.Where("submission_id = ?", id).Delete(&models.SubmissionRating{})
}
