package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"lumina_backend/internal/algorithms"
	"lumina_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSubmission(title string, createdAt time.Time, status models.SubmissionStatus) *models.Submission {
	return &models.Submission{
		BaseModel:   models.BaseModel{ID: uuid.NewString(), CreatedAt: createdAt, UpdatedAt: createdAt},
		Title:       title,
		Creator:     "Herbert",
		Description: "Desert planet epic",
		OwnerID:     "owner-1",
		Status:      status,
	}
}

// runRepositoryContract - общие проверки для любой реализации SubmissionRepository
func runRepositoryContract(t *testing.T, repo SubmissionRepository) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("create and find", func(t *testing.T) {
		s := newSubmission("Dune", base, models.SubmissionStatusPending)
		require.NoError(t, repo.Create(ctx, s))

		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
		assert.Equal(t, models.SubmissionStatusPending, got.Status)
		assert.Nil(t, got.File())
		assert.Empty(t, got.Ratings)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrSubmissionNotFound)

		_, err = repo.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrSubmissionNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), ErrSubmissionNotFound)
	})

	t.Run("save upserts ratings", func(t *testing.T) {
		s := newSubmission("Solaris", base, models.SubmissionStatusApproved)
		require.NoError(t, repo.Create(ctx, s))

		s.Ratings = []models.SubmissionRating{
			{SubmissionID: s.ID, RaterID: "a", Score: 4, CreatedAt: base, UpdatedAt: base},
			{SubmissionID: s.ID, RaterID: "b", Score: 2, CreatedAt: base, UpdatedAt: base},
		}
		summary := algorithms.AggregateRatings(s.Ratings)
		s.AverageScore, s.RatingCount = summary.AverageScore, summary.RatingCount
		require.NoError(t, repo.Save(ctx, s))

		// Повторная оценка того же пользователя
		s.Ratings[0].Score = 2
		summary = algorithms.AggregateRatings(s.Ratings)
		s.AverageScore, s.RatingCount = summary.AverageScore, summary.RatingCount
		require.NoError(t, repo.Save(ctx, s))

		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		require.Len(t, got.Ratings, 2)
		score, ok := got.RatingBy("a")
		assert.True(t, ok)
		assert.Equal(t, 2, score)
		assert.Equal(t, 2.0, got.AverageScore)
		assert.Equal(t, 2, got.RatingCount)
		assert.True(t, algorithms.VerifySummary(got))
	})

	t.Run("save unknown", func(t *testing.T) {
		s := newSubmission("Ghost", base, models.SubmissionStatusPending)
		assert.ErrorIs(t, repo.Save(ctx, s), ErrSubmissionNotFound)
	})

	t.Run("filter and order", func(t *testing.T) {
		older := newSubmission("Older", base.Add(time.Hour), models.SubmissionStatusApproved)
		newer := newSubmission("Newer", base.Add(2*time.Hour), models.SubmissionStatusApproved)
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		approved := models.SubmissionStatusApproved
		list, err := repo.FindByStatus(ctx, &approved)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(list), 2)
		assert.Equal(t, "Newer", list[0].Title)
		assert.Equal(t, "Older", list[1].Title)
		for _, s := range list {
			assert.Equal(t, models.SubmissionStatusApproved, s.Status)
		}

		all, err := repo.FindByStatus(ctx, nil)
		require.NoError(t, err)
		assert.Greater(t, len(all), len(list))
	})

	t.Run("delete", func(t *testing.T) {
		s := newSubmission("Temp", base, models.SubmissionStatusApproved)
		require.NoError(t, repo.Create(ctx, s))
		s.Ratings = []models.SubmissionRating{{SubmissionID: s.ID, RaterID: "a", Score: 5, CreatedAt: base, UpdatedAt: base}}
		s.AverageScore, s.RatingCount = 5, 1
		require.NoError(t, repo.Save(ctx, s))

		require.NoError(t, repo.Delete(ctx, s.ID))
		_, err := repo.FindByID(ctx, s.ID)
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}

func TestMemorySubmissionRepository(t *testing.T) {
	runRepositoryContract(t, NewMemorySubmissionRepository())
}

func TestMemorySubmissionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySubmissionRepository()

	s := newSubmission("Dune", time.Now(), models.SubmissionStatusPending)
	require.NoError(t, repo.Create(ctx, s))

	// Изменение исходного объекта не влияет на хранимую запись
	s.Title = "Changed"

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	got.Ratings = append(got.Ratings, models.SubmissionRating{RaterID: "x", Score: 1})
	again, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Ratings)
}

// TestGormSubmissionRepository запускается только при заданном TEST_DATABASE_URL
func TestGormSubmissionRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "Не удалось подключиться к тестовой БД")
	require.NoError(t, db.Migrator().DropTable(&models.SubmissionRating{}, &models.Submission{}))
	require.NoError(t, AutoMigrate(db))

	runRepositoryContract(t, NewSubmissionRepository(db))
}
