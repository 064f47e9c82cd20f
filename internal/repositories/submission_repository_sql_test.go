package repositories

import (
	"strings"
	"testing"
	"time"

	"lumina_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newDryRunDB - gorm с диалектом postgres без подключения: SQL только строится
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=lumina dbname=lumina sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestUpdateSubmissionRow_WritesEveryColumn(t *testing.T) {
	db := newDryRunDB(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Возврат в pending: оба штампа обнулены и должны уйти в UPDATE как NULL
	s := newSubmission("Dune", base, models.SubmissionStatusPending)

	stmt := updateSubmissionRow(db, s)
	require.NoError(t, stmt.Error)
	sql := stmt.Statement.SQL.String()

	assert.True(t, strings.HasPrefix(sql, `UPDATE "submissions" SET `), sql)
	for _, column := range []string{
		"title", "creator", "description", "owner_id",
		"file_name", "file_path", "file_type", "file_size",
		"status", "approved_at", "rejected_at", "average_score", "rating_count", "updated_at",
	} {
		assert.Contains(t, sql, `"`+column+`"=`, column)
	}
	assert.NotContains(t, sql, `"created_at"=`)
	assert.NotContains(t, sql, `"id"=`, "primary key is never reassigned")
	assert.Contains(t, sql, `WHERE "id" = `)
	assert.Contains(t, stmt.Statement.Vars, s.ID)
	assert.NotContains(t, sql, "submission_ratings", "ratings are written separately")
}

func TestRatingsUpsert_OneRowPerRater(t *testing.T) {
	db := newDryRunDB(t)
	id := uuid.NewString()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	ratings := []models.SubmissionRating{
		{SubmissionID: id, RaterID: "u-1", Score: 4, CreatedAt: now, UpdatedAt: now},
		{SubmissionID: id, RaterID: "u-2", Score: 2, CreatedAt: now, UpdatedAt: now},
	}

	stmt := ratingsUpsert(db, ratings)
	require.NoError(t, stmt.Error)
	sql := stmt.Statement.SQL.String()

	assert.True(t, strings.HasPrefix(sql, `INSERT INTO "submission_ratings"`), sql)
	assert.Contains(t, sql, `ON CONFLICT ("submission_id","rater_id") DO UPDATE SET`)
	assert.Contains(t, sql, `"score"="excluded"."score"`)
	assert.Contains(t, sql, `"updated_at"="excluded"."updated_at"`)
	assert.NotContains(t, sql, `"created_at"="excluded"`, "first rating time is kept")
	assert.Len(t, stmt.Statement.Vars, 10)
}

func TestUpsertRatings_EmptyIsNoop(t *testing.T) {
	assert.NoError(t, upsertRatings(newDryRunDB(t), nil))
}

func TestDeleteRatingsOf_ScopedToSubmission(t *testing.T) {
	db := newDryRunDB(t)
	id := uuid.NewString()

	stmt := deleteRatingsOf(db, id)
	require.NoError(t, stmt.Error)

	assert.Equal(t, `DELETE FROM "submission_ratings" WHERE submission_id = $1`, stmt.Statement.SQL.String())
	assert.Equal(t, []interface{}{id}, stmt.Statement.Vars)
}
