package algorithms

import (
	"testing"

	"lumina_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func ratings(scores ...int) []models.SubmissionRating {
	out := make([]models.SubmissionRating, 0, len(scores))
	for i, s := range scores {
		out = append(out, models.SubmissionRating{RaterID: string(rune('a' + i)), Score: s})
	}
	return out
}

func TestAggregateRatings(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		avg    float64
		count  int
	}{
		{"empty", nil, 0, 0},
		{"single", []int{5}, 5.0, 1},
		{"exact", []int{4, 2}, 3.0, 2},
		{"repeating third rounds down", []int{1, 1, 2}, 1.3, 3},   // 1.333
		{"two thirds rounds up", []int{1, 2, 2}, 1.7, 3},          // 1.666
		{"quarter rounds up", []int{1, 1, 1, 2}, 1.3, 4},          // 1.25
		{"eighths", []int{1, 1, 1, 2, 2, 2, 2, 2}, 1.6, 8},        // 1.625
		{"three quarters", []int{4, 4, 4, 3}, 3.8, 4},             // 3.75
		{"all fives", []int{5, 5, 5, 5}, 5.0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateRatings(ratings(tt.scores...))
			assert.Equal(t, tt.avg, got.AverageScore)
			assert.Equal(t, tt.count, got.RatingCount)
		})
	}
}

func TestAggregateRatings_MatchesFloatRounding(t *testing.T) {
	// Все комбинации из трех оценок: целочисленный путь совпадает с RoundHalfUp1
	for a := 1; a <= 5; a++ {
		for b := 1; b <= 5; b++ {
			for c := 1; c <= 5; c++ {
				got := AggregateRatings(ratings(a, b, c))
				want := RoundHalfUp1(float64(a+b+c) / 3)
				assert.Equal(t, want, got.AverageScore, "scores %d,%d,%d", a, b, c)
			}
		}
	}
}

func TestRoundHalfUp1(t *testing.T) {
	assert.Equal(t, 2.3, RoundHalfUp1(2.25))
	assert.Equal(t, 2.4, RoundHalfUp1(2.44))
	assert.Equal(t, 0.0, RoundHalfUp1(0))
}

func TestVerifySummary(t *testing.T) {
	sub := &models.Submission{Ratings: ratings(4, 2), AverageScore: 3.0, RatingCount: 2}
	assert.True(t, VerifySummary(sub))

	sub.AverageScore = 2.9
	assert.False(t, VerifySummary(sub))

	assert.True(t, VerifySummary(&models.Submission{}))
}
