package algorithms

import (
	"math"

	"lumina_backend/internal/models"
)

// RatingSummary - агрегат набора оценок
type RatingSummary struct {
	AverageScore float64
	RatingCount  int
}

// AggregateRatings считает среднее (округление half-up до 0.1) и количество оценок.
// Пустой набор дает {0, 0}. Диапазон оценок проверяется до вставки, здесь не валидируется.
func AggregateRatings(ratings []models.SubmissionRating) RatingSummary {
	count := len(ratings)
	if count == 0 {
		return RatingSummary{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}

	// Десятые доли в целых числах: round(10*sum/count) = floor((20*sum + count) / (2*count))
	tenths := (20*sum + count) / (2 * count)
	return RatingSummary{
		AverageScore: float64(tenths) / 10,
		RatingCount:  count,
	}
}

// RoundHalfUp1 округляет неотрицательное значение до одного знака после запятой
func RoundHalfUp1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// VerifySummary проверяет, что кэш агрегата совпадает с пересчетом по набору оценок
func VerifySummary(sub *models.Submission) bool {
	want := AggregateRatings(sub.Ratings)
	return sub.RatingCount == want.RatingCount && sub.AverageScore == want.AverageScore
}
