package dto

import (
	"time"

	"lumina_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

// CreateSubmissionRequest - поля multipart-формы; файл передается отдельно (поле "file")
type CreateSubmissionRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=300"`
	Creator     string `form:"creator" json:"creator" validate:"required,max=200"`
	Description string `form:"description" json:"description" validate:"required,max=5000"`
}

type RateSubmissionRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

// UpdateSubmissionRequest - отсутствующее поле не меняется
type UpdateSubmissionRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Creator     *string `json:"creator,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,is-submission-status"` // Custom rule
}

// ======================
// Response DTOs
// ======================

type FileResponse struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
}

type RatingResponse struct {
	RaterID string `json:"rater_id"`
	Score   int    `json:"score"`
}

type SubmissionResponse struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Creator      string                  `json:"creator"`
	Description  string                  `json:"description"`
	OwnerID      string                  `json:"owner_id"`
	File         *FileResponse           `json:"file"`
	Status       models.SubmissionStatus `json:"status"`
	AverageScore float64                 `json:"average_score"`
	RatingCount  int                     `json:"rating_count"`
	Ratings      []RatingResponse        `json:"ratings"`
	CreatedAt    time.Time               `json:"created_at"`
	ApprovedAt   *time.Time              `json:"approved_at"`
	RejectedAt   *time.Time              `json:"rejected_at"`
}

type RatingSummaryResponse struct {
	SubmissionID string  `json:"submission_id"`
	AverageScore float64 `json:"average_score"`
	RatingCount  int     `json:"rating_count"`
	YourScore    int     `json:"your_score"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSubmissionResponse - путь хранения файла наружу не отдается
func NewSubmissionResponse(s *models.Submission) *SubmissionResponse {
	resp := &SubmissionResponse{
		ID:           s.ID,
		Title:        s.Title,
		Creator:      s.Creator,
		Description:  s.Description,
		OwnerID:      s.OwnerID,
		Status:       s.Status,
		AverageScore: s.AverageScore,
		RatingCount:  s.RatingCount,
		Ratings:      make([]RatingResponse, 0, len(s.Ratings)),
		CreatedAt:    s.CreatedAt,
		ApprovedAt:   s.ApprovedAt,
		RejectedAt:   s.RejectedAt,
	}
	if fd := s.File(); fd != nil {
		resp.File = &FileResponse{Name: fd.Name, MediaType: fd.MediaType, Size: fd.Size}
	}
	for _, r := range s.Ratings {
		resp.Ratings = append(resp.Ratings, RatingResponse{RaterID: r.RaterID, Score: r.Score})
	}
	return resp
}

func NewSubmissionListResponse(items []*models.Submission) []*SubmissionResponse {
	result := make([]*SubmissionResponse, 0, len(items))
	for _, s := range items {
		result = append(result, NewSubmissionResponse(s))
	}
	return result
}
