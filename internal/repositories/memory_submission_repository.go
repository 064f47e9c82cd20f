package repositories

import (
	"context"
	"sort"
	"sync"

	"lumina_backend/internal/models"
)

// MemorySubmissionRepository - хранилище в памяти (database.driver: memory и тесты).
// Каждое чтение и запись работают с глубокими копиями.
type MemorySubmissionRepository struct {
	mu          sync.RWMutex
	submissions map[string]*models.Submission
}

func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{submissions: make(map[string]*models.Submission)}
}

func (r *MemorySubmissionRepository) Create(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions[submission.ID] = submission.Clone()
	return nil
}

func (r *MemorySubmissionRepository) FindByID(_ context.Context, id string) (*models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.submissions[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	return s.Clone(), nil
}

func (r *MemorySubmissionRepository) FindByStatus(_ context.Context, status *models.SubmissionStatus) ([]*models.Submission, error) {
	r.mu.RLock()
	result := make([]*models.Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		if status != nil && s.Status != *status {
			continue
		}
		result = append(result, s.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *MemorySubmissionRepository) Save(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[submission.ID]; !ok {
		return ErrSubmissionNotFound
	}
	r.submissions[submission.ID] = submission.Clone()
	return nil
}

func (r *MemorySubmissionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[id]; !ok {
		return ErrSubmissionNotFound
	}
	delete(r.submissions, id)
	return nil
}

func (r *MemorySubmissionRepository) Ping(context.Context) error {
	return nil
}
