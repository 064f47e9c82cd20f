package models

import "time"

// Submission - работа в каталоге. Видимость определяется Status.
type Submission struct {
	BaseModel
	Title       string `gorm:"not null"`
	Creator     string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	OwnerID     string `gorm:"not null;index"`

	// Вложение: все четыре колонки заполнены вместе или все NULL
	FileName *string
	FilePath *string
	FileType *string
	FileSize *int64

	Status     SubmissionStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedAt *time.Time
	RejectedAt *time.Time

	// Кэш агрегата, пересчитывается только через algorithms.AggregateRatings
	AverageScore float64 `gorm:"not null;default:0"`
	RatingCount  int     `gorm:"not null;default:0"`

	Ratings []SubmissionRating `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

// SubmissionRating - оценка одного пользователя. Пара (SubmissionID, RaterID) уникальна.
type SubmissionRating struct {
	SubmissionID string    `gorm:"type:uuid;primaryKey"`
	RaterID      string    `gorm:"primaryKey"`
	Score        int       `gorm:"not null;check:score >= 1 AND score <= 5"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// FileDescriptor - описание сохраненного файла, выдается файловым хранилищем
type FileDescriptor struct {
	Name      string
	Path      string
	MediaType string
	Size      int64
}

// Complete - все четыре поля заполнены
func (fd *FileDescriptor) Complete() bool {
	return fd.Name != "" && fd.Path != "" && fd.MediaType != "" && fd.Size > 0
}

// File возвращает вложение или nil
func (s *Submission) File() *FileDescriptor {
	if s.FilePath == nil {
		return nil
	}
	fd := &FileDescriptor{Path: *s.FilePath}
	if s.FileName != nil {
		fd.Name = *s.FileName
	}
	if s.FileType != nil {
		fd.MediaType = *s.FileType
	}
	if s.FileSize != nil {
		fd.Size = *s.FileSize
	}
	return fd
}

// AttachFile заполняет все колонки вложения (или очищает их при nil)
func (s *Submission) AttachFile(fd *FileDescriptor) {
	if fd == nil {
		s.FileName, s.FilePath, s.FileType, s.FileSize = nil, nil, nil, nil
		return
	}
	name, path, mediaType, size := fd.Name, fd.Path, fd.MediaType, fd.Size
	s.FileName, s.FilePath, s.FileType, s.FileSize = &name, &path, &mediaType, &size
}

// IsVisibleTo - единый предикат видимости для всех путей чтения
func (s *Submission) IsVisibleTo(callerID string, role UserRole) bool {
	if s.Status == SubmissionStatusApproved {
		return true
	}
	if role == UserRoleModerator {
		return true
	}
	return callerID != "" && callerID == s.OwnerID
}

// RatingBy возвращает оценку пользователя, если она есть
func (s *Submission) RatingBy(raterID string) (int, bool) {
	for _, r := range s.Ratings {
		if r.RaterID == raterID {
			return r.Score, true
		}
	}
	return 0, false
}

// Clone - глубокая копия (вложенные указатели и срез оценок)
func (s *Submission) Clone() *Submission {
	cp := *s
	cp.FileName = clonePtr(s.FileName)
	cp.FilePath = clonePtr(s.FilePath)
	cp.FileType = clonePtr(s.FileType)
	cp.FileSize = clonePtr(s.FileSize)
	cp.ApprovedAt = clonePtr(s.ApprovedAt)
	cp.RejectedAt = clonePtr(s.RejectedAt)
	if s.Ratings != nil {
		cp.Ratings = make([]SubmissionRating, len(s.Ratings))
		copy(cp.Ratings, s.Ratings)
	}
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
