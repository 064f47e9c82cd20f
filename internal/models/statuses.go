package models

type SubmissionStatus string
type UserRole string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"

	// Роль anonymous не хранится в токене: это отсутствие идентичности
	UserRoleAnonymous UserRole = "anonymous"
	UserRoleMember    UserRole = "member"
	UserRoleModerator UserRole = "moderator"
)

// Valid проверяет, что статус входит в {pending, approved, rejected}
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected:
		return true
	default:
		return false
	}
}

// Valid проверяет, что роль известна
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAnonymous, UserRoleMember, UserRoleModerator:
		return true
	default:
		return false
	}
}

// Decision - решение модератора
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status возвращает статус, к которому приводит решение
func (d Decision) Status() (SubmissionStatus, bool) {
	switch d {
	case DecisionApprove:
		return SubmissionStatusApproved, true
	case DecisionReject:
		return SubmissionStatusRejected, true
	default:
		return "", false
	}
}
