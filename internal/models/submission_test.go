package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmission_IsVisibleTo(t *testing.T) {
	sub := &Submission{OwnerID: "owner", Status: SubmissionStatusPending}

	assert.False(t, sub.IsVisibleTo("", UserRoleAnonymous))
	assert.False(t, sub.IsVisibleTo("stranger", UserRoleMember))
	assert.True(t, sub.IsVisibleTo("owner", UserRoleMember))
	assert.True(t, sub.IsVisibleTo("mod", UserRoleModerator))

	sub.Status = SubmissionStatusRejected
	assert.False(t, sub.IsVisibleTo("stranger", UserRoleMember))

	sub.Status = SubmissionStatusApproved
	assert.True(t, sub.IsVisibleTo("", UserRoleAnonymous))
}

func TestSubmission_FileRoundTrip(t *testing.T) {
	sub := &Submission{}
	assert.Nil(t, sub.File())

	sub.AttachFile(&FileDescriptor{Name: "dune.pdf", Path: "submissions/u/x.pdf", MediaType: "application/pdf", Size: 42})
	assert.Equal(t, &FileDescriptor{Name: "dune.pdf", Path: "submissions/u/x.pdf", MediaType: "application/pdf", Size: 42}, sub.File())

	sub.AttachFile(nil)
	assert.Nil(t, sub.File())
	assert.Nil(t, sub.FileName)
	assert.Nil(t, sub.FileSize)
}

func TestSubmission_CloneIsDeep(t *testing.T) {
	now := time.Now()
	sub := &Submission{ApprovedAt: &now, Ratings: []SubmissionRating{{RaterID: "a", Score: 4}}}
	sub.AttachFile(&FileDescriptor{Name: "n", Path: "p", MediaType: "m", Size: 1})

	cp := sub.Clone()
	cp.Ratings[0].Score = 1
	*cp.FileName = "changed"
	later := now.Add(time.Hour)
	*cp.ApprovedAt = later

	assert.Equal(t, 4, sub.Ratings[0].Score)
	assert.Equal(t, "n", *sub.FileName)
	assert.Equal(t, now, *sub.ApprovedAt)
}

func TestDecision_Status(t *testing.T) {
	st, ok := DecisionApprove.Status()
	assert.True(t, ok)
	assert.Equal(t, SubmissionStatusApproved, st)

	st, ok = DecisionReject.Status()
	assert.True(t, ok)
	assert.Equal(t, SubmissionStatusRejected, st)

	_, ok = Decision("shelve").Status()
	assert.False(t, ok)
}
