package domain

import (
	"time"

	"github.com/google/uuid"
)

// BoardVerificationRequest tracks a candidate's progress toward the
// approval quorum. ApprovedBy holds distinct approver ids; Verified never
// reverts to false once set.
type BoardVerificationRequest struct {
	Id          RequestId
	CandidateId UserId
	CommunityId CommunityId
	ApprovedBy  []UserId
	Verified    bool
	CreatedAt   time.Time
}

func NewBoardVerificationRequest(candidateId UserId, communityId CommunityId) BoardVerificationRequest {
	return BoardVerificationRequest{
		Id:          uuid.NewString(),
		CandidateId: candidateId,
		CommunityId: communityId,
		CreatedAt:   time.Now().UTC(),
	}
}

// Approvals is the current distinct-approver count.
func (r *BoardVerificationRequest) Approvals() int {
	return len(r.ApprovedBy)
}

// VerificationStatus is the poll result for a candidate. Zero value means
// no request exists.
type VerificationStatus struct {
	Verified  bool `json:"verified"`
	Approvals int  `json:"approvals"`
}
