package service

import (
	"net/http"
	"sync"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/logger"
)

var (
	ErrRequestNotFound = &internal_errors.ErrorWithStatusCode{Message: "Verification request not found", StatusCode: http.StatusNotFound}
	ErrRequestExists   = &internal_errors.ErrorWithStatusCode{Message: "A verification request already exists for this candidate", StatusCode: http.StatusConflict}
	ErrAlreadyApproved = &internal_errors.ErrorWithStatusCode{Message: "You already approved this request", StatusCode: http.StatusConflict}
	ErrCrossCommunity  = &internal_errors.ErrorWithStatusCode{Message: "Approver must belong to the candidate's community", StatusCode: http.StatusForbidden}
	ErrSelfApproval    = &internal_errors.ErrorWithStatusCode{Message: "Candidates cannot approve their own request", StatusCode: http.StatusBadRequest}
)

// BoardVerificationStorage is the persistence contract for verification
// requests. Approvals live in a join table so approver uniqueness is a
// storage-level guarantee, not just a service-level check.
type BoardVerificationStorage interface {
	SaveVerificationRequest(req domain.BoardVerificationRequest) error
	VerificationRequest(id domain.RequestId) (domain.BoardVerificationRequest, error)
	VerificationRequestByCandidate(candidateId domain.UserId) (domain.BoardVerificationRequest, error)
	// AddApproval inserts the approver and returns the resulting distinct
	// approval count, atomically.
	AddApproval(id domain.RequestId, approverId domain.UserId) (int, error)
	MarkVerified(id domain.RequestId) error
	VerificationRequests(communityId domain.CommunityId) ([]domain.BoardVerificationRequest, error)
	UpdateUserRole(userId domain.UserId, role string) error
}

// BoardVerification accumulates distinct peer approvals for a board
// candidacy until the quorum flips it to verified. Verified is monotonic:
// once reached it never reverts, and the candidate is promoted to the
// board role.
type BoardVerification struct {
	// One mutex for the whole workflow. Approval volume is tiny (a few
	// per community per election cycle), so per-request locking isn't
	// worth the bookkeeping.
	mu      sync.Mutex
	storage BoardVerificationStorage
	quorum  int
}

func NewBoardVerification(storage BoardVerificationStorage, quorum int) *BoardVerification {
	return &BoardVerification{storage: storage, quorum: quorum}
}

// SubmitRequest opens a verification request for the candidate. Only one
// active request per candidate is allowed, whether pending or verified.
func (b *BoardVerification) SubmitRequest(candidateId domain.UserId, communityId domain.CommunityId) (domain.RequestId, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.storage.VerificationRequestByCandidate(candidateId)
	if err == nil {
		return "", ErrRequestExists
	}
	if !internal_errors.IsNotFound(err) {
		return "", err
	}

	req := domain.NewBoardVerificationRequest(candidateId, communityId)
	if err := b.storage.SaveVerificationRequest(req); err != nil {
		return "", err
	}
	return req.Id, nil
}

// Approve records one approver's vote. The vote only counts when the
// approver belongs to the request's community, isn't the candidate, and
// hasn't voted before. Crossing the quorum threshold marks the request
// verified and promotes the candidate.
func (b *BoardVerification) Approve(id domain.RequestId, approver domain.User) (domain.VerificationStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req, err := b.storage.VerificationRequest(id)
	if err != nil {
		return domain.VerificationStatus{}, err
	}

	if approver.Id == req.CandidateId {
		return domain.VerificationStatus{}, ErrSelfApproval
	}
	if approver.CommunityId != req.CommunityId {
		return domain.VerificationStatus{}, ErrCrossCommunity
	}
	for _, id := range req.ApprovedBy {
		if id == approver.Id {
			return domain.VerificationStatus{}, ErrAlreadyApproved
		}
	}

	approvals, err := b.storage.AddApproval(req.Id, approver.Id)
	if err != nil {
		return domain.VerificationStatus{}, err
	}

	verified := req.Verified
	if !verified && approvals >= b.quorum {
		if err := b.storage.MarkVerified(req.Id); err != nil {
			return domain.VerificationStatus{}, err
		}
		if err := b.storage.UpdateUserRole(req.CandidateId, domain.RoleBoard); err != nil {
			return domain.VerificationStatus{}, err
		}
		verified = true
		logger.Log.Info("board candidate verified",
			"request_id", req.Id,
			"candidate_id", req.CandidateId,
			"approvals", approvals)
	}

	return domain.VerificationStatus{Verified: verified, Approvals: approvals}, nil
}

// Status reports a candidate's progress. A missing request is not an
// error: callers poll this before and after submitting.
func (b *BoardVerification) Status(candidateId domain.UserId) (domain.VerificationStatus, error) {
	req, err := b.storage.VerificationRequestByCandidate(candidateId)
	if internal_errors.IsNotFound(err) {
		return domain.VerificationStatus{}, nil
	}
	if err != nil {
		return domain.VerificationStatus{}, err
	}
	return domain.VerificationStatus{Verified: req.Verified, Approvals: req.Approvals()}, nil
}

// ListRequests returns all requests in a community ordered by creation time.
func (b *BoardVerification) ListRequests(communityId domain.CommunityId) ([]domain.BoardVerificationRequest, error) {
	return b.storage.VerificationRequests(communityId)
}
