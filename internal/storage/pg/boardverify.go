package pg

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/lib/pq"
)

// =========================================================================
// Public Methods (satisfy service.BoardVerificationStorage)
// =========================================================================

func (s *Storage) SaveVerificationRequest(req domain.BoardVerificationRequest) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveVerificationRequest(tx, req)
	})
}

func (s *Storage) VerificationRequest(id domain.RequestId) (domain.BoardVerificationRequest, error) {
	return s.verificationRequest(s.db, "id", id)
}

func (s *Storage) VerificationRequestByCandidate(candidateId domain.UserId) (domain.BoardVerificationRequest, error) {
	return s.verificationRequest(s.db, "candidate_id", candidateId)
}

// AddApproval inserts the approver and returns the resulting approval
// count in one transaction, so concurrent approvals can't observe a
// half-updated tally.
func (s *Storage) AddApproval(id domain.RequestId, approverId domain.UserId) (int, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var count int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		count, err = s.addApproval(tx, id, approverId)
		return err
	})
	return count, err
}

func (s *Storage) MarkVerified(id domain.RequestId) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.markVerified(tx, id)
	})
}

func (s *Storage) VerificationRequests(communityId domain.CommunityId) ([]domain.BoardVerificationRequest, error) {
	return s.verificationRequests(s.db, communityId)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveVerificationRequest(q Querier, req domain.BoardVerificationRequest) error {
	_, err := q.Exec(`
        INSERT INTO board_verification_requests(id, candidate_id, community_id, verified, created_at)
        VALUES($1, $2, $3, $4, $5)`,
		req.Id, req.CandidateId, req.CommunityId, req.Verified, req.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &internal_errors.ErrorWithStatusCode{Message: "A verification request already exists for this candidate", StatusCode: http.StatusConflict}
		}
		return storageErr(err, "failed to insert verification request")
	}
	return nil
}

// verificationRequest loads one request with its approver ids aggregated
// from the join table. column is a compile-time constant.
func (s *Storage) verificationRequest(q Querier, column string, value string) (domain.BoardVerificationRequest, error) {
	var req domain.BoardVerificationRequest
	var approvers pq.StringArray
	err := q.QueryRow(`
        SELECT r.id, r.candidate_id, r.community_id, r.verified, (r.created_at at time zone 'utc'),
               COALESCE(array_agg(a.approver_id) FILTER (WHERE a.approver_id IS NOT NULL), '{}')
        FROM board_verification_requests r
        LEFT JOIN board_verification_approvals a ON a.request_id = r.id
        WHERE r.`+column+` = $1
        GROUP BY r.id`, value,
	).Scan(&req.Id, &req.CandidateId, &req.CommunityId, &req.Verified, &req.CreatedAt, &approvers)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BoardVerificationRequest{}, &internal_errors.ErrorWithStatusCode{Message: "Verification request not found", StatusCode: http.StatusNotFound}
		}
		return domain.BoardVerificationRequest{}, storageErr(err, "failed to query verification request")
	}
	req.ApprovedBy = approvers
	return req, nil
}

func (s *Storage) addApproval(q Querier, id domain.RequestId, approverId domain.UserId) (int, error) {
	_, err := q.Exec(`
        INSERT INTO board_verification_approvals(request_id, approver_id)
        VALUES($1, $2)`, id, approverId)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "You already approved this request", StatusCode: http.StatusConflict}
		}
		return 0, storageErr(err, "failed to insert approval")
	}

	var count int
	err = q.QueryRow(`
        SELECT COUNT(*) FROM board_verification_approvals WHERE request_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, storageErr(err, "failed to count approvals")
	}
	return count, nil
}

// markVerified only ever flips false to true.
func (s *Storage) markVerified(q Querier, id domain.RequestId) error {
	result, err := q.Exec(`
        UPDATE board_verification_requests SET verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return storageErr(err, "failed to mark request verified")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr(err, "failed to check affected rows for verification update")
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Verification request not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) verificationRequests(q Querier, communityId domain.CommunityId) ([]domain.BoardVerificationRequest, error) {
	rows, err := q.Query(`
        SELECT r.id, r.candidate_id, r.community_id, r.verified, (r.created_at at time zone 'utc'),
               COALESCE(array_agg(a.approver_id) FILTER (WHERE a.approver_id IS NOT NULL), '{}')
        FROM board_verification_requests r
        LEFT JOIN board_verification_approvals a ON a.request_id = r.id
        WHERE r.community_id = $1
        GROUP BY r.id
        ORDER BY r.created_at`, communityId)
	if err != nil {
		return nil, storageErr(err, "failed to query verification requests")
	}
	defer rows.Close()

	reqs := []domain.BoardVerificationRequest{}
	for rows.Next() {
		var req domain.BoardVerificationRequest
		var approvers pq.StringArray
		if err := rows.Scan(&req.Id, &req.CandidateId, &req.CommunityId, &req.Verified, &req.CreatedAt, &approvers); err != nil {
			return nil, storageErr(err, "failed to scan verification request")
		}
		req.ApprovedBy = approvers
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
