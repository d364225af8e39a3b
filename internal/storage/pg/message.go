package pg

import (
	"database/sql"

	"github.com/hoahub-dev/hoahub/internal/domain"
)

// =========================================================================
// Public Methods (satisfy service.MessageStorage)
// =========================================================================

func (s *Storage) SaveMessage(m domain.Message) (string, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var id string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveMessage(tx, m)
		return err
	})
	return id, err
}

func (s *Storage) Inbox(userId domain.UserId, limit, offset int) ([]domain.Message, error) {
	return s.inbox(s.db, userId, limit, offset)
}

func (s *Storage) MessagesByCommunity(communityId domain.CommunityId) ([]domain.Message, error) {
	return s.messages(s.db, `WHERE community_id = $1 ORDER BY created_at DESC`, communityId)
}

func (s *Storage) MarkMessageRead(id string, recipientId domain.UserId) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.markMessageRead(tx, id, recipientId)
	})
}

func (s *Storage) RespondToMessage(id string, communityId domain.CommunityId, response, responderEmail string) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.respondToMessage(tx, id, communityId, response, responderEmail)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveMessage(q Querier, m domain.Message) (string, error) {
	var id string
	err := q.QueryRow(`
        INSERT INTO messages(subject, body, sender_id, sender_email, recipient_id, community_id)
        VALUES($1, $2, $3, $4, $5, $6) RETURNING id`,
		m.Subject, m.Body, m.SenderId, m.SenderEmail, m.RecipientId, m.CommunityId,
	).Scan(&id)
	if err != nil {
		return "", storageErr(err, "failed to insert message")
	}
	return id, nil
}

const messageColumns = `id, subject, body, sender_id, sender_email, recipient_id, community_id,
               read, (read_at at time zone 'utc'), response, responded_by, (responded_at at time zone 'utc'),
               (created_at at time zone 'utc')`

func (s *Storage) inbox(q Querier, userId domain.UserId, limit, offset int) ([]domain.Message, error) {
	return s.messages(q, `WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userId, limit, offset)
}

// messages runs a select with a caller-supplied clause. clause is always a
// compile-time constant, never user input.
func (s *Storage) messages(q Querier, clause string, args ...interface{}) ([]domain.Message, error) {
	rows, err := q.Query(`SELECT `+messageColumns+` FROM messages `+clause, args...)
	if err != nil {
		return nil, storageErr(err, "failed to query messages")
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Id, &m.Subject, &m.Body, &m.SenderId, &m.SenderEmail, &m.RecipientId, &m.CommunityId,
			&m.Read, &m.ReadAt, &m.Response, &m.RespondedBy, &m.RespondedAt, &m.CreatedAt); err != nil {
			return nil, storageErr(err, "failed to scan message")
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Storage) markMessageRead(q Querier, id string, recipientId domain.UserId) error {
	result, err := q.Exec(`
        UPDATE messages SET read = TRUE, read_at = NOW() WHERE id = $1 AND recipient_id = $2`,
		id, recipientId)
	if err != nil {
		return storageErr(err, "failed to mark message read")
	}
	return requireAffected(result, "Message not found")
}

func (s *Storage) respondToMessage(q Querier, id string, communityId domain.CommunityId, response, responderEmail string) error {
	result, err := q.Exec(`
        UPDATE messages SET response = $1, responded_by = $2, responded_at = NOW()
        WHERE id = $3 AND community_id = $4`,
		response, responderEmail, id, communityId)
	if err != nil {
		return storageErr(err, "failed to respond to message")
	}
	return requireAffected(result, "Message not found")
}
