package pg

import (
	"database/sql"

	"github.com/hoahub-dev/hoahub/internal/domain"
)

// =========================================================================
// Public Methods (satisfy service.DocumentStorage)
// =========================================================================

func (s *Storage) SaveDocument(d domain.Document) (string, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var id string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveDocument(tx, d)
		return err
	})
	return id, err
}

func (s *Storage) DocumentsByCommunity(communityId domain.CommunityId, docType, titleQuery string) ([]domain.Document, error) {
	return s.documentsByCommunity(s.db, communityId, docType, titleQuery)
}

func (s *Storage) DeleteDocument(id string, communityId domain.CommunityId) error {
	ctx, cancel := opCtx()
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteDocument(tx, id, communityId)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveDocument(q Querier, d domain.Document) (string, error) {
	var id string
	err := q.QueryRow(`
        INSERT INTO documents(title, doc_type, file_url, uploader_id, community_id)
        VALUES($1, $2, $3, $4, $5) RETURNING id`,
		d.Title, d.Type, d.FileURL, d.UploaderId, d.CommunityId,
	).Scan(&id)
	if err != nil {
		return "", storageErr(err, "failed to insert document")
	}
	return id, nil
}

func (s *Storage) documentsByCommunity(q Querier, communityId domain.CommunityId, docType, titleQuery string) ([]domain.Document, error) {
	rows, err := q.Query(`
        SELECT id, title, doc_type, file_url, uploader_id, community_id, (created_at at time zone 'utc')
        FROM documents
        WHERE community_id = $1
          AND ($2 = '' OR doc_type = $2)
          AND ($3 = '' OR title ILIKE '%' || $3 || '%')
        ORDER BY created_at DESC`, communityId, docType, titleQuery)
	if err != nil {
		return nil, storageErr(err, "failed to query documents")
	}
	defer rows.Close()

	documents := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.Id, &d.Title, &d.Type, &d.FileURL, &d.UploaderId, &d.CommunityId, &d.CreatedAt); err != nil {
			return nil, storageErr(err, "failed to scan document")
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func (s *Storage) deleteDocument(q Querier, id string, communityId domain.CommunityId) error {
	result, err := q.Exec(`
        DELETE FROM documents WHERE id = $1 AND community_id = $2`, id, communityId)
	if err != nil {
		return storageErr(err, "failed to delete document")
	}
	return requireAffected(result, "Document not found")
}
