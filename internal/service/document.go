package service

import (
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/render"
)

type DocumentService interface {
	Register(uploader domain.User, title, docType, fileURL string) (domain.Document, error)
	ForCommunity(communityId domain.CommunityId, docType, titleQuery string) ([]domain.Document, error)
	Delete(id string, communityId domain.CommunityId) error
}

type DocumentStorage interface {
	SaveDocument(d domain.Document) (string, error)
	DocumentsByCommunity(communityId domain.CommunityId, docType, titleQuery string) ([]domain.Document, error)
	DeleteDocument(id string, communityId domain.CommunityId) error
}

// Document keeps the community's governing-document registry. Records are
// metadata plus an external file URL; HoaHub never stores the files.
type Document struct {
	storage DocumentStorage
}

func NewDocument(storage DocumentStorage) *Document {
	return &Document{storage}
}

func (s *Document) Register(uploader domain.User, title, docType, fileURL string) (domain.Document, error) {
	title = render.Sanitize(title)
	if title == "" {
		return domain.Document{}, &internal_errors.ErrorWithStatusCode{Message: "Document title is required", StatusCode: http.StatusBadRequest}
	}
	if !domain.ValidDocumentType(docType) {
		return domain.Document{}, &internal_errors.ErrorWithStatusCode{Message: "Unknown document type", StatusCode: http.StatusBadRequest}
	}
	if uploader.Role == domain.RoleResident && !domain.ResidentDocumentType(docType) {
		return domain.Document{}, &internal_errors.ErrorWithStatusCode{Message: "Residents may only register CC&R and bylaws documents", StatusCode: http.StatusForbidden}
	}

	d := domain.Document{
		Title:       title,
		Type:        docType,
		FileURL:     fileURL,
		UploaderId:  uploader.Id,
		CommunityId: uploader.CommunityId,
	}
	id, err := s.storage.SaveDocument(d)
	if err != nil {
		return domain.Document{}, err
	}
	d.Id = id
	return d, nil
}

// ForCommunity lists the community's records, optionally narrowed by type
// and a title substring.
func (s *Document) ForCommunity(communityId domain.CommunityId, docType, titleQuery string) ([]domain.Document, error) {
	if docType != "" && !domain.ValidDocumentType(docType) {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Unknown document type", StatusCode: http.StatusBadRequest}
	}
	return s.storage.DocumentsByCommunity(communityId, docType, titleQuery)
}

func (s *Document) Delete(id string, communityId domain.CommunityId) error {
	return s.storage.DeleteDocument(id, communityId)
}
