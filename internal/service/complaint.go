package service

import (
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/render"
)

type ComplaintService interface {
	Create(author domain.User, title, description string) (domain.Complaint, error)
	Get(id string, requester domain.User) (domain.Complaint, error)
	My(userId domain.UserId) ([]domain.Complaint, error)
	ForCommunity(communityId domain.CommunityId) ([]domain.Complaint, error)
	UpdateStatus(id string, status string, communityId domain.CommunityId) error
	MarkRead(id string, communityId domain.CommunityId) error
	Delete(id string, userId domain.UserId) error
}

type ComplaintStorage interface {
	SaveComplaint(c domain.Complaint) (string, error)
	Complaint(id string) (domain.Complaint, error)
	ComplaintsByUser(userId domain.UserId) ([]domain.Complaint, error)
	ComplaintsByCommunity(communityId domain.CommunityId) ([]domain.Complaint, error)
	UpdateComplaintStatus(id string, status string, communityId domain.CommunityId) error
	MarkComplaintRead(id string, communityId domain.CommunityId) error
	DeleteComplaint(id string, userId domain.UserId) error
}

type Complaint struct {
	storage ComplaintStorage
	text    *render.TextProcessor
}

func NewComplaint(storage ComplaintStorage, text *render.TextProcessor) *Complaint {
	return &Complaint{storage, text}
}

func (s *Complaint) Create(author domain.User, title, description string) (domain.Complaint, error) {
	title = render.Sanitize(title)
	if title == "" {
		return domain.Complaint{}, &internal_errors.ErrorWithStatusCode{Message: "Complaint title is required", StatusCode: http.StatusBadRequest}
	}

	c := domain.Complaint{
		Title:       title,
		Description: s.text.RenderHTML(description),
		Status:      domain.ComplaintOpen,
		UserId:      author.Id,
		CommunityId: author.CommunityId,
	}

	id, err := s.storage.SaveComplaint(c)
	if err != nil {
		return domain.Complaint{}, err
	}
	c.Id = id
	return c, nil
}

// Get returns a single complaint to its author. Board members use the
// community listing instead.
func (s *Complaint) Get(id string, requester domain.User) (domain.Complaint, error) {
	c, err := s.storage.Complaint(id)
	if err != nil {
		return domain.Complaint{}, err
	}
	if c.UserId != requester.Id {
		return domain.Complaint{}, &internal_errors.ErrorWithStatusCode{Message: "Access denied", StatusCode: http.StatusForbidden}
	}
	return c, nil
}

func (s *Complaint) My(userId domain.UserId) ([]domain.Complaint, error) {
	return s.storage.ComplaintsByUser(userId)
}

// ForCommunity lists every complaint in the community, newest first.
// Board-only; the router enforces the role.
func (s *Complaint) ForCommunity(communityId domain.CommunityId) ([]domain.Complaint, error) {
	return s.storage.ComplaintsByCommunity(communityId)
}

func (s *Complaint) UpdateStatus(id string, status string, communityId domain.CommunityId) error {
	if !domain.ValidComplaintStatus(status) {
		return &internal_errors.ErrorWithStatusCode{Message: "Unknown complaint status", StatusCode: http.StatusBadRequest}
	}
	return s.storage.UpdateComplaintStatus(id, status, communityId)
}

func (s *Complaint) MarkRead(id string, communityId domain.CommunityId) error {
	return s.storage.MarkComplaintRead(id, communityId)
}

// Delete removes the author's own complaint.
func (s *Complaint) Delete(id string, userId domain.UserId) error {
	return s.storage.DeleteComplaint(id, userId)
}
