package service

import (
	"net/http"
	"strings"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/render"
)

type MessageService interface {
	Send(sender domain.User, recipientEmail domain.Email, subject, body string) (domain.Message, error)
	Inbox(userId domain.UserId, page int) ([]domain.Message, error)
	MarkRead(id string, recipientId domain.UserId) error
	Respond(responder domain.User, id string, response string) error
	ForCommunity(communityId domain.CommunityId) ([]domain.Message, error)
}

type MessageStorage interface {
	SaveMessage(m domain.Message) (string, error)
	Inbox(userId domain.UserId, limit, offset int) ([]domain.Message, error)
	MessagesByCommunity(communityId domain.CommunityId) ([]domain.Message, error)
	MarkMessageRead(id string, recipientId domain.UserId) error
	RespondToMessage(id string, communityId domain.CommunityId, response, responderEmail string) error
	UserByEmail(email domain.Email) (domain.User, error)
}

type Message struct {
	storage MessageStorage
	text    *render.TextProcessor
	perPage int
}

func NewMessage(storage MessageStorage, text *render.TextProcessor, perPage int) *Message {
	return &Message{storage, text, perPage}
}

// Send delivers a message to another member of the sender's community.
// Bodies are markdown, rendered and sanitized at write time.
func (s *Message) Send(sender domain.User, recipientEmail domain.Email, subject, body string) (domain.Message, error) {
	recipientEmail = strings.ToLower(recipientEmail)

	recipient, err := s.storage.UserByEmail(recipientEmail)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "Recipient not found", StatusCode: http.StatusNotFound}
		}
		return domain.Message{}, err
	}
	if recipient.CommunityId != sender.CommunityId {
		return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "Recipient belongs to a different community", StatusCode: http.StatusForbidden}
	}
	if recipient.Id == sender.Id {
		return domain.Message{}, &internal_errors.ErrorWithStatusCode{Message: "Cannot message yourself", StatusCode: http.StatusBadRequest}
	}

	m := domain.Message{
		Subject:     render.Sanitize(subject),
		Body:        s.text.RenderHTML(body),
		SenderId:    sender.Id,
		SenderEmail: sender.Email,
		RecipientId: recipient.Id,
		CommunityId: sender.CommunityId,
	}

	id, err := s.storage.SaveMessage(m)
	if err != nil {
		return domain.Message{}, err
	}
	m.Id = id
	return m, nil
}

// Inbox pages through the user's received messages, newest first. Pages
// are 1-based; out-of-range pages return an empty slice.
func (s *Message) Inbox(userId domain.UserId, page int) ([]domain.Message, error) {
	if page < 1 {
		page = 1
	}
	return s.storage.Inbox(userId, s.perPage, (page-1)*s.perPage)
}

func (s *Message) MarkRead(id string, recipientId domain.UserId) error {
	return s.storage.MarkMessageRead(id, recipientId)
}

// Respond attaches a board member's reply to a message in their
// community. A second response overwrites the first.
func (s *Message) Respond(responder domain.User, id string, response string) error {
	response = s.text.RenderHTML(response)
	if response == "" {
		return &internal_errors.ErrorWithStatusCode{Message: "Response text is required", StatusCode: http.StatusBadRequest}
	}
	return s.storage.RespondToMessage(id, responder.CommunityId, response, responder.Email)
}

// ForCommunity lists every message in the community, newest first.
// Board-only; the router enforces the role.
func (s *Message) ForCommunity(communityId domain.CommunityId) ([]domain.Message, error) {
	return s.storage.MessagesByCommunity(communityId)
}
