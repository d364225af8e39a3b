package service

import (
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
)

type UserService interface {
	Directory(viewer domain.User) ([]domain.DirectoryEntry, error)
	SetDirectoryVisibility(userId domain.UserId, visible bool) error
	Dashboard(communityId domain.CommunityId) (domain.DashboardMetrics, error)
	UpgradeTier(userId domain.UserId, tier string) error
}

type UserStorage interface {
	DirectoryEntries(communityId domain.CommunityId, fullView bool) ([]domain.DirectoryEntry, error)
	SetDirectoryVisibility(userId domain.UserId, visible bool) error
	DashboardMetrics(communityId domain.CommunityId) (domain.DashboardMetrics, error)
	UpdateUserTier(userId domain.UserId, tier string) error
}

type Users struct {
	storage UserStorage
}

func NewUsers(storage UserStorage) *Users {
	return &Users{storage}
}

// Directory lists community members. Board and admin viewers see every
// member with full names; residents see only opted-in neighbors, last
// names abbreviated to an initial.
func (s *Users) Directory(viewer domain.User) ([]domain.DirectoryEntry, error) {
	fullView := viewer.Role == domain.RoleBoard || viewer.Role == domain.RoleAdmin
	return s.storage.DirectoryEntries(viewer.CommunityId, fullView)
}

func (s *Users) SetDirectoryVisibility(userId domain.UserId, visible bool) error {
	return s.storage.SetDirectoryVisibility(userId, visible)
}

func (s *Users) Dashboard(communityId domain.CommunityId) (domain.DashboardMetrics, error) {
	return s.storage.DashboardMetrics(communityId)
}

// UpgradeTier switches the user's subscription tier. Any valid tier is
// accepted in either direction; billing is out of scope here.
func (s *Users) UpgradeTier(userId domain.UserId, tier string) error {
	if !domain.ValidTier(tier) {
		return &internal_errors.ErrorWithStatusCode{Message: "Unknown subscription tier", StatusCode: http.StatusBadRequest}
	}
	return s.storage.UpdateUserTier(userId, tier)
}
