// Package moderation implements the review workflow for community submitted
// content. Plants and contributions enter the store with status pending and
// only become publicly visible after an admin decision made here. Approval of
// a contribution also drives the contributor's milestone badges.
package moderation

import (
	"fmt"
	"log/slog"

	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/errors"
	"github.com/mediplant/mediplant-go/internal/logging"
)

// Badge names awarded at contribution count milestones.
const (
	BadgeFirstContribution = "First Contribution"
	BadgeActiveContributor = "Active Contributor"
	BadgeKnowledgeKeeper   = "Knowledge Keeper"
)

// milestoneBadges maps an approved contribution count to the badge earned at
// that count. Awards are idempotent at the store level, so replays are safe.
var milestoneBadges = map[int]string{
	1:  BadgeFirstContribution,
	5:  BadgeActiveContributor,
	10: BadgeKnowledgeKeeper,
}

// Service coordinates status changes and badge awards over the datastore.
type Service struct {
	ds     datastore.Interface
	logger *slog.Logger
}

// NewService creates a moderation service backed by the given store.
func NewService(ds datastore.Interface) *Service {
	return &Service{
		ds:     ds,
		logger: logging.ForService("moderation"),
	}
}

// VerifyPlant marks a pending plant as verified, admitting it to the public
// listing.
func (s *Service) VerifyPlant(id string) (datastore.Plant, error) {
	return s.setPlantStatus(id, datastore.PlantVerified)
}

// RejectPlant marks a pending plant as rejected.
func (s *Service) RejectPlant(id string) (datastore.Plant, error) {
	return s.setPlantStatus(id, datastore.PlantRejected)
}

func (s *Service) setPlantStatus(id, status string) (datastore.Plant, error) {
	plant, err := s.ds.UpdatePlantStatus(id, status)
	if err != nil {
		return datastore.Plant{}, errors.New(fmt.Errorf("setting plant %s status to %s: %w", id, status, err)).
			Component("moderation").
			Category(errors.CategoryModeration).
			Context("plant_id", id).
			Context("status", status).
			Build()
	}
	s.logger.Info("plant status updated", "plant_id", plant.ID, "status", status)
	return plant, nil
}

// ApproveContribution approves a pending contribution, bumps the
// contributor's count and awards any milestone badge reached. Contributions
// submitted without a user account update no counters.
func (s *Service) ApproveContribution(id string) (datastore.Contribution, error) {
	contribution, err := s.ds.UpdateContributionStatus(id, datastore.ContributionApproved)
	if err != nil {
		return datastore.Contribution{}, errors.New(fmt.Errorf("approving contribution %s: %w", id, err)).
			Component("moderation").
			Category(errors.CategoryModeration).
			Context("contribution_id", id).
			Build()
	}
	s.logger.Info("contribution approved",
		"contribution_id", contribution.ID,
		"plant_id", contribution.PlantID,
		"user_id", contribution.UserID)

	if contribution.UserID != 0 {
		if err := s.creditContributor(contribution.UserID); err != nil {
			// The approval itself stands; surface the credit failure.
			return contribution, err
		}
	}
	return contribution, nil
}

// RejectContribution rejects a pending contribution. No counters change.
func (s *Service) RejectContribution(id string) (datastore.Contribution, error) {
	contribution, err := s.ds.UpdateContributionStatus(id, datastore.ContributionRejected)
	if err != nil {
		return datastore.Contribution{}, errors.New(fmt.Errorf("rejecting contribution %s: %w", id, err)).
			Component("moderation").
			Category(errors.CategoryModeration).
			Context("contribution_id", id).
			Build()
	}
	s.logger.Info("contribution rejected", "contribution_id", contribution.ID)
	return contribution, nil
}

// creditContributor bumps the user's contribution count and awards the badge
// for the milestone reached, if any.
func (s *Service) creditContributor(userID uint) error {
	user, err := s.ds.IncrementContributionCount(userID)
	if err != nil {
		return errors.New(fmt.Errorf("crediting contributor %d: %w", userID, err)).
			Component("moderation").
			Category(errors.CategoryDatabase).
			Context("user_id", userID).
			Build()
	}

	badge, ok := milestoneBadges[user.ContributionCount]
	if !ok {
		return nil
	}

	if _, err := s.ds.AddUserBadge(userID, badge); err != nil {
		return errors.New(fmt.Errorf("awarding badge %q to user %d: %w", badge, userID, err)).
			Component("moderation").
			Category(errors.CategoryDatabase).
			Context("user_id", userID).
			Context("badge", badge).
			Build()
	}
	s.logger.Info("badge awarded", "user_id", userID, "badge", badge, "contribution_count", user.ContributionCount)
	return nil
}
