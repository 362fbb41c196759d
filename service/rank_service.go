package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"wagerbot/events"
	"wagerbot/models"
)

type rankService struct {
	uowFactory UnitOfWorkFactory
	roleStore  RoleStore
	locks      userLocks
}

// NewRankService creates a new rank transition service
func NewRankService(uowFactory UnitOfWorkFactory, roleStore RoleStore) RankService {
	return &rankService{
		uowFactory: uowFactory,
		roleStore:  roleStore,
	}
}

// ApplyTransition compares the claimed current rank with the stored one under a row lock
// and stores the new rank only if they match. Claims for one user run one at a time,
// from the locked read until their role diff has been applied.
func (s *rankService) ApplyTransition(ctx context.Context, claim models.RankClaim) (*models.RankTransition, error) {
	claim, err := canonicalClaim(claim)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(claim.UserID)
	defer unlock()

	transition, err := s.storeTransition(ctx, claim)
	if err != nil {
		return nil, err
	}

	diff := transition.Diff
	if !diff.IsEmpty() && s.roleStore != nil {
		if err := s.roleStore.ApplyRoleDiff(ctx, claim.UserID, diff.Remove, diff.Add); err != nil {
			log.WithFields(log.Fields{
				"userID": claim.UserID,
				"remove": diff.Remove,
				"add":    diff.Add,
			}).Errorf("Failed to apply role diff: %v", err)
			transition.RoleSyncErr = err
		}
	}

	log.WithFields(log.Fields{
		"userID":   claim.UserID,
		"previous": transition.Previous.String(),
		"current":  transition.Current.String(),
	}).Info("Rank transition applied")

	return transition, nil
}

// storeTransition runs the compare-and-swap in one transaction. A rejected claim writes nothing.
func (s *rankService) storeTransition(ctx context.Context, claim models.RankClaim) (*models.RankTransition, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	repo := uow.RankStateRepository()
	stored, err := repo.GetForUpdate(ctx, claim.UserID)
	if err != nil {
		return nil, storeError("failed to get rank state", err)
	}

	if !stored.Matches(claim.OldRank, claim.OldTier) {
		return nil, s.reject(uow, claim, stored)
	}

	current := &models.RankState{
		UserID: claim.UserID,
		Rank:   claim.NewRank,
		Tier:   claim.NewTier,
	}
	swapped, err := repo.CompareAndSwap(ctx, claim.OldRank, claim.OldTier, current)
	if err != nil {
		return nil, storeError("failed to store rank state", err)
	}
	if !swapped {
		// Another writer created the row between the read and the swap
		latest, err := repo.GetByUserID(ctx, claim.UserID)
		if err != nil {
			return nil, storeError("failed to get rank state", err)
		}
		if latest == nil {
			latest = models.NewRankState(claim.UserID)
		}
		return nil, s.reject(uow, claim, latest)
	}

	diff := models.ComputeRoleDiff(claim)
	uow.EventBus().Publish(events.RankUpdatedEvent{
		UserID:       claim.UserID,
		OldRank:      string(claim.OldRank),
		OldTier:      string(claim.OldTier),
		NewRank:      string(claim.NewRank),
		NewTier:      string(claim.NewTier),
		RolesRemoved: diff.Remove,
		RolesAdded:   diff.Add,
	})

	if err := uow.Commit(); err != nil {
		return nil, storeError("failed to commit transaction", err)
	}

	previous := *stored
	return &models.RankTransition{
		UserID:   claim.UserID,
		Previous: &previous,
		Current:  current,
		Diff:     diff,
	}, nil
}

// reject commits the read-only transaction so the rejection event is delivered, then reports the mismatch
func (s *rankService) reject(uow UnitOfWork, claim models.RankClaim, stored *models.RankState) error {
	uow.EventBus().Publish(events.RankRejectedEvent{
		UserID:      claim.UserID,
		ClaimedRank: string(claim.OldRank),
		ClaimedTier: string(claim.OldTier),
		StoredRank:  string(stored.Rank),
		StoredTier:  string(stored.Tier),
	})
	if err := uow.Commit(); err != nil {
		return storeError("failed to commit transaction", err)
	}

	log.WithFields(log.Fields{
		"userID":  claim.UserID,
		"claimed": fmt.Sprintf("%s %s", claim.OldRank, claim.OldTier),
		"stored":  stored.String(),
	}).Info("Rank transition rejected")

	return newLedgerError(KindInvalidState, "<@%d> has %s %s, not %s %s",
		claim.UserID, stored.Rank, stored.Tier, claim.OldRank, claim.OldTier)
}

// canonicalClaim validates the claim and rewrites ranks and tiers in their stored spelling
func canonicalClaim(claim models.RankClaim) (models.RankClaim, error) {
	if claim.UserID == 0 {
		return claim, newLedgerError(KindValidation, "rank claim has no user")
	}

	var err error
	for _, r := range []*models.Rank{&claim.OldRank, &claim.NewRank} {
		if *r, err = models.ParseRank(string(*r)); err != nil {
			return claim, &LedgerError{Kind: KindValidation, Message: "invalid rank", Cause: err}
		}
	}
	for _, t := range []*models.Tier{&claim.OldTier, &claim.NewTier} {
		if *t, err = models.ParseTier(string(*t)); err != nil {
			return claim, &LedgerError{Kind: KindValidation, Message: "invalid tier", Cause: err}
		}
	}
	return claim.Normalize(), nil
}
