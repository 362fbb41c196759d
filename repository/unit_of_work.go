package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wagerbot/database"
	"wagerbot/events"
	"wagerbot/service"
)

// unitOfWork implements the UnitOfWork interface over one pgx transaction
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	wagerRepo        service.WagerRepository
	paymentRepo      service.PaymentRepository
	userStatsRepo    service.UserStatsRepository
	rankRepo         service.RankStateRepository
	disputeRepo      service.DisputeRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.wagerRepo = newWagerRepositoryWithTx(tx)
	u.paymentRepo = newPaymentRepositoryWithTx(tx)
	u.userStatsRepo = newUserStatsRepositoryWithTx(tx)
	u.rankRepo = newRankStateRepositoryWithTx(tx)
	u.disputeRepo = newDisputeRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction, then flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		u.transactionalBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return u.transactionalBus.Flush(u.ctx)
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// WagerRepository returns the wager repository for this unit of work
func (u *unitOfWork) WagerRepository() service.WagerRepository {
	if u.wagerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.wagerRepo
}

// PaymentRepository returns the payment repository for this unit of work
func (u *unitOfWork) PaymentRepository() service.PaymentRepository {
	if u.paymentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.paymentRepo
}

// UserStatsRepository returns the user stats repository for this unit of work
func (u *unitOfWork) UserStatsRepository() service.UserStatsRepository {
	if u.userStatsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userStatsRepo
}

// RankStateRepository returns the rank state repository for this unit of work
func (u *unitOfWork) RankStateRepository() service.RankStateRepository {
	if u.rankRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.rankRepo
}

// DisputeRepository returns the dispute repository for this unit of work
func (u *unitOfWork) DisputeRepository() service.DisputeRepository {
	if u.disputeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.disputeRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
