package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/payout-service/internal/auth"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
	"github.com/markethub/payout-service/pkg/observability"
)

// CommandService implements ports.PayoutCommandService. Every transition runs
// as one database transaction: lock the payout row, validate through the
// engine, write the new status and the ledger delta together. A losing
// concurrent request observes the already-applied status and fails with an
// invalid-state error.
type CommandService struct {
	db      ports.DBPort
	payouts ports.PayoutRepository
	ledgers ports.LedgerRepository
	gateway ports.SettlementGateway
	events  ports.EventPublisher
	cache   ports.SummaryCache
	engine  *Engine
	logger  ports.Logger
}

// NewCommandService creates a new payout command service. events and cache
// may be nil when the deployment runs without Kafka or Redis.
func NewCommandService(
	db ports.DBPort,
	payouts ports.PayoutRepository,
	ledgers ports.LedgerRepository,
	gateway ports.SettlementGateway,
	events ports.EventPublisher,
	cache ports.SummaryCache,
	logger ports.Logger,
) *CommandService {
	return &CommandService{
		db:      db,
		payouts: payouts,
		ledgers: ledgers,
		gateway: gateway,
		events:  events,
		cache:   cache,
		engine:  NewEngine(),
		logger:  logger,
	}
}

// RequestPayout creates a PENDING payout for the calling provider and reserves
// its amount from the available balance.
func (s *CommandService) RequestPayout(ctx context.Context, input ports.RequestPayoutInput) (*models.Payout, error) {
	actor, err := auth.RequireProvider(ctx)
	if err != nil {
		return nil, err
	}

	var created *models.Payout
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx ports.DBTX) error {
		ledger, err := s.ledgers.GetByProviderForUpdate(ctx, tx, actor.ProviderID)
		if err != nil {
			return err
		}

		payout, delta, err := s.engine.NewRequest(ledger, input)
		if err != nil {
			return err
		}

		if err := s.payouts.Create(ctx, tx, payout); err != nil {
			return err
		}
		if err := s.ledgers.ApplyDelta(ctx, tx, actor.ProviderID, delta); err != nil {
			return err
		}

		created = payout
		return nil
	})
	if err != nil {
		s.logger.Error("request payout failed",
			ports.String("provider_id", actor.ProviderID),
			ports.Err(err))
		return nil, err
	}

	s.afterTransition(ctx, created)
	s.logger.Info("payout requested",
		ports.String("payout_id", created.ID),
		ports.String("provider_id", created.ProviderID),
		ports.String("amount", created.Amount.String()),
		ports.String("method", string(created.Method)))
	return created, nil
}

// CancelPayout cancels the caller's own PENDING payout and releases the
// reservation. Cancelling another provider's payout is an authorization error.
func (s *CommandService) CancelPayout(ctx context.Context, payoutID string) (*models.Payout, error) {
	actor, err := auth.RequireProvider(ctx)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, payoutID, "cancel", func(p *models.Payout) (*models.LedgerDelta, error) {
		if p.ProviderID != actor.ProviderID {
			return nil, domain.ErrAuthNotOwner
		}
		delta, err := s.engine.Cancel(p)
		if err != nil {
			return nil, err
		}
		return &delta, nil
	})
}

// ApprovePayout approves a PENDING payout with optional admin notes. The
// reservation stays in place until a terminal transition.
func (s *CommandService) ApprovePayout(ctx context.Context, payoutID, notes string) (*models.Payout, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	return s.transition(ctx, payoutID, "approve", func(p *models.Payout) (*models.LedgerDelta, error) {
		return nil, s.engine.Approve(p, notes)
	})
}

// RejectPayout rejects a PENDING payout and returns the reservation to the
// available balance.
func (s *CommandService) RejectPayout(ctx context.Context, payoutID, reason string) (*models.Payout, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	return s.transition(ctx, payoutID, "reject", func(p *models.Payout) (*models.LedgerDelta, error) {
		delta, err := s.engine.Reject(p, reason)
		if err != nil {
			return nil, err
		}
		return &delta, nil
	})
}

// ProcessPayout hands an APPROVED payout to the settlement gateway. A gateway
// failure aborts the transaction and leaves the payout APPROVED so the admin
// can retry or reject.
func (s *CommandService) ProcessPayout(ctx context.Context, payoutID, referenceNumber string) (*models.Payout, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	return s.transition(ctx, payoutID, "process", func(p *models.Payout) (*models.LedgerDelta, error) {
		if err := s.engine.Process(p, referenceNumber); err != nil {
			return nil, err
		}

		result, err := s.gateway.InitiatePayout(ctx, p)
		if err != nil {
			return nil, domain.WrapError(domain.ErrorCodeSettlementError,
				"settlement provider rejected the payout", err)
		}
		if p.ReferenceNumber == "" {
			p.ReferenceNumber = result.Reference
		}
		return nil, nil
	})
}

// MarkPayoutPaid settles a PROCESSING payout: the reservation becomes a
// permanent deduction (totalPayouts grows, pendingPayouts shrinks).
func (s *CommandService) MarkPayoutPaid(ctx context.Context, payoutID, referenceNumber string) (*models.Payout, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	return s.transition(ctx, payoutID, "mark paid", func(p *models.Payout) (*models.LedgerDelta, error) {
		delta, err := s.engine.MarkPaid(p, referenceNumber)
		if err != nil {
			return nil, err
		}
		if err := s.gateway.ConfirmPayout(ctx, p.ReferenceNumber); err != nil {
			return nil, domain.WrapError(domain.ErrorCodeSettlementError,
				"settlement confirmation failed", err)
		}
		return &delta, nil
	})
}

// MarkPayoutFailed records settlement failure of a PROCESSING payout and
// releases its reservation.
func (s *CommandService) MarkPayoutFailed(ctx context.Context, payoutID, reason string) (*models.Payout, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	return s.transition(ctx, payoutID, "mark failed", func(p *models.Payout) (*models.LedgerDelta, error) {
		delta, err := s.engine.MarkFailed(p, reason)
		if err != nil {
			return nil, err
		}
		return &delta, nil
	})
}

// transition runs the shared check-and-apply cycle: lock the payout row,
// mutate it through apply, persist the version-guarded update and the ledger
// delta in the same transaction.
func (s *CommandService) transition(
	ctx context.Context,
	payoutID, action string,
	apply func(p *models.Payout) (*models.LedgerDelta, error),
) (*models.Payout, error) {
	if _, err := uuid.Parse(payoutID); err != nil {
		return nil, domain.ErrPayoutNotFound
	}

	var updated *models.Payout
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx ports.DBTX) error {
		payout, err := s.payouts.GetByIDForUpdate(ctx, tx, payoutID)
		if err != nil {
			return err
		}

		delta, err := apply(payout)
		if err != nil {
			return err
		}

		if err := s.payouts.UpdateTransition(ctx, tx, payout); err != nil {
			return err
		}
		if delta != nil {
			if err := s.ledgers.ApplyDelta(ctx, tx, payout.ProviderID, *delta); err != nil {
				return err
			}
		}

		updated = payout
		return nil
	})
	if err != nil {
		s.logger.Warn("payout transition rejected",
			ports.String("payout_id", payoutID),
			ports.String("action", action),
			ports.Err(err))
		return nil, err
	}

	s.afterTransition(ctx, updated)
	s.logger.Info("payout transition applied",
		ports.String("payout_id", updated.ID),
		ports.String("provider_id", updated.ProviderID),
		ports.String("action", action),
		ports.String("status", string(updated.Status)))
	return updated, nil
}

// afterTransition runs the post-commit side effects: cache invalidation,
// metrics, event publishing. None of these can fail the transition.
func (s *CommandService) afterTransition(ctx context.Context, p *models.Payout) {
	observability.RecordPayoutTransition(string(p.Status), string(p.Method), p.Amount)

	if s.cache != nil {
		s.cache.Invalidate(ctx, p.ProviderID)
	}

	if s.events != nil {
		event := models.PayoutEvent{
			EventID:    uuid.New().String(),
			Type:       models.EventTypeForStatus(p.Status),
			PayoutID:   p.ID,
			ProviderID: p.ProviderID,
			Amount:     p.Amount,
			Currency:   p.Currency,
			Status:     p.Status,
			OccurredAt: time.Now(),
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("payout event publish failed",
				ports.String("payout_id", p.ID),
				ports.String("event_type", string(event.Type)),
				ports.Err(err))
		}
	}
}
