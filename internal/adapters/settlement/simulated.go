package settlement

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
)

// SimulatedGateway simulates the external settlement processor for development
// and testing. Both operations are idempotent: re-initiating a payout returns
// the original reference, and confirming an already-confirmed reference is a
// no-op.
type SimulatedGateway struct {
	failureRate    int // percentage 0-100
	processingTime time.Duration

	mu        sync.Mutex
	initiated map[string]string // payout id -> reference
	confirmed map[string]bool   // reference -> settled
}

// NewSimulatedGateway creates a new simulated gateway
func NewSimulatedGateway(failureRate int, processingTime time.Duration) *SimulatedGateway {
	return &SimulatedGateway{
		failureRate:    failureRate,
		processingTime: processingTime,
		initiated:      make(map[string]string),
		confirmed:      make(map[string]bool),
	}
}

// InitiatePayout hands the payout to the simulated processor
func (g *SimulatedGateway) InitiatePayout(ctx context.Context, payout *models.Payout) (*ports.SettlementResult, error) {
	select {
	case <-time.After(g.processingTime):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if ref, ok := g.initiated[payout.ID]; ok {
		return &ports.SettlementResult{Reference: ref, AcceptedAt: time.Now()}, nil
	}

	if g.shouldFail() {
		return nil, fmt.Errorf("simulated failure: recipient account not found")
	}

	ref := fmt.Sprintf("SIM_%d", time.Now().UnixNano())
	g.initiated[payout.ID] = ref
	return &ports.SettlementResult{Reference: ref, AcceptedAt: time.Now()}, nil
}

// ConfirmPayout confirms final settlement of an initiated payout
func (g *SimulatedGateway) ConfirmPayout(ctx context.Context, reference string) error {
	if reference == "" {
		return fmt.Errorf("settlement reference is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.confirmed[reference] = true
	return nil
}

func (g *SimulatedGateway) shouldFail() bool {
	if g.failureRate <= 0 {
		return false
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(100))
	return int(n.Int64()) < g.failureRate
}

var _ ports.SettlementGateway = (*SimulatedGateway)(nil)
