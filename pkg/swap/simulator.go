package swap

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"token-swap/pkg/types"
)

// FailureReasons are the rejections the simulator picks from.
var FailureReasons = []string{
	"Insufficient liquidity for this trade",
	"Slippage tolerance exceeded",
	"Transaction rejected by the network",
	"Network congestion, please try again",
}

// Simulator is an Executor with a random outcome. No funds move.
type Simulator struct {
	// SuccessRate is the probability in [0,1] that a swap succeeds.
	SuccessRate float64
	// Delay is how long a swap takes to resolve.
	Delay time.Duration
	// Rand drives outcomes; nil uses the global source.
	Rand *rand.Rand
	// Now stamps receipts; nil uses time.Now.
	Now func() time.Time

	mu sync.Mutex
}

// NewSimulator creates a simulator with the given success rate and delay
func NewSimulator(successRate float64, delay time.Duration) *Simulator {
	return &Simulator{SuccessRate: successRate, Delay: delay}
}

// Execute waits Delay, then succeeds with probability SuccessRate.
func (s *Simulator) Execute(ctx context.Context, from, to types.TokenRecord, amount string) (*types.Receipt, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	roll, pick := s.roll()
	if roll >= s.SuccessRate {
		return nil, &SubmissionFailure{Reason: FailureReasons[pick]}
	}

	id := uuid.NewString()
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return &types.Receipt{
		ID:         id,
		TxHash:     crypto.Keccak256Hash([]byte(id)).Hex(),
		From:       from.Currency,
		To:         to.Currency,
		Amount:     amount,
		ExecutedAt: now().UTC(),
	}, nil
}

// roll draws the outcome and, for failures, the reason index.
func (s *Simulator) roll() (float64, int) {
	if s.Rand == nil {
		return rand.Float64(), rand.IntN(len(FailureReasons))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Rand.Float64(), s.Rand.IntN(len(FailureReasons))
}
