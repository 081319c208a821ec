package swap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"token-swap/pkg/quote"
	"token-swap/pkg/types"
)

// Phase is the submission lifecycle stage.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of the submission lifecycle.
type State struct {
	Phase   Phase
	Message string
	Receipt *types.Receipt
	// Attempt numbers accepted submits, starting at 1.
	Attempt int
}

// RejectReason explains why a submit was a no-op.
type RejectReason string

const (
	RejectInvalidAmount RejectReason = "amount must be a number greater than 0"
	RejectInFlight      RejectReason = "a swap is already pending"
	RejectNoSelection   RejectReason = "select both tokens first"
)

// Outcome is the result of a submit request.
type Outcome struct {
	Accepted bool
	Reason   RejectReason
	State    State
	// ClearInput asks the caller to clear the amount field.
	ClearInput bool
}

// Submission runs the Idle -> Pending -> Succeeded|Failed lifecycle around an
// Executor. Only one submit may be in flight; there is no automatic retry.
type Submission struct {
	exec Executor
	log  *zap.Logger

	mu    sync.Mutex
	state State
}

// NewSubmission creates an idle submission driving exec
func NewSubmission(exec Executor, log *zap.Logger) *Submission {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submission{exec: exec, log: log}
}

// State returns the current lifecycle snapshot
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset dismisses a finished outcome and returns to Idle. It does nothing
// while a swap is pending.
func (s *Submission) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == Pending {
		return
	}
	s.state = State{Phase: Idle, Attempt: s.state.Attempt}
}

// Submit executes a swap of rawAmount from -> to and blocks until the
// executor resolves. Requests with an invalid amount, a missing token, or
// while another submit is pending are rejected without touching state.
func (s *Submission) Submit(ctx context.Context, from, to *types.TokenRecord, rawAmount string) Outcome {
	s.mu.Lock()
	if _, ok := quote.ParseAmount(rawAmount); !ok {
		defer s.mu.Unlock()
		return Outcome{Reason: RejectInvalidAmount, State: s.state}
	}
	if s.state.Phase == Pending {
		defer s.mu.Unlock()
		s.log.Debug("submit rejected, swap in flight", zap.Int("attempt", s.state.Attempt))
		return Outcome{Reason: RejectInFlight, State: s.state}
	}
	if from == nil || to == nil {
		defer s.mu.Unlock()
		return Outcome{Reason: RejectNoSelection, State: s.state}
	}

	// snapshot the inputs; the executor sees values, not the caller's records
	fromRec, toRec := *from, *to
	amount := strings.TrimSpace(rawAmount)
	attempt := s.state.Attempt + 1
	s.state = State{Phase: Pending, Attempt: attempt}
	s.mu.Unlock()

	s.log.Info("swap submitted",
		zap.Int("attempt", attempt),
		zap.String("from", fromRec.Currency),
		zap.String("to", toRec.Currency),
		zap.String("amount", amount))

	receipt, err := s.exec.Execute(ctx, fromRec, toRec, amount)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = State{Phase: Failed, Message: failureReason(err), Attempt: attempt}
		s.log.Warn("swap failed", zap.Int("attempt", attempt), zap.String("reason", s.state.Message))
		return Outcome{Accepted: true, State: s.state}
	}

	output := quote.OutputAmount(amount, quote.Rate(&fromRec, &toRec))
	s.state = State{
		Phase:   Succeeded,
		Message: fmt.Sprintf("Successfully swapped %s %s for %s %s", amount, fromRec.Currency, output, toRec.Currency),
		Receipt: receipt,
		Attempt: attempt,
	}
	fields := []zap.Field{zap.Int("attempt", attempt), zap.String("output", output)}
	if receipt != nil {
		fields = append(fields, zap.String("receipt", receipt.ID), zap.String("tx_hash", receipt.TxHash))
	}
	s.log.Info("swap succeeded", fields...)
	return Outcome{Accepted: true, State: s.state, ClearInput: true}
}

func failureReason(err error) string {
	var sf *SubmissionFailure
	if errors.As(err, &sf) {
		return sf.Reason
	}
	return err.Error()
}
