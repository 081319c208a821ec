package swap

import (
	"context"

	"token-swap/pkg/types"
)

// Executor carries out a swap. It resolves exactly once: a receipt on
// success, or an error whose reason is shown to the user as is.
//
//go:generate mockgen -package=mocks -destination=../mocks/executor.go -source=executor.go Executor
type Executor interface {
	Execute(ctx context.Context, from, to types.TokenRecord, amount string) (*types.Receipt, error)
}

// SubmissionFailure is a rejection reported by an Executor.
type SubmissionFailure struct {
	Reason string
}

func (e *SubmissionFailure) Error() string { return e.Reason }
