package ports

import (
	"context"

	"github.com/resign-hr/directory/internal/core/domain"
)

// UserStore defines the interface for durable account persistence.
// Implementations must be safe for concurrent use: Create must be
// atomic with respect to concurrent Creates of the same username
// (exactly one wins), and every successful mutation must be persisted
// to stable storage before the call returns.
type UserStore interface {
	// Get returns the account for username, or domain.ErrUserNotFound.
	Get(ctx context.Context, username string) (*domain.Account, error)

	// Create inserts a new account, failing with domain.ErrUserExists
	// when the username is already present. The existence check and
	// the insert are a single atomic step.
	Create(ctx context.Context, account *domain.Account) error

	// Put upserts an account keyed by username. Last writer wins when
	// racing on the same username.
	Put(ctx context.Context, account *domain.Account) error

	// List returns a snapshot of all accounts at call time. Order is
	// unspecified.
	List(ctx context.Context) ([]domain.Account, error)
}
