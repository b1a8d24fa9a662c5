// Package badgerstore implements the durable user store on BadgerDB.
//
// Badger gives the store its durability contract for free: writes go
// through a write-ahead log and are fsynced before Update returns
// (SyncWrites), so a crash after a successful call never loses the
// write and a crash mid-call never corrupts committed data. Its
// serializable transactions also make check-then-insert atomic, which
// is what keeps concurrent AddUser races correct.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/resign-hr/directory/internal/core/domain"
	"github.com/resign-hr/directory/internal/core/ports"
)

const accountPrefix = "account/"

func keyAccount(username string) []byte {
	return []byte(accountPrefix + username)
}

// SeedAccount is one bootstrap identity, hashed at first run.
type SeedAccount struct {
	Username string
	Password string
	Phone    string
	Role     domain.Role
}

// Options configures Open.
type Options struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path string

	// InMemory runs the store without disk persistence. Test use only.
	InMemory bool

	// Seed accounts are created when the store holds no accounts at
	// all. Typically one standard user and one HR account.
	Seed []SeedAccount

	// Hasher derives the credential for each seed account.
	Hasher ports.CredentialHasher

	Logger zerolog.Logger
}

// Store is the Badger-backed ports.UserStore implementation.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

var _ ports.UserStore = (*Store)(nil)

// Open opens (creating if necessary) the store at opts.Path and seeds
// it when empty.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path).WithSyncWrites(true)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}

	s := &Store{db: db, log: opts.Logger}
	if err := s.seed(opts.Seed, opts.Hasher); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// seed creates the bootstrap accounts when the store is empty. Each
// seed gets a fresh salt even when two seeds share a password.
func (s *Store) seed(seeds []SeedAccount, hasher ports.CredentialHasher) error {
	if len(seeds) == 0 {
		return nil
	}

	empty, err := s.isEmpty()
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	s.log.Info().Int("accounts", len(seeds)).Msg("empty store, creating seed accounts")

	for _, seed := range seeds {
		salt, digest, err := hasher.NewCredential(seed.Password)
		if err != nil {
			return fmt.Errorf("seed %q: %w", seed.Username, err)
		}
		account := &domain.Account{
			Username:       seed.Username,
			CredentialHash: digest,
			CredentialSalt: salt,
			PhoneNumber:    seed.Phone,
			Role:           seed.Role,
		}
		if err := s.Create(context.Background(), account); err != nil {
			return fmt.Errorf("seed %q: %w", seed.Username, err)
		}
	}
	return nil
}

func (s *Store) isEmpty() (bool, error) {
	empty := true
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(accountPrefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		empty = !it.Valid()
		return nil
	})
	return empty, err
}

// Get returns the account for username, or domain.ErrUserNotFound.
func (s *Store) Get(ctx context.Context, username string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var account *domain.Account
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyAccount(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var decErr error
			account, decErr = decodeAccount(val)
			return decErr
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get account %q: %w", username, err)
	}
	return account, nil
}

// Create inserts account, failing with domain.ErrUserExists when the
// username is taken. The existence check and the insert run in one
// serializable transaction; when two creates race on the same
// username, Badger aborts one with ErrConflict and the retry observes
// the winner.
func (s *Store) Create(ctx context.Context, account *domain.Account) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(keyAccount(account.Username))
			if err == nil {
				return domain.ErrUserExists
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			encoded, err := encodeAccount(account)
			if err != nil {
				return err
			}
			return txn.Set(keyAccount(account.Username), encoded)
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if errors.Is(err, domain.ErrUserExists) {
			return domain.ErrUserExists
		}
		if err != nil {
			return fmt.Errorf("create account %q: %w", account.Username, err)
		}
		return nil
	}
}

// Put upserts account. Last writer wins on the same username.
func (s *Store) Put(ctx context.Context, account *domain.Account) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			encoded, err := encodeAccount(account)
			if err != nil {
				return err
			}
			return txn.Set(keyAccount(account.Username), encoded)
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("put account %q: %w", account.Username, err)
		}
		return nil
	}
}

// List returns a snapshot of all accounts. Badger transactions read a
// consistent snapshot, so a concurrent write never yields a torn list.
func (s *Store) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var accounts []domain.Account
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(accountPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				account, err := decodeAccount(val)
				if err != nil {
					return err
				}
				accounts = append(accounts, *account)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Health verifies the store can serve reads.
func (s *Store) Health(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("store is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
