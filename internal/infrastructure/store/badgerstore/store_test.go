package badgerstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/resign-hr/directory/internal/core/domain"
	"github.com/resign-hr/directory/internal/hashing"
)

func testHasher() *hashing.Hasher {
	return hashing.New(hashing.Params{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLength: 32})
}

func openTestStore(t *testing.T, seeds []SeedAccount) *Store {
	t.Helper()
	s, err := Open(Options{
		InMemory: true,
		Seed:     seeds,
		Hasher:   testHasher(),
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_CreateGetList(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	account := &domain.Account{
		Username:       "alice",
		CredentialHash: "$argon2id$digest",
		CredentialSalt: []byte("0123456789abcdef"),
		PhoneNumber:    "0791234567",
		Role:           domain.RoleStandardUser,
	}
	if err := s.Create(ctx, account); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "alice" || got.CredentialHash != account.CredentialHash ||
		string(got.CredentialSalt) != string(account.CredentialSalt) ||
		got.PhoneNumber != "0791234567" || got.Role != domain.RoleStandardUser {
		t.Fatalf("account did not survive persistence: %+v", got)
	}

	if _, err := s.Get(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("get missing: err = %v, want ErrUserNotFound", err)
	}

	accounts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Username != "alice" {
		t.Fatalf("unexpected list: %+v", accounts)
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	account := &domain.Account{Username: "alice", Role: domain.RoleStandardUser}
	if err := s.Create(ctx, account); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := s.Create(ctx, account); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("second create: err = %v, want ErrUserExists", err)
	}
}

func TestStore_PutUpsertsInPlace(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	account := &domain.Account{Username: "alice", PhoneNumber: "0791111111", Role: domain.RoleStandardUser}
	if err := s.Create(ctx, account); err != nil {
		t.Fatalf("create: %v", err)
	}

	account.PhoneNumber = "0792222222"
	if err := s.Put(ctx, account); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PhoneNumber != "0792222222" {
		t.Fatalf("phone = %q, want updated value", got.PhoneNumber)
	}
}

func TestStore_SeedOnlyWhenEmpty(t *testing.T) {
	seeds := []SeedAccount{
		{Username: "default_user", Password: "Passw0rd!", Phone: "0784539872", Role: domain.RoleStandardUser},
		{Username: "default_hr", Password: "Passw0rd?", Phone: "0793175289", Role: domain.RoleHR},
	}
	s := openTestStore(t, seeds)
	ctx := context.Background()

	accounts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 seeded accounts, got %d", len(accounts))
	}

	user, err := s.Get(ctx, "default_user")
	if err != nil {
		t.Fatalf("get default_user: %v", err)
	}
	hr, err := s.Get(ctx, "default_hr")
	if err != nil {
		t.Fatalf("get default_hr: %v", err)
	}
	if user.Role != domain.RoleStandardUser || hr.Role != domain.RoleHR {
		t.Fatalf("seeded roles wrong: %s / %s", user.Role, hr.Role)
	}
	if string(user.CredentialSalt) == string(hr.CredentialSalt) {
		t.Fatalf("seed accounts share a salt")
	}

	h := testHasher()
	if !h.Verify("Passw0rd!", user.CredentialSalt, user.CredentialHash) {
		t.Fatalf("seeded credential does not verify")
	}
	if h.Verify("Passw0rd!", hr.CredentialSalt, hr.CredentialHash) {
		t.Fatalf("hr credential verified with the wrong password")
	}
}

func TestStore_SeedSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	seeds := []SeedAccount{
		{Username: "default_hr", Password: "Passw0rd?", Phone: "0793175289", Role: domain.RoleHR},
	}

	open := func() *Store {
		s, err := Open(Options{Path: dir, Seed: seeds, Hasher: testHasher(), Logger: zerolog.Nop()})
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		return s
	}

	s := open()
	if err := s.Put(context.Background(), &domain.Account{Username: "default_hr", PhoneNumber: "0790000000", Role: domain.RoleHR}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening a non-empty store must not re-seed over the mutation.
	s = open()
	defer s.Close()

	got, err := s.Get(context.Background(), "default_hr")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.PhoneNumber != "0790000000" {
		t.Fatalf("reopen lost the committed write: phone = %q", got.PhoneNumber)
	}
}

func TestStore_ConcurrentCreateSameUsername(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Create(ctx, &domain.Account{
				Username:    "contested",
				PhoneNumber: "0791234567",
				Role:        domain.RoleStandardUser,
			})
		}(i)
	}
	wg.Wait()

	var wins, exists int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrUserExists):
			exists++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || exists != n-1 {
		t.Fatalf("wins = %d, exists = %d, want 1 and %d", wins, exists, n-1)
	}

	accounts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("store holds %d accounts, want exactly 1", len(accounts))
	}
}
