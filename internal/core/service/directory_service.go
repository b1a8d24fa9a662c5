package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/resign-hr/directory/internal/core/domain"
	"github.com/resign-hr/directory/internal/core/policy"
	"github.com/resign-hr/directory/internal/core/ports"
	"github.com/resign-hr/directory/internal/validation"
)

// DirectoryService implements the seven directory actions against a
// session and the user store.
//
// Every handler follows the same contract: field-format validation,
// then authorization, then existence checks, then mutation. Cheap
// local failures are rejected before shared state is touched and
// before any permission information can leak.
type DirectoryService struct {
	store    ports.UserStore
	hasher   ports.CredentialHasher
	validate *validator.Validate
	log      zerolog.Logger
}

func NewDirectoryService(store ports.UserStore, hasher ports.CredentialHasher, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{
		store:    store,
		hasher:   hasher,
		validate: validation.New(),
		log:      log,
	}
}

// Payload shapes for struct-level validation. Field order matters: the
// first failing field determines which error code the caller sees.

type loginPayload struct {
	Username string `validate:"username"`
	Password string `validate:"password"`
}

type ownPhonePayload struct {
	Phone string `validate:"phone"`
}

type changePhonePayload struct {
	Username string `validate:"username"`
	Phone    string `validate:"phone"`
}

type addUserPayload struct {
	Username string `validate:"username"`
	Password string `validate:"password"`
	Phone    string `validate:"phone"`
	Role     string `validate:"role"`
}

// authorize resolves the session's policy subject and checks the
// matrix for action. The subject role is re-read from the store on
// every call so a role change takes effect immediately; the session
// never caches an account.
//
// Every denial comes back as the one generic ErrPermissionDenied. The
// actual reason (not logged in, role insufficient) is only logged.
func (s *DirectoryService) authorize(ctx context.Context, sess ports.Session, action policy.Action) error {
	subject := policy.SubjectAnonymous
	if username, ok := sess.Username(); ok {
		account, err := s.store.Get(ctx, username)
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Str("username", username).Msg("authenticated session references missing account")
			return domain.ErrStoreInconsistency
		}
		if err != nil {
			return fmt.Errorf("resolve session account: %w", err)
		}
		subject = policy.SubjectForRole(account.Role)
	}

	if !policy.CanPerform(subject, action) {
		s.log.Warn().
			Str("subject", string(subject)).
			Str("action", string(action)).
			Msg("action denied by policy")
		return domain.ErrPermissionDenied
	}
	return nil
}

// currentAccount re-fetches the session's account by username. A miss
// for an authenticated session is an internal-consistency error: no
// exposed action deletes accounts.
func (s *DirectoryService) currentAccount(ctx context.Context, sess ports.Session) (*domain.Account, error) {
	username, ok := sess.Username()
	if !ok {
		return nil, domain.ErrPermissionDenied
	}
	account, err := s.store.Get(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.log.Error().Str("username", username).Msg("authenticated session references missing account")
		return nil, domain.ErrStoreInconsistency
	}
	if err != nil {
		return nil, fmt.Errorf("load session account: %w", err)
	}
	return account, nil
}

// Login verifies (username, password) and binds the identity to the
// session. Unknown-username and wrong-password failures are merged
// into the single ErrLoginFailed, and both cost one full hash
// computation so response latency does not reveal which one happened.
func (s *DirectoryService) Login(ctx context.Context, sess ports.Session, username, password string) error {
	if err := validation.FieldError(s.validate.Struct(loginPayload{username, password})); err != nil {
		return err
	}

	// Login is gated on session state independently of the matrix:
	// role lookup is meaningless before an identity is established.
	if !sess.IsAnonymous() {
		return domain.ErrAlreadyLoggedIn
	}

	account, err := s.store.Get(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Burn the same hashing effort as a real verification. Do not
		// short-circuit: the computation is the timing mitigation.
		s.hasher.VerifyDummy(password)
		s.log.Info().Str("username", username).Msg("login failed")
		return domain.ErrLoginFailed
	}
	if err != nil {
		return fmt.Errorf("login lookup: %w", err)
	}

	if !s.hasher.Verify(password, account.CredentialSalt, account.CredentialHash) {
		s.log.Info().Str("username", username).Msg("login failed")
		return domain.ErrLoginFailed
	}

	sess.Authenticate(account.Username)
	s.log.Info().Str("username", account.Username).Msg("login succeeded")
	return nil
}

// Logout clears the session identity. Denied for anonymous sessions.
func (s *DirectoryService) Logout(ctx context.Context, sess ports.Session) error {
	if err := s.authorize(ctx, sess, policy.ActionLogout); err != nil {
		return err
	}
	username, _ := sess.Username()
	sess.Deauthenticate()
	s.log.Info().Str("username", username).Msg("logout")
	return nil
}

// ListUsers returns the redacted projection of every account. Open to
// all subjects; credential material never appears in the projection
// regardless of role.
func (s *DirectoryService) ListUsers(ctx context.Context, sess ports.Session) ([]domain.UserSummary, error) {
	if err := s.authorize(ctx, sess, policy.ActionShowUsers); err != nil {
		return nil, err
	}

	accounts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.UserSummary, 0, len(accounts))
	for i := range accounts {
		summaries = append(summaries, accounts[i].Summary())
	}
	return summaries, nil
}

// ChangeOwnPhone updates the calling account's phone number.
func (s *DirectoryService) ChangeOwnPhone(ctx context.Context, sess ports.Session, phone string) error {
	if err := validation.FieldError(s.validate.Struct(ownPhonePayload{phone})); err != nil {
		return err
	}
	if err := s.authorize(ctx, sess, policy.ActionChangeOwnPhone); err != nil {
		return err
	}

	account, err := s.currentAccount(ctx, sess)
	if err != nil {
		return err
	}
	account.PhoneNumber = phone
	return s.store.Put(ctx, account)
}

// ChangePhone updates another account's phone number (HR only). A
// missing target is reported as ErrUserNotFound: target existence is
// not secret the way login identity is.
func (s *DirectoryService) ChangePhone(ctx context.Context, sess ports.Session, target, phone string) error {
	if err := validation.FieldError(s.validate.Struct(changePhonePayload{target, phone})); err != nil {
		return err
	}
	if err := s.authorize(ctx, sess, policy.ActionChangePhone); err != nil {
		return err
	}

	account, err := s.store.Get(ctx, target)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("change phone lookup: %w", err)
	}
	account.PhoneNumber = phone
	return s.store.Put(ctx, account)
}

// AddUser creates a new account (HR only) with a freshly salted
// credential.
func (s *DirectoryService) AddUser(ctx context.Context, sess ports.Session, username, password, phone, role string) error {
	if err := validation.FieldError(s.validate.Struct(addUserPayload{username, password, phone, role})); err != nil {
		return err
	}

	salt, digest, err := s.hasher.NewCredential(password)
	if err != nil {
		return fmt.Errorf("hash new credential: %w", err)
	}

	if err := s.authorize(ctx, sess, policy.ActionAddUser); err != nil {
		return err
	}

	account := &domain.Account{
		Username:       username,
		CredentialHash: digest,
		CredentialSalt: salt,
		PhoneNumber:    phone,
		Role:           domain.Role(role),
	}
	// Create is atomic check-then-insert: two concurrent adds of the
	// same username cannot both succeed.
	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return domain.ErrUserExists
		}
		return err
	}

	s.log.Info().Str("username", username).Str("role", role).Msg("account created")
	return nil
}
