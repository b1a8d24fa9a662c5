package badgerstore

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/resign-hr/directory/internal/core/domain"
)

// storedAccount is the on-disk record. It exists so credential
// material is persisted deliberately here and nowhere else; the
// domain type excludes it from every serialized projection.
type storedAccount struct {
	Username       string `cbor:"username"`
	CredentialHash string `cbor:"credential_hash"`
	CredentialSalt []byte `cbor:"credential_salt"`
	PhoneNumber    string `cbor:"phone_number"`
	Role           string `cbor:"role"`
}

func encodeAccount(account *domain.Account) ([]byte, error) {
	encoded, err := cbor.Marshal(storedAccount{
		Username:       account.Username,
		CredentialHash: account.CredentialHash,
		CredentialSalt: account.CredentialSalt,
		PhoneNumber:    account.PhoneNumber,
		Role:           string(account.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}
	return encoded, nil
}

func decodeAccount(val []byte) (*domain.Account, error) {
	var stored storedAccount
	if err := cbor.Unmarshal(val, &stored); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return &domain.Account{
		Username:       stored.Username,
		CredentialHash: stored.CredentialHash,
		CredentialSalt: stored.CredentialSalt,
		PhoneNumber:    stored.PhoneNumber,
		Role:           domain.Role(stored.Role),
	}, nil
}
