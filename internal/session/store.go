// Package session owns the authenticated session: a persisted
// {token, user} pair and the manager that is its sole writer.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nkosarev/vidgen/internal/models"
	"github.com/nkosarev/vidgen/internal/storage/state"
)

// Persisted state keys. Token and user are always written and cleared as a
// pair under these keys.
const (
	keyToken = "auth_token"
	keyUser  = "auth_user"
)

// ErrCorruptState reports persisted session state that cannot be trusted:
// a token without a user (or vice versa), or an unparsable user record.
var ErrCorruptState = errors.New("corrupt session state")

// Store persists the session pair. Load returns nil when unauthenticated.
type Store interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error

	// Token implements api.TokenProvider. It reads the persisted state on
	// every call; there is no cached snapshot.
	Token(ctx context.Context) (string, error)
}

// SQLStore keeps the session pair in the client_state table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context) (*models.Session, error) {
	repo := state.NewRepository(s.db)

	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	userData, err := repo.Get(ctx, keyUser)
	if err != nil {
		return nil, err
	}

	if token == nil && userData == nil {
		return nil, nil
	}
	if token == nil || userData == nil {
		return nil, ErrCorruptState
	}

	var user models.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}

	return &models.Session{Token: string(token), User: user}, nil
}

// Save writes the token and serialized user in one transaction, so a
// reader can never observe one half of the pair.
func (s *SQLStore) Save(ctx context.Context, sess *models.Session) error {
	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("serializing user: %w", err)
	}

	return state.WithTx(ctx, s.db, func(ctx context.Context, tx state.DBTX) error {
		repo := state.NewRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(sess.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, userData)
	})
}

// Clear removes both entries. Clearing an empty store is not an error.
func (s *SQLStore) Clear(ctx context.Context) error {
	return state.WithTx(ctx, s.db, func(ctx context.Context, tx state.DBTX) error {
		repo := state.NewRepository(tx)
		if err := repo.Delete(ctx, keyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyUser)
	})
}

// Token returns the persisted bearer token, or "" when unauthenticated or
// when the persisted state is unusable.
func (s *SQLStore) Token(ctx context.Context) (string, error) {
	repo := state.NewRepository(s.db)
	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	return string(token), nil
}
