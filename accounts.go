package geoquiz

import (
	"context"
	"fmt"
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// Principal identifies an authenticated user.
type Principal struct {
	UserID   string
	Username string
}

// AccountRepository creates users and looks up their credentials.
type AccountRepository struct {
	store  Store
	hasher Hasher
	opts   RepositoryOptions
}

// NewAccountRepository returns an AccountRepository over store.
func NewAccountRepository(store Store, hasher Hasher, opts ...func(*RepositoryOptions)) *AccountRepository {
	return &AccountRepository{
		store:  store,
		hasher: hasher,
		opts:   newRepositoryOptions(opts...),
	}
}

// Register creates a user and returns its identifier. Usernames are not
// checked for uniqueness.
func (r *AccountRepository) Register(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ValidationError("Username and password required")
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           r.opts.NewID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    r.opts.Tick(),
	}

	item, err := MarshalItem(user, r.opts.marshalOptions)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := r.store.PutItem(ctx, item); err != nil {
		return "", err
	}

	return user.ID, nil
}

// FindByUsername returns the first user with the given username. The lookup
// is a filtered table scan unless the table has a ref index.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	items, err := r.store.ScanAll(ctx, Filter{
		Equal: map[string]string{
			AttributeNameLabel:      PrefixUser,
			AttributeNameRefSortKey: username,
		},
	})
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, NotFoundError("User not found")
	}

	var user User
	if _, err := UnmarshalRecord(items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// VerifyCredentials checks a username and password and returns the matching
// principal. Unknown usernames and wrong passwords fail identically.
func (r *AccountRepository) VerifyCredentials(ctx context.Context, username, password string) (Principal, error) {
	if username == "" || password == "" {
		return Principal{}, ValidationError("Username and password required")
	}

	user, err := r.FindByUsername(ctx, username)
	if KindOf(err) == KindNotFound {
		return Principal{}, AuthenticationError("Invalid credentials")
	} else if err != nil {
		return Principal{}, err
	}

	if err := r.hasher.Compare(user.PasswordHash, password); err != nil {
		return Principal{}, AuthenticationError("Invalid credentials")
	}

	return Principal{UserID: user.ID, Username: user.Username}, nil
}
