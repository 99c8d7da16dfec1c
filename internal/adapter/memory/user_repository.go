package memory

import (
	"context"

	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) interfaces.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.byEmail[user.Email]; ok {
		return domain.NewConflict("email already registered")
	}
	r.store.users[user.ID] = cloneUser(user)
	r.store.byEmail[user.Email] = user.ID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	return cloneUser(user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.byEmail[email]
	if !ok {
		return nil, domain.NewNotFound("user", "")
	}
	return cloneUser(r.store.users[id]), nil
}

func (r *userRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *session
	r.store.sessions[session.Token] = &c
	return nil
}

func (r *userRepository) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[token]
	if !ok {
		return nil, domain.NewNotFound("session", "")
	}
	c := *session
	return &c, nil
}

func (r *userRepository) DeleteSession(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.sessions, token)
	return nil
}
