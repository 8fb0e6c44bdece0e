package memory

import (
	"context"
	"strings"
	"time"

	"github.com/vijaygla/HRMS-sub000/internal/domain/auth"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func (s *Store) Users() user.UserRepository {
	return userRepository{s: s}
}

func (r userRepository) withEmployee(u user.User) user.User {
	for _, e := range r.s.t.employees {
		if e.UserID == u.ID {
			id := e.ID
			u.EmployeeID = &id
			break
		}
	}
	return u
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.t.users {
		if strings.EqualFold(u.Email, email) {
			return r.withEmployee(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.t.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.withEmployee(u), nil
}

func (r userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.t.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrEmailExists
		}
	}

	now := r.s.now()
	newUser.ID = newID()
	newUser.Email = strings.ToLower(newUser.Email)
	newUser.CreatedAt, newUser.UpdatedAt = now, now
	r.s.t.users[newUser.ID] = newUser
	return newUser, nil
}

func (r userRepository) update(id string, fn func(*user.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.t.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.t.users[id] = u
	return nil
}

func (r userRepository) UpdateRole(ctx context.Context, id string, role user.Role) error {
	return r.update(id, func(u *user.User) { u.Role = role })
}

func (r userRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(id, func(u *user.User) { u.IsActive = active })
}

func (r userRepository) TouchLastLogin(ctx context.Context, id string) error {
	now := r.s.now()
	return r.update(id, func(u *user.User) { u.LastLoginAt = &now })
}

type refreshTokenRepository struct {
	s *Store
}

func (s *Store) RefreshTokens() auth.RefreshTokenRepository {
	return refreshTokenRepository{s: s}
}

func (r refreshTokenRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.t.refreshTokens[token] = refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (r refreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rt, ok := r.s.t.refreshTokens[token]
	if !ok {
		return "", true, nil
	}
	return rt.userID, rt.revoked || !rt.expiresAt.After(r.s.now()), nil
}

func (r refreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if rt, ok := r.s.t.refreshTokens[token]; ok {
		rt.revoked = true
		r.s.t.refreshTokens[token] = rt
	}
	return nil
}

func (r refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for token, rt := range r.s.t.refreshTokens {
		if rt.userID == userID {
			rt.revoked = true
			r.s.t.refreshTokens[token] = rt
		}
	}
	return nil
}
