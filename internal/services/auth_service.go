// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/myfood/myfood-backend/internal/auth"
	"github.com/myfood/myfood-backend/internal/core"
	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/storage"
)

// AuthService authenticates the local account and tracks who is signed in.
type AuthService struct {
	users   UserStore
	session *auth.Session
}

func NewAuthService(users UserStore, session *auth.Session) *AuthService {
	if session == nil {
		session = auth.NewSession()
	}
	return &AuthService{users: users, session: session}
}

// Session exposes the signed-in state.
func (s *AuthService) Session() *auth.Session { return s.session }

// Login checks email and password. An unknown email and a wrong password both
// fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		customLog.Warnf("AuthService: Error looking up %s: %v", email, err)
		return nil, err
	}
	if user == nil || !auth.CheckPasswordHash(password, user.Password) {
		customLog.Warnf("AuthService: Login failed for %s", email)
		return nil, ErrInvalidCredentials
	}

	s.session.Set(*user)
	customLog.Printf("AuthService: User %d logged in", user.ID)
	return user, nil
}

// Register creates the account and signs it in. An email that is already
// registered is ErrUserExists.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	reg.Email = normalizeEmail(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if err := core.ValidateStruct(reg); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, reg.Email)
	if err != nil {
		customLog.Warnf("AuthService: Error checking %s: %v", reg.Email, err)
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, reg.Email)
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:      reg.Email,
		Password:   hash,
		Name:       reg.Name,
		Image:      reg.Image,
		Height:     reg.Height,
		Weight:     reg.Weight,
		Age:        reg.Age,
		GoalWeight: reg.GoalWeight,
	})
	if err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, reg.Email)
		}
		customLog.Warnf("AuthService: Error registering %s: %v", reg.Email, err)
		return nil, err
	}

	s.session.Set(user)
	customLog.Printf("AuthService: Registered user %d", user.ID)
	return &user, nil
}

// UpdateUser applies patch to user id. A new email must not belong to another
// account; a new password is hashed before it is stored.
func (s *AuthService) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if err := core.ValidateVar("email", email, "required,email"); err != nil {
			return nil, err
		}
		owner, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != id {
			return nil, fmt.Errorf("%w: %s", ErrEmailInUse, email)
		}
		patch.Email = &email
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := core.ValidateVar("name", name, "required"); err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Password != nil {
		if err := core.ValidateVar("password", *patch.Password, "required"); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, fmt.Errorf("%w: %v", ErrEmailInUse, err)
		}
		customLog.Warnf("AuthService: Error updating user %d: %v", id, err)
		return nil, err
	}

	if current := s.session.Get(); current != nil && current.ID == id {
		s.session.Set(*updated)
	}
	return updated, nil
}

// GetUser returns user id or storage.ErrNotFound.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: users %d", storage.ErrNotFound, id)
	}
	return user, nil
}

// GetCurrentUser returns the signed-in user, falling back to the first account
// of the device. With no account at all it is ErrNoCurrentUser.
func (s *AuthService) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	if user := s.session.Get(); user != nil {
		return user, nil
	}

	user, err := s.users.FindFirst(ctx)
	if err != nil {
		customLog.Warnf("AuthService: Error loading first user: %v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrNoCurrentUser
	}
	return user, nil
}

// Logout forgets the signed-in user. Issued tokens stay valid until they expire.
func (s *AuthService) Logout() {
	s.session.Clear()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
