package services

import (
	"errors"
	"log"

	"lojinha/internal/models"
	"lojinha/internal/repositories"
	"lojinha/pkg/rabbitmq"

	"gorm.io/gorm"
)

// UserPatch carries a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	Firstname *string `json:"firstname"`
	Surname   *string `json:"surname"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
}

// UserService handles business logic for user accounts.
type UserService struct {
	repo     repositories.UserRepository
	auth     *AuthService
	mqClient *rabbitmq.Client
}

// NewUserService creates a new UserService. mqClient may be nil, in which
// case event publication is skipped.
func NewUserService(repo repositories.UserRepository, auth *AuthService, mqClient *rabbitmq.Client) *UserService {
	return &UserService{repo: repo, auth: auth, mqClient: mqClient}
}

// Create hashes the password and stores the user. The caller is expected to
// have validated the payload, including the confirmation match.
func (s *UserService) Create(user *models.User) error {
	hashed, err := s.auth.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.repo.Create(user); err != nil {
		return classifyWriteError(err, "email")
	}

	if s.mqClient != nil {
		err := s.mqClient.Publish("user.registered", map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		})
		if err != nil {
			log.Printf("Warning: failed to publish user.registered for user %d: %v", user.ID, err)
		}
	}
	return nil
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies the fields present in the patch. A new password is rehashed
// here, as an explicit step rather than a save hook.
func (s *UserService) Update(id uint, patch UserPatch) error {
	fields := map[string]interface{}{}
	if patch.Firstname != nil {
		fields["firstname"] = *patch.Firstname
	}
	if patch.Surname != nil {
		fields["surname"] = *patch.Surname
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.Password != nil {
		hashed, err := s.auth.HashPassword(*patch.Password)
		if err != nil {
			return err
		}
		fields["password"] = hashed
	}
	return classifyWriteError(s.repo.Update(id, fields), "email")
}

// Delete removes a user by id.
func (s *UserService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
