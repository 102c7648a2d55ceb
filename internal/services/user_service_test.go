package services_test

import (
	"fmt"
	"testing"

	"lojinha/internal/models"
	"lojinha/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(repo *MockUserRepository) (*services.UserService, *services.AuthService) {
	authService := newAuthService(repo)
	return services.NewUserService(repo, authService, nil), authService
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService, authService := newUserService(mockRepo)

	var stored *models.User
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*models.User)
	}).Return(nil).Once()

	user := &models.User{
		Firstname: "Ana",
		Surname:   "Souza",
		Email:     "ana@example.com",
		Password:  "password123",
	}
	err := userService.Create(user)
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.Password)
	assert.True(t, authService.CheckPassword("password123", stored.Password))
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService, _ := newUserService(mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("failed to create user: %w", gorm.ErrDuplicatedKey)).Once()

	err := userService.Create(&models.User{Email: "ana@example.com", Password: "password123"})
	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 1)
	assert.Equal(t, "email", verr.Errors[0].Field)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateAppliesOnlyPresentFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService, _ := newUserService(mockRepo)

	firstname := "Maria"
	mockRepo.On("Update", uint(1), map[string]interface{}{"firstname": "Maria"}).Return(nil).Once()

	err := userService.Update(1, services.UserPatch{Firstname: &firstname})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateRehashesChangedPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService, _ := newUserService(mockRepo)

	var fields map[string]interface{}
	mockRepo.On("Update", uint(1), mock.AnythingOfType("map[string]interface {}")).
		Run(func(args mock.Arguments) {
			fields = args.Get(1).(map[string]interface{})
		}).Return(nil).Once()

	password := "newpassword"
	err := userService.Update(1, services.UserPatch{Password: &password})
	assert.NoError(t, err)

	hashed, ok := fields["password"].(string)
	assert.True(t, ok)
	assert.NotEqual(t, "newpassword", hashed)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("newpassword")))
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService, _ := newUserService(mockRepo)

	email := "ana@example.com"
	mockRepo.On("Update", uint(99), mock.Anything).
		Return(fmt.Errorf("failed to get user 99 for update: %w", gorm.ErrRecordNotFound)).Once()

	err := userService.Update(99, services.UserPatch{Email: &email})
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestUserService_DeleteUnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService, _ := newUserService(mockRepo)

	mockRepo.On("Delete", uint(99)).
		Return(fmt.Errorf("user 99 not found for deletion: %w", gorm.ErrRecordNotFound)).Once()

	err := userService.Delete(99)
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
