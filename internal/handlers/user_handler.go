package handlers

import (
	"lojinha/internal/models"
	"lojinha/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts and token issuance.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the user routes. Signup and token issuance are
// public; everything else requires a bearer token.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/user")
	userRoutes.Post("/", h.HandleCreate)
	userRoutes.Post("/token", h.HandleToken)
	userRoutes.Get("/:id", auth, h.HandleGetByID)
	userRoutes.Put("/:id", auth, h.HandleUpdate)
	userRoutes.Delete("/:id", auth, h.HandleDelete)
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Firstname       string `json:"firstname" validate:"required"`
	Surname         string `json:"surname" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// HandleCreate handles signup.
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, toValidationError(err))
	}

	user := models.User{
		Firstname: req.Firstname,
		Surname:   req.Surname,
		Email:     req.Email,
		Password:  req.Password,
	}
	if err := h.userService.Create(&user); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// TokenRequest is the login payload.
type TokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleToken issues a JWT for valid credentials. Bad credentials answer 400
// without distinguishing unknown email from wrong password.
func (h *UserHandler) HandleToken(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, toValidationError(err))
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// HandleGetByID retrieves a user.
func (h *UserHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	user, err := h.userService.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleUpdate applies a partial user update.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var patch services.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(patch); err != nil {
		return respondError(c, toValidationError(err))
	}
	if err := h.userService.Update(id, patch); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete removes a user.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.userService.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
