package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	userService *service.UserService
	tokenTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler. tokenTTL is reported to clients with each token.
func NewAuthHandler(userService *service.UserService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokenTTL:    tokenTTL,
	}
}

// LoginResponse carries a bearer token for the Authorization header.
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresIn int64      `json:"expiresIn"`
	User      model.User `json:"user"`
}

// Register handles POST requests to create a regular user.
//
// Endpoint: POST /api/auth/register
// Request Body: RegisterRequest (username, password, optional email)
// Response: 201 Created with User
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the username or email is taken
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		respondError(w, r, err, "failed to register user")
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST requests to exchange credentials for a token.
//
// Endpoint: POST /api/auth/login
// Request Body: LoginRequest (username, password)
// Response: 200 OK with LoginResponse
// Error: 401 Unauthorized for unknown users and wrong passwords alike
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](w, r)
	if err != nil {
		respondError(w, r, err, "invalid request body")
		return
	}

	token, user, err := h.userService.Authenticate(r.Context(), req)
	if err != nil {
		respondError(w, r, err, "login failed")
		return
	}

	response.RespondJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresIn: int64(h.tokenTTL.Seconds()),
		User:      user,
	})
}

// Me returns the authenticated user.
//
// Endpoint: GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := principal(r)

	user, err := h.userService.GetUser(r.Context(), p, p.UserID)
	if err != nil {
		respondError(w, r, err, "failed to retrieve user")
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}
