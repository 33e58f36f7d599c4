package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/repository"
	"github.com/mmeshcher/luxehome-system/internal/service"
)

func isNotFoundOrBadCredentials(err error) bool {
	return errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse не содержит учётных данных.
type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// Signup регистрирует нового покупателя.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.fail(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		h.fail(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.serviceError(w, err, "signup error")
		return
	}

	h.authMiddleware.SetAuthCookie(w, user.ID, string(user.Role))
	h.okMessage(w, http.StatusCreated, "Account created successfully", newUserResponse(*user))
}

// Login выполняет вход покупателя или администратора.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.loginError(w, err)
		return
	}

	h.authMiddleware.SetAuthCookie(w, user.ID, string(user.Role))
	h.okMessage(w, http.StatusOK, "Login successful", newUserResponse(*user))
}

// AdminLogin выполняет вход администратора: пользователям без роли admin доступ запрещён.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.loginError(w, err)
		return
	}

	if user.Role != model.RoleAdmin {
		h.fail(w, http.StatusForbidden, "Access denied. Admin only.")
		return
	}

	h.authMiddleware.SetAuthCookie(w, user.ID, string(user.Role))
	h.okMessage(w, http.StatusOK, "Admin login successful", newUserResponse(*user))
}

// loginError скрывает, что именно не подошло: email или пароль.
func (h *Handler) loginError(w http.ResponseWriter, err error) {
	switch {
	case isNotFoundOrBadCredentials(err):
		h.fail(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		h.serviceError(w, err, "login error")
	}
}

// VerifyUser возвращает данные пользователя по идентификатору.
func (h *Handler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.serviceError(w, err, "verify user error")
		return
	}

	h.ok(w, http.StatusOK, newUserResponse(*user))
}
