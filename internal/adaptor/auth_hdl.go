package adaptor

import (
	"errors"
	"net/http"

	"catalog-console/internal/dto/request"
	"catalog-console/internal/dto/response"
	"catalog-console/internal/usecase"
	"catalog-console/pkg/middleware"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	view    *View
	config  utils.SessionConfig
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, view *View, config utils.SessionConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		view:    view,
		config:  config,
		log:     log.With(zap.String("handler", "auth")),
	}
}

func credentialsFromForm(r *http.Request) request.CredentialsRequest {
	return request.CredentialsRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, status int, page response.AuthPage) {
	h.view.Render(w, r, status, "auth", response.Page{Title: page.Heading, Data: page})
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, response.LoginPage("", ""))
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := credentialsFromForm(r)

	session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "login", response.LoginPage(req.Email, usecase.UserMessage(err)))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    session.Cookie,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	utils.Redirect(w, r, "/dashboard")
}

// SignupPage handles GET / and GET /signup
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, response.SignupPage("", ""))
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req := credentialsFromForm(r)

	if err := h.service.Signup(r.Context(), &req); err != nil {
		h.handleServiceError(w, r, err, "signup", response.SignupPage(req.Email, usecase.UserMessage(err)))
		return
	}

	utils.Redirect(w, r, "/login")
}

// Logout handles POST /logout. The admin ends up on the login page even if
// the backend could not revoke the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := utils.GetTokenFromContext(r.Context())
	if err := h.service.Logout(r.Context(), token); err != nil {
		h.log.Warn("Sign out failed", zap.Error(err))
	}

	middleware.ClearCookie(w, h.config.CookieName, h.config.Secure)
	utils.Redirect(w, r, "/login")
}

// handleServiceError re-renders the auth form with the failure message.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string, page response.AuthPage) {
	var fe *usecase.FormError
	switch {
	case errors.As(err, &fe):
		h.log.Debug(operation+" rejected locally", zap.String("reason", fe.Message))
		h.render(w, r, http.StatusBadRequest, page)

	default:
		h.log.Warn(operation+" failed", zap.Error(err))
		h.render(w, r, http.StatusUnauthorized, page)
	}
}
