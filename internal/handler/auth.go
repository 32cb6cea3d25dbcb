package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ntp/agent-server-go/internal/audit"
	"github.com/ntp/agent-server-go/internal/middleware"
	"github.com/ntp/agent-server-go/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Routes takes the login rate limiter so it guards only the login itself.
func (h *AuthHandler) Routes(limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if limit != nil {
		r.Use(limit)
	}
	r.Post("/login", h.Login)
	return r
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      any    `json:"user"`
}

// POST /login/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	params, err := requestParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		UserName:    params.Get("user_name"),
		Password:    params.Get("pwd"),
		Captcha:     params.Get("captcha"),
		GroupPrefix: middleware.GetTenantScope(r.Context()),
		IP:          audit.ClientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set(middleware.RenewedTokenHeader, "Bearer "+result.Token)
	writeSuccess(w, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		User:      result.Agent,
	}, "登录成功")
}
