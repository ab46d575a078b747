package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rahadianw/siteops/internal/transport"
	"github.com/rahadianw/siteops/pkg/logger"
)

type ServiceAPI interface {
	Register(dto RegisterDTO) (*Account, string, error)
	Authenticate(dto LoginDTO) (*Account, string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	CurrentUser(userID int64) (*Account, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, token, err := h.Service.Register(dto)
	if err != nil {
		h.Logger.Error("registration failed", "error", err, "username", dto.Username)

		switch err {
		case ErrDuplicateUser:
			h.WriteError(w, http.StatusBadRequest, "username or email already exists")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		User:    account,
		Token:   token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, token, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err, "login", dto.Username)

		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case ErrUserInactive:
			h.WriteError(w, http.StatusUnauthorized, "account is deactivated")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    account,
		Token:   token,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := UserFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	current, err := h.Service.CurrentUser(account.ID)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, current)
}

// AuthMiddleware validates the bearer token and loads the account into the
// request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		account, err := h.Service.CurrentUser(claims.UserID)
		if err != nil {
			h.Logger.Error("auth middleware: failed to load account", "user_id", claims.UserID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		if !account.IsActive {
			h.WriteError(w, http.StatusUnauthorized, "account is deactivated")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), account)))
	})
}
