package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopfront-demo/shopfront/internal/hash"
	"github.com/shopfront-demo/shopfront/internal/logging"
	authmw "github.com/shopfront-demo/shopfront/internal/middleware/auth"
	"github.com/shopfront-demo/shopfront/internal/models"
	"github.com/shopfront-demo/shopfront/internal/mykafka"
	"github.com/shopfront-demo/shopfront/internal/service/token"
	"github.com/shopfront-demo/shopfront/internal/store"
)

type AuthHandler struct {
	Store    *store.Store
	Tokens   *token.TokenService
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, topic string, event map[string]interface{}) {
	publishEvent(c, h.Producer, topic, event)
}

type credentialsResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "All fields are required")
	}
	if len(req.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	pwhash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "hash error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create user")
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: pwhash,
		Role:         models.RoleCustomer,
	}
	if err := h.Store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			l.Warn("register_failed", "status", 400, "reason", "duplicate email")
			return echo.NewHTTPError(http.StatusBadRequest, "Email already exists")
		}
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create user")
	}

	tok, err := h.Tokens.Sign(user.ID, user.Role)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}

	h.publish(c, "user_events", map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("register_success", "userID", user.ID)
	return c.JSON(http.StatusCreated, credentialsResponse{Token: tok, User: &user})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Store.UserByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "unknown email")
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 400, "reason", "bad password", "userID", user.ID)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	tok, err := h.Tokens.Sign(user.ID, user.Role)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}

	h.publish(c, "user_events", map[string]interface{}{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("login_success", "userID", user.ID)
	return c.JSON(http.StatusOK, credentialsResponse{Token: tok, User: user})
}

func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}
	user, err := h.Store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
		}
		l.Error("me_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
	}
	return c.JSON(http.StatusOK, user)
}
