package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Veraticus/creditbook/internal/auth"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/gin-gonic/gin"
)

// RegisterRequest creates a user.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
	Mobile   string `json:"mobile" validate:"omitempty,len=9,numeric"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPRequest completes a two-step login.
type VerifyOTPRequest struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required,len=4,numeric"`
}

// AuthResponse is returned once a session is established.
type AuthResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// ChallengeResponse tells the client a code was sent.
type ChallengeResponse struct {
	ExpiresAt   time.Time `json:"expiresAt"`
	Username    string    `json:"username"`
	OTPRequired bool      `json:"otpRequired"`
}

// Register handles POST /v1/auth/register.
func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ok, err := s.store.Register(c.Request.Context(), req.Username, req.Password, req.Mobile)
	if errors.Is(err, common.ErrPasswordTooLong) {
		RespondWithError(c, http.StatusBadRequest, "Password must be at most 72 bytes")
		return
	}
	if err != nil {
		s.logger.Error("failed to register user", "username", req.Username, "error", err)
		RespondWithError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if !ok {
		RespondWithError(c, http.StatusConflict, "Username already exists")
		return
	}

	c.JSON(http.StatusCreated, model.User{Username: req.Username, Mobile: req.Mobile})
}

// Login handles POST /v1/auth/login.
func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if s.cfg.OTPEnabled {
		challenge, err := s.store.BeginOTPLogin(ctx, req.Username, req.Password)
		if errors.Is(err, common.ErrInvalidCredentials) {
			RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			s.logger.Error("failed to issue login code", "username", req.Username, "error", err)
			RespondWithError(c, http.StatusBadGateway, "Failed to send login code")
			return
		}
		c.JSON(http.StatusAccepted, ChallengeResponse{
			Username:    challenge.Username,
			ExpiresAt:   challenge.ExpiresAt,
			OTPRequired: true,
		})
		return
	}

	if !s.store.Login(ctx, req.Username, req.Password) {
		RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.respondWithSession(c)
}

// VerifyOTP handles POST /v1/auth/otp/verify.
func (s *Server) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	err := s.store.VerifyOTP(req.Username, req.Code)
	switch {
	case err == nil:
		s.respondWithSession(c)
	case errors.Is(err, auth.ErrTooManyAttempts):
		RespondWithError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, auth.ErrCodeMismatch),
		errors.Is(err, auth.ErrChallengeExpired),
		errors.Is(err, auth.ErrChallengeNotFound):
		RespondWithError(c, http.StatusUnauthorized, err.Error())
	default:
		s.logger.Error("failed to verify login code", "username", req.Username, "error", err)
		RespondWithError(c, http.StatusInternalServerError, "Failed to verify login code")
	}
}

// Logout handles POST /v1/auth/logout.
func (s *Server) Logout(c *gin.Context) {
	s.store.Logout()
	c.Status(http.StatusNoContent)
}

func (s *Server) respondWithSession(c *gin.Context) {
	user, ok := s.store.Session()
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "Session ended")
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("failed to issue token", "username", user.Username, "error", err)
		RespondWithError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}
