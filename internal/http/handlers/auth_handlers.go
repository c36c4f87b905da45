package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/auth"
	"github.com/rogerio-castellano/stock-ledger/internal/models"
	"github.com/rogerio-castellano/stock-ledger/internal/repo"
)

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 429 {object} ErrorResponse "Rate limit exceeded"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil || validateRequest(credentials) != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, err := userRepo.GetByUsername(r.Context(), credentials.Username)
	if err != nil {
		if !errors.Is(err, repo.ErrUserNotFound) {
			writeError(w, r, err)
			return
		}
		writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, credentials.Password) {
		logger.Info("login failed", zap.String("username", credentials.Username))
		writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	issueTokens(w, r, user)
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "refresh token"
// @Success 200 {object} LoginResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || validateRequest(req) != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid input")
		return
	}

	username, err := refreshStore.Consume(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenNotFound) {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		writeError(w, r, err)
		return
	}

	user, err := userRepo.GetByUsername(r.Context(), username)
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	issueTokens(w, r, user)
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param body body RefreshRequest true "refresh token"
// @Success 204 "Logged out"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Router /logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || validateRequest(req) != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid input")
		return
	}
	if err := refreshStore.Revoke(r.Context(), req.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func issueTokens(w http.ResponseWriter, r *http.Request, user models.User) {
	token, err := tokenIssuer.GenerateToken(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	refreshToken, err := auth.NewRefreshToken()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := refreshStore.Save(r.Context(), refreshToken, user.Username, refreshTTL); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresIn:    int(tokenIssuer.TTL().Seconds()),
	})
}

// RegisterAsAdminHandler godoc
// @Summary Create user with custom role
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body RegisterAsAdminRequest true "User to create with role"
// @Success 201 {object} UserResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "User exists"
// @Failure 422 {object} ValidationErrorResponse "Validation failed"
// @Router /admin/users [post]
func RegisterAsAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterAsAdminRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: errs})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := userRepo.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			writeErrorMessage(w, http.StatusConflict, "username already exists")
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{ID: user.ID, Username: user.Username, Role: user.Role})
}
