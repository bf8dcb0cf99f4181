package delivery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	authdomain "proview-backend/internal/auth/domain"
	authdto "proview-backend/internal/auth/dto"
	"proview-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AvatarStore uploads avatar image objects. Satisfied by pkg/storage.Client.
type AvatarStore interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error)
}

// AuthHandler handles account and session HTTP requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	avatarStore AvatarStore
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, avatarStore AvatarStore) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		avatarStore: avatarStore,
	}
}

// Login authenticates with email and password
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authUsecase.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Register creates a new account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authUsecase.Register(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tokens)
}

// GoogleSignIn authenticates with a Google ID token
// POST /api/auth/google
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req authdto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tokens *authdto.TokenResponse
	var err error
	switch {
	case req.Code != "":
		tokens, err = h.authUsecase.GoogleCodeSignIn(req.Code)
	case req.Token != "":
		tokens, err = h.authUsecase.GoogleSignIn(req.Token)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "token or code is required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// RefreshToken exchanges a refresh token for a new token pair
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authUsecase.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout revokes a refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.Logout(req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated profile
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	profile := currentProfile(c)
	if profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	c.JSON(http.StatusOK, h.authUsecase.ProfileResponse(profile))
}

// UpdateProfile changes the display name and/or avatar path
// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var req authdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.authUsecase.UpdateProfile(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar stores an avatar image and links it to the profile
// POST /api/auth/avatar
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	if h.avatarStore == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "avatar storage is not configured"})
		return
	}

	profile := currentProfile(c)
	if profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	objectPath := fmt.Sprintf("profile-images/%s%s", profile.ID, filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	path, err := h.avatarStore.Upload(c.Request.Context(), objectPath, contentType, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.authUsecase.UpdateProfile(profile.ID, &authdto.UpdateProfileRequest{
		Name:       profile.Name,
		AvatarPath: &path,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func currentProfile(c *gin.Context) *authdomain.Profile {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	profile, ok := v.(*authdomain.Profile)
	if !ok {
		return nil
	}
	return profile
}
