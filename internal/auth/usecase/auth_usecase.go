package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	authdomain "proview-backend/internal/auth/domain"
	authdto "proview-backend/internal/auth/dto"
	"proview-backend/internal/auth/repository"
	"proview-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	profileRepo repository.ProfileRepository
	config      *config.Config
	avatars     AvatarResolver
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(profileRepo repository.ProfileRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		profileRepo: profileRepo,
		config:      cfg,
	}
}

func (u *authUsecase) SetAvatarResolver(resolver AvatarResolver) {
	u.avatars = resolver
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	profile, err := u.profileRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		return nil, errors.New("invalid email or password")
	}

	if profile.Provider != "email" {
		return nil, errors.New("please use Google Sign-In for this account")
	}

	if !repository.CheckPasswordHash(req.Password, profile.Password) {
		return nil, errors.New("invalid email or password")
	}

	return u.generateTokens(profile)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.profileRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &authdomain.Profile{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Provider: "email",
	}

	if err := u.profileRepo.Create(profile); err != nil {
		return nil, err
	}

	return u.generateTokens(profile)
}

// GoogleTokenInfo represents the response from Google's tokeninfo endpoint
type GoogleTokenInfo struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified string `json:"email_verified"` // Google returns this as string "true" or "false"
	Sub           string `json:"sub"`
}

func (u *authUsecase) GoogleSignIn(idToken string) (*authdto.TokenResponse, error) {
	// Verify ID token by calling Google's tokeninfo endpoint
	url := fmt.Sprintf("https://oauth2.googleapis.com/tokeninfo?id_token=%s", idToken)

	resp, err := http.Get(url)
	if err != nil {
		return nil, errors.New("failed to verify Google token: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to verify Google token: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tokenInfo GoogleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, errors.New("failed to decode Google token info: " + err.Error())
	}

	if tokenInfo.EmailVerified != "true" {
		return nil, errors.New("google email is not verified")
	}

	// Find or create profile
	profile, err := u.profileRepo.FindByEmail(tokenInfo.Email)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		profile = &authdomain.Profile{
			Email:    tokenInfo.Email,
			Name:     tokenInfo.Name,
			Provider: "google",
		}
		if err := u.profileRepo.Create(profile); err != nil {
			return nil, err
		}
	} else {
		profile.Name = tokenInfo.Name
		if err := u.profileRepo.Update(profile); err != nil {
			return nil, err
		}
	}

	return u.generateTokens(profile)
}

func (u *authUsecase) GoogleCodeSignIn(code string) (*authdto.TokenResponse, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     u.config.GoogleClientID,
		ClientSecret: u.config.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		// "postmessage" is the redirect Google expects for server auth codes
		// obtained by native and SPA clients.
		RedirectURL: "postmessage",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.New("failed to exchange Google auth code: " + err.Error())
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return nil, errors.New("google token response is missing an ID token")
	}

	return u.GoogleSignIn(idToken)
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	// Check if token exists in repository
	storedToken, err := u.profileRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	profile, err := u.profileRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		return nil, errors.New("user not found")
	}

	return u.generateTokens(profile)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.profileRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdto.ProfileResponse, error) {
	profile, err := u.profileRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("user not found")
	}

	profile.Name = req.Name
	if req.AvatarPath != nil {
		profile.AvatarPath = *req.AvatarPath
	}

	if err := u.profileRepo.Update(profile); err != nil {
		return nil, err
	}

	return u.ProfileResponse(profile), nil
}

func (u *authUsecase) ProfileResponse(profile *authdomain.Profile) *authdto.ProfileResponse {
	avatarURL := profile.AvatarPath
	if u.avatars != nil {
		avatarURL = u.avatars.PublicURL(profile.AvatarPath)
	}
	return &authdto.ProfileResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: avatarURL,
		Provider:  profile.Provider,
	}
}

func (u *authUsecase) generateTokens(profile *authdomain.Profile) (*authdto.TokenResponse, error) {
	accessToken, err := u.generateAccessToken(profile)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.generateRefreshToken(profile)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    profile.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.profileRepo.SaveRefreshToken(refreshTokenEntity); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         u.ProfileResponse(profile),
	}, nil
}

func (u *authUsecase) generateAccessToken(profile *authdomain.Profile) (string, error) {
	claims := jwt.MapClaims{
		"user_id": profile.ID,
		"email":   profile.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(profile *authdomain.Profile) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  profile.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.Profile, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	profile, err := u.profileRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		return nil, errors.New("user not found")
	}

	return profile, nil
}
