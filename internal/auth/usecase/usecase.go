package usecase

import (
	authdomain "proview-backend/internal/auth/domain"
	authdto "proview-backend/internal/auth/dto"
)

// AvatarResolver turns a stored avatar object path into a public URL.
// Satisfied by pkg/storage.Client.
type AvatarResolver interface {
	PublicURL(path string) string
}

// AuthUsecase defines the business logic for accounts and sessions
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	GoogleSignIn(idToken string) (*authdto.TokenResponse, error)

	// GoogleCodeSignIn exchanges a server auth code for Google tokens and
	// signs the user in with the resulting ID token
	GoogleCodeSignIn(code string) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error

	// ValidateToken resolves a bearer token to the owning profile
	ValidateToken(tokenString string) (*authdomain.Profile, error)

	// UpdateProfile changes the display name and optionally the avatar path
	UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdto.ProfileResponse, error)

	// ProfileResponse renders a profile with its avatar resolved to a public URL
	ProfileResponse(profile *authdomain.Profile) *authdto.ProfileResponse

	// SetAvatarResolver wires the avatar storage client (optional)
	SetAvatarResolver(resolver AvatarResolver)
}
