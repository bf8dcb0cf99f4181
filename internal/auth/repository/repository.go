package repository

import authdomain "proview-backend/internal/auth/domain"

// ProfileRepository defines the data access surface for user profiles and
// refresh tokens.
type ProfileRepository interface {
	Create(profile *authdomain.Profile) error
	FindByEmail(email string) (*authdomain.Profile, error)
	FindByID(id string) (*authdomain.Profile, error)
	Update(profile *authdomain.Profile) error

	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
	DeleteRefreshTokensByUser(userID string) error
}
