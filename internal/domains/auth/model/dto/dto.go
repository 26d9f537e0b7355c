package dto

import (
	"strings"

	"tourbook/infras/jwt"
	userModel "tourbook/internal/domains/user/model"
	userDto "tourbook/internal/domains/user/model/dto"
	gModel "tourbook/shared/model"
	"tourbook/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email,max=255"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=2,max=100,safetext"`
}

// ToUserModel builds an active user with role; the caller hashes the password first.
func (r *RegisterRequest) ToUserModel(role, hashedPassword, actor string) userModel.User {
	id := uuid.NewString()
	if actor == "" {
		actor = id
	}

	return userModel.User{
		ID:       id,
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: hashedPassword,
		FullName: strings.TrimSpace(r.FullName),
		Role:     role,
		Active:   true,
		Metadata: gModel.NewMetadata(actor, timezone.Now()),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

type SessionResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	TokenType    string               `json:"token_type"`
	ExpiresIn    int64                `json:"expires_in"`
	User         userDto.UserResponse `json:"user"`
}

func (r *SessionResponse) FromTokenPair(tokenPair *jwt.TokenPair, user userModel.User) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.TokenType = tokenPair.TokenType
	r.ExpiresIn = tokenPair.ExpiresIn
	r.User.FromModel(user)
}
