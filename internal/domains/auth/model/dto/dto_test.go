package dto_test

import (
	"testing"

	"tourbook/infras/jwt"
	"tourbook/internal/domains/auth/model/dto"
	userModel "tourbook/internal/domains/user/model"
	"tourbook/shared/constant"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{Email: "  Nimal@Example.com ", Password: "secret-pass", FullName: " Nimal Perera "}

	t.Run("self registration", func(t *testing.T) {
		user := req.ToUserModel(constant.RoleTourist, "hashed", "")

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "nimal@example.com", user.Email)
		assert.Equal(t, "Nimal Perera", user.FullName)
		assert.Equal(t, "hashed", user.Password)
		assert.Equal(t, constant.RoleTourist, user.Role)
		assert.True(t, user.Active)
		assert.Equal(t, user.ID, user.CreatedBy)
	})

	t.Run("created by another actor", func(t *testing.T) {
		user := req.ToUserModel(constant.RoleAdmin, "hashed", constant.ContextSystem)

		assert.Equal(t, constant.RoleAdmin, user.Role)
		assert.Equal(t, constant.ContextSystem, user.CreatedBy)
	})
}

func TestSessionResponse_FromTokenPair(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 3600}
	user := userModel.User{ID: "user-1", Email: "a@b.lk", Role: constant.RoleProvider, Password: "hashed"}

	var res dto.SessionResponse
	res.FromTokenPair(pair, user)

	assert.Equal(t, "access", res.AccessToken)
	assert.Equal(t, "refresh", res.RefreshToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "user-1", res.User.ID)
	assert.Equal(t, constant.RoleProvider, res.User.Role)
}
