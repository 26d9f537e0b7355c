package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tourbook/config"
	"tourbook/infras/jwt"
	"tourbook/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(accessMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "tourbook-test"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = accessMin
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg)
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService(15)

	pair, err := svc.GenerateTokenPair("user-1", "nimal@example.com", constant.RoleTourist)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, constant.RoleTourist, claims.Role)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken, "access token is signed with the access secret")

	refresh, err := svc.ValidateToken(pair.RefreshToken, jwt.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.RefreshToken, refresh.Type)
}

func TestValidateExpired(t *testing.T) {
	svc := newService(-5)

	pair, err := svc.GenerateTokenPair("user-1", "nimal@example.com", constant.RoleTourist)
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestValidateGarbage(t *testing.T) {
	_, err := newService(15).ValidateToken("not-a-token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		header     string
		wantToken  string
		wantSource string
		wantErr    bool
	}{
		{name: "cookie wins", cookie: "c-token", header: "Bearer h-token", wantToken: "c-token", wantSource: constant.AuthSourceCookie},
		{name: "bearer header", header: "Bearer h-token", wantToken: "h-token", wantSource: constant.AuthSourceHeader},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "nothing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "session", Value: tt.cookie})
			}

			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			token, source, err := jwt.ExtractToken(r, "session")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}
