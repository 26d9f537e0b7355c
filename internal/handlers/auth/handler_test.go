package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourbook/config"
	"tourbook/infras/otel/mocks"
	"tourbook/internal/domains/auth/model/dto"
	serviceMocks "tourbook/internal/domains/auth/service/mocks"
	userDto "tourbook/internal/domains/user/model/dto"
	"tourbook/internal/handlers/auth"
	"tourbook/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*serviceMocks.MockAuth, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := serviceMocks.NewMockAuth(ctrl)

	cfg := &config.Config{}
	cfg.JWT.Cookie.Name = "session"
	cfg.JWT.AccessExpireMin = 60
	cfg.JWT.RefreshExpireMin = 10080

	handler := auth.New(svc, cfg, mocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func session() dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		User:         userDto.UserResponse{ID: "user-1", Email: "ada@example.com"},
	}
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(svc *serviceMocks.MockAuth)
		wantCode   int
		wantCookie bool
	}{
		{
			name: "success sets session cookies",
			body: `{"email":"ada@example.com","password":"secret123"}`,
			setupMock: func(svc *serviceMocks.MockAuth) {
				svc.EXPECT().
					Login(gomock.Any(), dto.LoginRequest{Email: "ada@example.com", Password: "secret123"}).
					Return(session(), nil)
			},
			wantCode:   http.StatusOK,
			wantCookie: true,
		},
		{
			name:      "invalid body",
			body:      `{"email":"not-an-email"}`,
			setupMock: func(_ *serviceMocks.MockAuth) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "wrong credentials",
			body: `{"email":"ada@example.com","password":"wrong"}`,
			setupMock: func(svc *serviceMocks.MockAuth) {
				svc.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(dto.SessionResponse{}, failure.Unauthorized("Invalid email or password"))
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			sessionCookie := cookieByName(rec.Result().Cookies(), "session")
			if !tt.wantCookie {
				assert.Nil(t, sessionCookie)

				return
			}

			require.NotNil(t, sessionCookie)
			assert.Equal(t, "access", sessionCookie.Value)
			assert.True(t, sessionCookie.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, sessionCookie.SameSite)
			assert.Equal(t, 3600, sessionCookie.MaxAge)

			refreshCookie := cookieByName(rec.Result().Cookies(), "session_refresh")
			require.NotNil(t, refreshCookie)
			assert.Equal(t, "refresh", refreshCookie.Value)
			assert.Equal(t, "/api/auth", refreshCookie.Path)
		})
	}
}

func TestHandler_Refresh(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		cookie    string
		setupMock func(svc *serviceMocks.MockAuth)
		wantCode  int
	}{
		{
			name: "token from body",
			body: `{"refresh_token":"from-body"}`,
			setupMock: func(svc *serviceMocks.MockAuth) {
				svc.EXPECT().Refresh(gomock.Any(), "from-body").Return(session(), nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "falls back to the refresh cookie",
			cookie: "from-cookie",
			setupMock: func(svc *serviceMocks.MockAuth) {
				svc.EXPECT().Refresh(gomock.Any(), "from-cookie").Return(session(), nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "missing token",
			setupMock: func(svc *serviceMocks.MockAuth) {
				svc.EXPECT().Refresh(gomock.Any(), "").
					Return(dto.SessionResponse{}, failure.Unauthorized("Refresh token required"))
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(tt.body))
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session_refresh", Value: tt.cookie})
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	_, router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	for _, name := range []string{"session", "session_refresh"} {
		cookie := cookieByName(rec.Result().Cookies(), name)
		require.NotNil(t, cookie, name)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestHandler_SetupAdmin(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().SetupAdmin(gomock.Any(), gomock.Any()).
		Return(userDto.UserResponse{}, failure.Conflict("Admin user already exists"))

	body := `{"email":"root@example.com","password":"supersecret","full_name":"Root Admin"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/setup/admin", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin user already exists")
}
