package auth

import (
	"net/http"

	"tourbook/config"
	"tourbook/infras/otel"
	"tourbook/internal/domains/auth/model/dto"
	"tourbook/internal/domains/auth/service"
	userDto "tourbook/internal/domains/user/model/dto"
	"tourbook/shared/constant"
	"tourbook/shared/validator"
	"tourbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Auth, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh", handler.Refresh)
		r.Post("/logout", handler.Logout)
	})

	r.Post("/setup/admin", handler.SetupAdmin)
}

// Register handles user registration
// @Summary Register a new tourist
// @Description Create a tourist account and open a session. The access token is also set as the session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Data[dto.SessionResponse] "User registered successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Auth.Register")
	defer scope.End()

	req := dto.RegisterRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register user")

		response.WithError(w, err)

		return
	}

	handler.setSession(w, res)
	scope.AddEvent("User registered successfully")

	response.WithData(w, http.StatusCreated, res, "User registered successfully")
}

// Login handles user login
// @Summary Login a user
// @Description Check the credentials and open a session.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.SessionResponse] "User logged in successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Auth.Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to login user")

		response.WithError(w, err)

		return
	}

	handler.setSession(w, res)
	scope.AddEvent("User logged in successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// Refresh issues a new token pair
// @Summary Refresh the session
// @Description Exchange a refresh token, from the body or the refresh cookie, for a new pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "Refresh Token Request"
// @Success 200 {object} response.Data[dto.SessionResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/auth/refresh [post]
func (handler *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Auth.Refresh")
	defer scope.End()

	req := dto.RefreshTokenRequest{}

	if r.ContentLength > 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	if req.RefreshToken == "" {
		if cookie, err := r.Cookie(handler.refreshCookieName()); err == nil {
			req.RefreshToken = cookie.Value
		}
	}

	res, err := handler.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refresh session")

		response.WithError(w, err)

		return
	}

	handler.setSession(w, res)

	response.WithJSON(w, http.StatusOK, res)
}

// Logout clears the session cookies
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Message
// @Router /api/auth/logout [post]
func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Auth.Logout")
	defer scope.End()

	handler.clearSession(w)

	response.WithMessage(w, http.StatusOK, "Logged out successfully")
}

// SetupAdmin creates the first administrator
// @Summary Create the first admin
// @Description Only allowed while no admin account exists.
// @Tags Setup
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Admin account"
// @Success 201 {object} response.Data[userDto.UserResponse] "Admin user created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/setup/admin [post]
func (handler *Handler) SetupAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Auth.SetupAdmin")
	defer scope.End()

	req := dto.RegisterRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	var res userDto.UserResponse

	res, err := handler.service.SetupAdmin(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create admin")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admin user created")

	response.WithData(w, http.StatusCreated, res, "Admin user created successfully")
}
