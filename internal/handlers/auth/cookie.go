package auth

import (
	"net/http"

	"tourbook/internal/domains/auth/model/dto"
	"tourbook/shared/constant"
)

const (
	refreshCookieSuffix = "_refresh"
	refreshCookiePath   = "/api/auth"
)

func (handler *Handler) refreshCookieName() string {
	return handler.cfg.JWT.Cookie.Name + refreshCookieSuffix
}

func (handler *Handler) cookie(name, value, path string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   handler.cfg.JWT.Cookie.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   handler.cfg.JWT.Cookie.Secure || handler.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}

func (handler *Handler) setSession(w http.ResponseWriter, session dto.SessionResponse) {
	jwtCfg := handler.cfg.JWT

	http.SetCookie(w, handler.cookie(jwtCfg.Cookie.Name, session.AccessToken, "/", jwtCfg.AccessExpireMin*constant.MinutesToSeconds))
	http.SetCookie(w, handler.cookie(handler.refreshCookieName(), session.RefreshToken, refreshCookiePath, jwtCfg.RefreshExpireMin*constant.MinutesToSeconds))
}

// clearSession expires both cookies.
func (handler *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, handler.cookie(handler.cfg.JWT.Cookie.Name, "", "/", -1))
	http.SetCookie(w, handler.cookie(handler.refreshCookieName(), "", refreshCookiePath, -1))
}
