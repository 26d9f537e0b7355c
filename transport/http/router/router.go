package router

import (
	"tourbook/internal/handlers/auth"
	"tourbook/internal/handlers/booking"
	"tourbook/internal/handlers/payment"
	"tourbook/internal/handlers/preference"
	"tourbook/internal/handlers/provider"
	"tourbook/internal/handlers/review"
	"tourbook/internal/handlers/tour"
	"tourbook/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth       auth.Handler
	Tour       tour.Handler
	Booking    booking.Handler
	Review     review.Handler
	Provider   provider.Handler
	User       user.Handler
	Preference preference.Handler
	Payment    payment.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

// SetupRoutes registers every domain under the given group, normally /api.
func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Auth.Router(router)
	r.DomainHandlers.Tour.Router(router)
	r.DomainHandlers.Booking.Router(router)
	r.DomainHandlers.Review.Router(router)
	r.DomainHandlers.Provider.Router(router)
	r.DomainHandlers.User.Router(router)
	r.DomainHandlers.Preference.Router(router)
	r.DomainHandlers.Payment.Router(router)
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
