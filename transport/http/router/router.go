package router

import (
	"libraryhub/internal/handlers/admin"
	"libraryhub/internal/handlers/customer"
	"libraryhub/internal/handlers/reservation"
	"libraryhub/internal/handlers/room"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Customer    customer.Handler
	Room        room.Handler
	Reservation reservation.Handler
	Admin       admin.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

// SetupRoutes registers every domain handler on the versioned route group.
func (r *Router) SetupRoutes(routerGroup chi.Router) {
	r.DomainHandlers.Customer.Router(routerGroup)
	r.DomainHandlers.Room.Router(routerGroup)
	r.DomainHandlers.Reservation.Router(routerGroup)
	r.DomainHandlers.Admin.Router(routerGroup)
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
