package customer

import (
	"net/http"

	"libraryhub/infras/otel"
	"libraryhub/internal/domains/customer/model/dto"
	"libraryhub/internal/domains/customer/service"
	"libraryhub/shared/constant"
	"libraryhub/shared/validator"
	"libraryhub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Customer
	otel    otel.Otel
}

func New(service service.Customer, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/customers", func(routerGroup chi.Router) {
		routerGroup.Post("/sync", handler.Sync)
		routerGroup.Get("/me", handler.Me)
	})
}

// Sync registers the authenticated caller as a customer, or returns the existing record.
// @Summary Sync the caller's customer profile
// @Tags Customer
// @Accept json
// @Produce json
// @Param request body dto.SyncCustomerRequest true "Customer profile"
// @Success 200 {object} response.Data[dto.SyncCustomerResponse] "Already registered"
// @Success 201 {object} response.Data[dto.SyncCustomerResponse] "Registered"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/customers/sync [post]
// @Security BearerAuth
func (handler *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Sync")
	defer scope.End()

	var req dto.SyncCustomerRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Sync(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to sync customer")

		response.WithError(w, err)

		return
	}

	code := http.StatusOK
	if res.Created {
		code = http.StatusCreated
	}

	response.WithJSON(w, code, res)
}

// Me returns the customer record of the authenticated caller.
// @Summary Get the caller's customer profile
// @Tags Customer
// @Produce json
// @Success 200 {object} response.Data[dto.CustomerResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/customers/me [get]
// @Security BearerAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Me")
	defer scope.End()

	res, err := handler.service.Me(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
