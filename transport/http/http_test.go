package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryhub/config"
	identityMocks "libraryhub/infras/identity/mocks"
	otelMocks "libraryhub/infras/otel/mocks"
	customerMocks "libraryhub/internal/domains/customer/mocks"
	"libraryhub/permissions"
	"libraryhub/shared/constant"
	transport "libraryhub/transport/http"
	"libraryhub/transport/http/middleware"
	"libraryhub/transport/http/router"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T) *transport.HTTP {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := &config.Config{}
	tracer := otelMocks.NewOtel()

	app := middleware.NewAppMiddleware(tracer, cfg, nil)
	authRole := middleware.NewAuthRoleMiddleware(
		identityMocks.NewMockVerifier(ctrl),
		customerMocks.NewMockCustomerService(ctrl),
		tracer,
		permissions.Get(),
		cfg,
	)

	return transport.New(cfg, router.New(router.DomainHandlers{}), app, authRole)
}

func TestHealth(t *testing.T) {
	server := newServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(constant.RequestHeaderRequestID))
	assert.Equal(t, transport.ServerStateReady, server.State())
}

func TestProtectedRouteWithoutCredential(t *testing.T) {
	server := newServer(t)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reservations/my", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
