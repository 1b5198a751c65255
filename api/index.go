package handler

import (
	"net/http"
	"sync"

	"libraryhub/config"
	"libraryhub/di"
	"libraryhub/shared/logger"
	"libraryhub/transport/http/response"

	transport "libraryhub/transport/http"

	"github.com/rs/zerolog/log"
)

var (
	server  *transport.HTTP
	initErr error
	once    sync.Once
)

// Handler is the serverless entrypoint. The service graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		server, _, initErr = di.InitializeService()
		if initErr != nil {
			log.Error().Err(initErr).Msg("Failed to initialize service")
		}
	})

	if initErr != nil {
		response.WithUnhealthy(w)

		return
	}

	server.ServeHTTP(w, r)
}
