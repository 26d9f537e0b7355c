package handler

import (
	"net/http"
	"sync"

	"tourbook/config"
	"tourbook/di"
	"tourbook/shared/logger"
	transport "tourbook/transport/http"
)

var (
	once    sync.Once
	service *transport.HTTP
)

// Handler is the serverless entrypoint. The service graph is built once per
// instance and reused across invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		service = di.InitializeService()
	})

	service.ServeHTTP(w, r)
}
