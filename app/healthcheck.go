package main

import (
	"context"
	"net/http"
	"time"
)

// healthCheckHandler reports the database and which object store holds uploads. A database that does
// not answer turns the status to unavailable.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status, database := "available", "up"

	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := app.db.PingContext(ctx); err != nil {
			app.logError(r, err)
			status, database = "unavailable", "down"
		}
	}

	storage := "minio"
	if app.memoryStore != nil {
		storage = "memory"
	}

	code := http.StatusOK
	if status != "available" {
		code = http.StatusServiceUnavailable
	}

	env := envelope{
		"status": status,
		"system_info": map[string]string{
			"environment": app.config.Environment,
			"version":     app.config.Version,
			"database":    database,
			"storage":     storage,
		},
	}

	err := app.writeJSON(w, code, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
