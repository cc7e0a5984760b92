package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// serve runs the API until ctx is cancelled, then stops consuming events and drains open requests.
func (app *application) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + app.config.Port,
		Handler:      app.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.listen(srv)
	}()

	app.logger.Info("starting server", slog.String("addr", srv.Addr), slog.String("env", app.config.Environment))

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	app.logger.Info("shutting down server")

	if app.mailService != nil {
		app.mailService.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	app.logger.Info("stopped server", slog.String("addr", srv.Addr))

	return nil
}

func (app *application) listen(srv *http.Server) error {
	var err error
	if app.config.Environment == "production" {
		err = srv.ListenAndServeTLS(app.config.TLSCertFile, app.config.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
