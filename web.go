package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("buzzer v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		log.Debug().
			Int("bytes", written).
			Str("remote", realIP(r)).
			Dur("took", time.Since(startTime)).
			Msg("SERVE: Version page")
	}
}

func serveStats(cfg *Config, metrics *Metrics, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(metrics.Snapshot()); err != nil {
			errs <- err
		}
	}
}

// newRouter wires every route onto a fresh router. The returned handler is
// wrapped in CORS handling when origins are configured.
func newRouter(cfg *Config, hub *Hub, metrics *Metrics, errs chan<- error) http.Handler {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		log.Error().Interface("panic", i).Str("path", r.URL.Path).Msg("SERVE: Handler panicked")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		_, _ = io.WriteString(w, newPage(cfg, "Server Error", "An error has occurred. Please try again."))
	}

	registerBuzzer(cfg, hub, metrics, errs, mux)

	mux.GET(cfg.prefix+"/favicon.svg", serveFavicon(cfg, errs))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/stats", serveStats(cfg, metrics, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	if len(cfg.corsOrigins) == 0 {
		return mux
	}

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedOrigins: cfg.corsOrigins,
	})

	return c.Handler(mux)
}

func ServePage(ctx context.Context, cfg *Config) error {
	var err error

	setupLogging(cfg)

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return fmt.Errorf("load time zone %q: %w", timeZone, err)
		}
	}

	log.Info().Msg("START: buzzer v" + releaseVersion)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	publisher, err := newRoundPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	metrics := newMetrics()

	hub := newHub(cfg, clockwork.NewRealClock(), metrics, publisher)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	go hub.run(hubCtx)

	errs := make(chan error, 64)
	go drainErrors(errs)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(cfg, hub, metrics, errs),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		log.Info().
			Str("url", fmt.Sprintf("%s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)).
			Int("reset_time", cfg.resetTime).
			Msg("SERVE: Listening")

		var err error
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}

	log.Info().Msg("SERVE: Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stopHub()
	<-hub.done

	return srv.Shutdown(shutdownCtx)
}
