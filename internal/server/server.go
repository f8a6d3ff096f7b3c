package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/formloop/formloop-services/api/internal/config"
	"github.com/formloop/formloop-services/api/internal/forms/application"
	"github.com/formloop/formloop-services/api/internal/infrastructure/mail"
	mongodoc "github.com/formloop/formloop-services/api/internal/infrastructure/mongo"
	"github.com/formloop/formloop-services/api/internal/infrastructure/recaptcha"
	templaterender "github.com/formloop/formloop-services/api/internal/infrastructure/template"
	adminhttp "github.com/formloop/formloop-services/api/internal/interfaces/http/admin"
	commonhttp "github.com/formloop/formloop-services/api/internal/interfaces/http/common"
	publichttp "github.com/formloop/formloop-services/api/internal/interfaces/http/public"
)

// Server manages the HTTP lifecycle and acts as the composition root:
// it builds the pipeline's collaborators and injects them into the
// public and admin handlers.
type Server struct {
	logger            *log.Logger
	client            *mongo.Client
	database          *mongo.Database
	submissionService application.SubmissionService
	entryQueries      application.EntryQueryService
	formRepo          application.FormRepository
	jwtConfigs        []config.JWTConfig
	jwtAudience       string
	flashSecret       []byte
	flashSecure       bool
	addr              string
	allowedOrigins    []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run starts the HTTP server with the public and admin routes mounted.
// Infrastructure wiring only; domain logic stays in the inner layers.
func (s *Server) Run() error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:      s.logger,
		Submissions: s.submissionService,
		FlashSecret: s.flashSecret,
		FlashSecure: s.flashSecure,
	})
	publicHandler.Register(router)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:  s.logger,
		Entries: s.entryQueries,
		Forms:   s.formRepo,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS adds CORS headers for the configured origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-Requested-With")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports MongoDB reachability for monitoring probes.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware validates the bearer JWT on admin routes and stores
// the authenticated principal into the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "a Bearer token is required"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "access token is empty"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		user := authenticatedUser{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken tries every configured JWT secret in order and checks
// signature, issuer, audience, and validity window.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("auth configuration missing")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}

		now := time.Now()
		if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
			continue
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("access token is invalid")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// writeJSON is the shared JSON response writer for server-level routes.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON encode failed: %v", err)
	}
}

// shutdown disconnects the MongoDB client with a timeout.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("error during MongoDB disconnect: %v", err)
	}
}

// waitForShutdown watches ListenAndServe and OS signals to drive a
// graceful shutdown.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("server exited abnormally: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("error during HTTP shutdown: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New assembles the pipeline from Config and a connected Mongo client.
func New(cfg config.Config, client *mongo.Client) (*Server, error) {
	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		database:       client.Database(cfg.MongoDatabase),
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		flashSecret:    append([]byte(nil), cfg.FlashCookieSecret...),
		flashSecure:    cfg.FlashCookieSecure,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	formRepo := mongodoc.NewFormRepository(srv.database, cfg.FormCollection)
	entryRepo := mongodoc.NewEntryRepository(srv.database, cfg.ElementCollection, cfg.EntryCollection)
	audit := mongodoc.NewNotificationAudit(srv.database, cfg.FailedNotificationCollection)

	renderer, err := templaterender.New(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	var mailer application.Mailer
	if cfg.SMTP.Host != "" {
		smtpMailer, err := mail.New(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create mailer: %w", err)
		}
		mailer = smtpMailer
	} else {
		cfg.ServerLog.Printf("SMTP host not configured, notification sends will fail")
	}

	var captcha application.CaptchaVerifier
	if cfg.RecaptchaSecret != "" {
		captcha = recaptcha.New(recaptcha.Config{
			HTTPClient: &http.Client{Timeout: cfg.RecaptchaTimeout},
			Endpoint:   cfg.RecaptchaEndpoint,
			Secret:     cfg.RecaptchaSecret,
		})
	}

	notifications := application.NewNotificationService(cfg.ServerLog, renderer, mailer, audit, cfg.SiteName)
	srv.submissionService = application.NewSubmissionService(application.Config{
		Logger:        cfg.ServerLog,
		Forms:         formRepo,
		Entries:       entryRepo,
		Captcha:       captcha,
		Notifications: notifications,
	})
	srv.entryQueries = application.NewEntryQueryService(entryRepo)
	srv.formRepo = formRepo

	return srv, nil
}
