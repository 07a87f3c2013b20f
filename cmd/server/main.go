package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmarkin/tenant_portal/internal/config"
	"github.com/dmarkin/tenant_portal/internal/es"
	"github.com/dmarkin/tenant_portal/internal/handlers"
	"github.com/dmarkin/tenant_portal/internal/logging"
	authmw "github.com/dmarkin/tenant_portal/internal/middleware/auth"
	loggingmw "github.com/dmarkin/tenant_portal/internal/middleware/logging"
	"github.com/dmarkin/tenant_portal/internal/mykafka"
	"github.com/dmarkin/tenant_portal/internal/repo"
	"github.com/dmarkin/tenant_portal/internal/service"
	"github.com/dmarkin/tenant_portal/internal/tokens"
	httpserver "github.com/dmarkin/tenant_portal/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	issuer := &tokens.Issuer{
		Secret:     []byte(configuration.JWT_SECRET),
		AccessTTL:  configuration.ACCESS_TOKEN_TTL,
		RefreshTTL: configuration.REFRESH_TOKEN_TTL,
	}

	store := &repo.GormRepo{DB: db}

	userSvc := &service.UserService{Repo: store, Index: "users"}
	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		userSvc.ES = client
	}

	authSvc := &service.AuthService{Repo: store, Issuer: issuer, Producer: prod}
	tenantSvc := &service.TenantService{Repo: store, Users: userSvc, Producer: prod}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Gate: &authmw.Gate{Issuer: issuer},
		AuthHandler: &handlers.AuthHandler{
			Svc:        authSvc,
			AccessTTL:  configuration.ACCESS_TOKEN_TTL,
			RefreshTTL: configuration.REFRESH_TOKEN_TTL,
		},
		TenantHandler: &handlers.TenantHandler{Svc: tenantSvc},
		UserHandler:   &handlers.UserHandler{Svc: userSvc},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
