package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"CPMS-backend/internal/platform/auth"
	"CPMS-backend/internal/platform/db"
	"CPMS-backend/internal/platform/events"
	"CPMS-backend/internal/platform/logging"
	"CPMS-backend/internal/rental/bills"
	"CPMS-backend/internal/rental/challans"
	"CPMS-backend/internal/rental/clients"
	"CPMS-backend/internal/rental/docgen"
	"CPMS-backend/internal/rental/ledger"
	"CPMS-backend/internal/rental/returns"
	"CPMS-backend/internal/rental/settings"
	"CPMS-backend/internal/rental/sizes"
	"CPMS-backend/internal/rental/stock"
)

func main() {
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	logging.Setup(cfg.LogLevel)
	log := logging.L()

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: set mode to dev or release in config/config.yaml")
		return
	}
	log.WithField("mode", cfg.Mode).Info("starting")

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	log.WithField("database", cfg.DB.DBName).Info("connected to DB")

	hub := events.NewHub(cfg.RedisAddr)

	renderer, err := docgen.NewRenderer(
		cfg.Documents.IssueTemplate, cfg.Documents.ReturnTemplate, cfg.Documents.FontFile)
	if err != nil {
		panic(err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		// CORS for the dev frontend only
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	secret := []byte(cfg.JWTSecret)
	authPublic := r.Group("/api/v1/auth")
	authAdmin := r.Group("/api/v1/auth")
	if cfg.JWTSecret != "" {
		authAdmin.Use(auth.RequireAuth(secret), auth.RequireRole("admin"))
	}
	auth.RegisterRoutes(authPublic, authAdmin, auth.NewService(conn, secret))

	api := r.Group("/api/v1")
	if cfg.JWTSecret != "" {
		api.Use(auth.RequireAuth(secret))
	}

	settingsSvc := settings.NewService(conn, hub, cfg.DefaultLocale)

	clients.RegisterRoutes(api, clients.NewService(conn))
	challans.RegisterRoutes(api, challans.NewService(conn, hub))
	returns.RegisterRoutes(api, returns.NewService(conn, hub))
	stock.RegisterRoutes(api, stock.NewService(conn, hub))
	sizes.RegisterRoutes(api, sizes.NewService(conn, hub))
	bills.RegisterRoutes(api, bills.NewService(conn, hub))
	ledger.RegisterRoutes(api, ledger.NewService(conn))
	settings.RegisterRoutes(api, settingsSvc)
	docgen.RegisterRoutes(api, docgen.NewService(conn, renderer, settingsSvc))
	events.RegisterRoutes(api, hub)

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: r,
	}

	go func() {
		var err error
		if cfg.Certificate.Cert != "" && cfg.Certificate.Key != "" {
			certFile := fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Cert)
			keyFile := fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Key)
			log.WithField("addr", cfg.Listen).Info("listening with TLS")
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			log.WithField("addr", cfg.Listen).Info("listening")
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
