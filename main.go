package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"backstage-api/api"
	"backstage-api/storage"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	connStr := os.Getenv("STORAGE_CONNECTION_STRING")
	cfg := storage.Config{
		TasksTable:     os.Getenv("TASKS_TABLE"),
		StaffTable:     os.Getenv("STAFF_TABLE"),
		CustomersTable: os.Getenv("CUSTOMERS_TABLE"),
		InventoryTable: os.Getenv("INVENTORY_TABLE"),
		DocumentsTable: os.Getenv("DOCUMENTS_TABLE"),
		ArtistsTable:   os.Getenv("ARTISTS_TABLE"),
		EventQueue:     os.Getenv("CHANGE_EVENTS_QUEUE"),
	}
	if connStr == "" || cfg.TasksTable == "" || cfg.StaffTable == "" || cfg.CustomersTable == "" ||
		cfg.InventoryTable == "" || cfg.DocumentsTable == "" || cfg.ArtistsTable == "" || cfg.EventQueue == "" {
		log.Fatal("missing storage config")
	}
	if v := os.Getenv("TASKS_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid TASKS_PAGE_SIZE: %v", err)
		}
		if n <= 0 {
			log.Fatalf("invalid TASKS_PAGE_SIZE: must be greater than zero")
		}
		cfg.TaskPageSize = n
	}
	store, err := storage.New(connStr, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	provisionCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := store.EnsureTables(provisionCtx); err != nil {
		log.Fatalf("provision tables: %v", err)
	}
	cancel()

	redisConn := os.Getenv("REDIS_CONNECTION_STRING")
	if redisConn == "" {
		log.Fatal("missing redis config")
	}
	redisOpts, err := redis.ParseURL(redisConn)
	if err != nil {
		parts := strings.Split(redisConn, ",")
		redisOpts = &redis.Options{Addr: parts[0]}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch strings.ToLower(kv[0]) {
			case "password":
				redisOpts.Password = kv[1]
			case "ssl":
				if strings.ToLower(kv[1]) == "true" {
					redisOpts.TLSConfig = &tls.Config{}
				}
			}
		}
	}
	rc := redis.NewClient(redisOpts)

	cacheTTL := 5 * time.Minute
	if v := os.Getenv("BOARD_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			log.Fatalf("invalid BOARD_CACHE_TTL: %v", err)
		}
		cacheTTL = d
	}
	cached := storage.NewCache(store, rc, cacheTTL)

	dedupeTTL := 24 * time.Hour
	if v := os.Getenv("DEDUPER_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("invalid DEDUPER_TTL: %v", err)
		}
		dedupeTTL = d
	}
	deduper := api.NewRedisDeduper(rc, dedupeTTL)

	var auth *api.Auth
	if os.Getenv("AUTH_TEST_MODE") == "1" {
		secret := os.Getenv("TEST_JWT_SECRET")
		if secret == "" {
			log.Fatal("TEST_JWT_SECRET must be set when AUTH_TEST_MODE=1")
		}
		auth = api.NewTestAuth([]byte(secret))
	} else {
		jwtAudience := os.Getenv("AUTH_AUDIENCE")
		domain := os.Getenv("AUTH_DOMAIN")
		if jwtAudience == "" || domain == "" {
			log.Fatal("missing auth config")
		}
		jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
		if err != nil {
			log.Fatalf("jwks: %v", err)
		}
		auth = api.NewAuth(jwks, jwtAudience, "https://"+domain+"/")
	}

	notifyChannel := os.Getenv("CHANGE_NOTIFY_CHANNEL")
	if notifyChannel == "" {
		notifyChannel = "board-updates"
	}

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
	}))
	e.Use(api.GzipRequestMiddleware())

	logger := log.New()
	api.Register(e, cached, auth, deduper, rc, notifyChannel, logger)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("FUNCTIONS_CUSTOMHANDLER_PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}
