package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shashanksharma6338/register-live/pkg/api"
	"github.com/shashanksharma6338/register-live/pkg/realtime"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found, using environment defaults")
	}

	srv := realtime.Initialize(realtime.Options{
		AllowedOrigins: splitList(envString("ALLOWED_ORIGINS", "*")),
		CookieSecret:   envString("COOKIE_SECRET", "register-live-dev-secret"),
		MaxConnections: envInt("MAX_CONNECTIONS", 300),
	})
	s := (*structs.Server)(srv)

	handlers := api.New(s, credentialsFromEnv())
	handlers.Secure = envString("ENVIRONMENT", "dev") == "production"

	// Initialize app
	app := fiber.New()

	// Configure the channel transport
	app.Use("/ws", srv.Upgrader)
	app.Get("/ws", websocket.New(srv.Handler))

	// Initialize middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Request/response surface
	handlers.Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Background reclamation
	s.SessionStore.StartCleanup(10 * time.Minute)
	s.Games.StartSweeper(time.Minute)

	log.Fatal(app.Listen(":" + envString("PORT", "3000")))
}

func envString(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// credentialsFromEnv builds the credential contract from the USERS variable
// ("name:password:role" entries, comma separated). The surrounding
// application swaps in its user store through the same function type.
func credentialsFromEnv() api.CredentialChecker {
	users := make(map[string][2]string)
	for _, entry := range splitList(envString("USERS", "admin:admin:admin,player:player:gamer")) {
		fields := strings.SplitN(entry, ":", 3)
		if len(fields) != 3 {
			log.Printf("Skipping malformed USERS entry %q", entry)
			continue
		}
		users[fields[0]] = [2]string{fields[1], fields[2]}
	}
	return func(username string, password string) (string, bool) {
		creds, ok := users[username]
		if !ok || creds[0] != password {
			return "", false
		}
		return creds[1], true
	}
}
