package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aichat-labs/chat-backend/internal/auth"
	"github.com/aichat-labs/chat-backend/internal/chat"
	"github.com/aichat-labs/chat-backend/internal/config"
	"github.com/aichat-labs/chat-backend/internal/db"
	"github.com/aichat-labs/chat-backend/internal/middleware"
	"github.com/aichat-labs/chat-backend/internal/payment"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := auth.Init(gdb); err != nil {
		log.Fatal(err)
	}
	if err := chat.Init(gdb); err != nil {
		log.Fatal(err)
	}
	if err := payment.Init(gdb); err != nil {
		log.Fatal(err)
	}

	store := auth.NewGormStore(gdb)
	sessions := auth.NewSessionManager(cfg.SessionSecret)
	stopJanitor := sessions.StartJanitor(time.Hour)
	defer stopJanitor()

	authHandler := auth.NewHandler(auth.NewService(store, sessions), cfg.IsProduction())
	completer := chat.NewCompletionClient(cfg.CompletionEndpoint, cfg.CompletionKey, cfg.CompletionModel)
	chatHandler := chat.NewHandler(gdb, store, completer)
	paymentHandler := payment.NewHandler(gdb, store, cfg.PaymentWebhookSecret)

	guard := middleware.SessionMiddleware(sessions)
	limit := middleware.RateLimit(5, 10)

	r := chi.NewRouter()
	r.Use(middleware.Recover)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Get("/", RootHandler)

	r.Mount("/api/auth", auth.SetupRoutes(authHandler, limit))
	r.Mount("/api/chat", chat.SetupRoutes(chatHandler, guard))
	r.Mount("/api/payment", payment.SetupRoutes(paymentHandler, guard))

	log.Printf("Server listening on port :%s...", cfg.Port)
	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
