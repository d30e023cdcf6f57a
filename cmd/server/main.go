// @title           Account Server API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"serwer-kont/internal/account"
	"serwer-kont/internal/api"
	"serwer-kont/internal/config"
	"serwer-kont/internal/database"
	"serwer-kont/internal/referral"
	"serwer-kont/internal/storage"
	"serwer-kont/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "serwer-kont/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Nie można zainicjować local storage: %v", err)
	}
	log.Printf("Katalogi domowe będą przechowywane w: %s", cfg.Storage.Path)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool)

	allocator, err := account.NewUsernameAllocator(store)
	if err != nil {
		log.Fatalf("Nie można zainicjować generatora nazw użytkowników: %v", err)
	}

	provisioner := account.NewProvisioner(store, store, store, localStorage, allocator, account.Options{
		ServerID:               cfg.Platform.ServerID,
		DefaultUserGroup:       cfg.Platform.DefaultUserGroup,
		DefaultStorageCapacity: cfg.Platform.DefaultStorageCapacity,
	})

	referralSvc, err := referral.NewService(store)
	if err != nil {
		log.Fatalf("Nie można zainicjować serwisu kodów poleceń: %v", err)
	}

	server := api.NewServer(cfg, store, provisioner, referralSvc, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Platform.GUIOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Handle("/particle-auth", api.WidgetHandler())
	r.Handle("/particle-auth/*", api.WidgetHandler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Serwer kont działa! Dokumentacja dostępna pod /swagger/index.html"))
	})

	r.Post("/auth/particle", server.ParticleLoginHandler)
	r.Post("/auth/login", server.PasswordLoginHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/me", server.GetCurrentUserHandler)
		r.Get("/entries", server.ListEntriesHandler)
		r.Get("/audit", server.GetAuditHandler)
		r.Get("/sessions", server.ListSessionsHandler)
		r.Delete("/sessions/{sessionId}", server.DeleteSessionHandler)
		r.Post("/sessions/terminate_all", server.TerminateAllSessionsHandler)
	})

	log.Println("Uruchamianie serwera na porcie :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
