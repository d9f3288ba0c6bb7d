package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"postolog/config"
	"postolog/handlers"
	"postolog/middleware"
	"postolog/routes"
	"postolog/session"
	"postolog/store"
	"postolog/utils"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	logger := config.NewLogger()
	slog.SetDefault(logger)

	db, err := config.Connect()
	if err != nil {
		logger.Error("could not open database", "err", err)
		os.Exit(1)
	}

	if err := config.Migrations(db); err != nil {
		logger.Error("could not run migrations", "err", err)
		os.Exit(1)
	}

	registros := store.New(db)
	if err := registros.Init(); err != nil {
		logger.Error("could not init store", "err", err)
		os.Exit(1)
	}

	auth := middleware.NewRemoteAuthenticator(os.Getenv("AUTH_URL"))
	geoip := utils.NewGeoIPClient(os.Getenv("GEOIP_URL"), logger)
	h := handlers.New(registros, session.NewStore(), geoip, auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := enableCORS(routes.RegisterRoutes(h))
	logger.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Required CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		// Handle preflight (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
