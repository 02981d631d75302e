package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	log.SetPrefix("lg/fitcore-go-api: ")
	log.SetFlags(0)

	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env loaded: %v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	h, cleanup, err := newHandler(context.Background(), cfg)
	if err != nil {
		log.Fatalf("[main] setup: %v", err)
	}
	defer cleanup()

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	log.Printf("[main] server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, c.Handler(router)); err != nil {
		log.Printf("[main] server stopped: %v", err)
	}
}
