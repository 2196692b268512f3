// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/SamirMD0/tarneeb-400-sub000/internal/auth"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/cache"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/handlers"
	"github.com/SamirMD0/tarneeb-400-sub000/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// The game server runs without Redis: rooms stay process-local and
	// listings come back empty until the cache returns.
	cache.ConnectRedis()
	if cache.Rdb == nil {
		logger.Warn("Redis unavailable; running without shared room cache")
	}

	srv := handlers.NewServer(logger)

	mux := http.NewServeMux()

	// room endpoints
	mux.Handle("/room/create", middleware.RequestLogger(logger)(http.HandlerFunc(
		handlers.CreateRoomHandler(srv),
	)))
	mux.Handle("/room/list", middleware.RequestLogger(logger)(http.HandlerFunc(
		handlers.ListRoomsHandler(srv),
	)))
	mux.Handle("/room/find", middleware.RequestLogger(logger)(http.HandlerFunc(
		handlers.FindRoomHandler(srv),
	)))

	// room websocket
	mux.Handle("/room/ws/", middleware.RequestLogger(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
