// Command server runs the tick engine and its WebSocket gateway as a
// single process. Grounded on sonpython-slether/server/main.go: wire
// dependencies, register the WebSocket handler, serve static files,
// start the background loop, block on ListenAndServe.
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cellarena/server/internal/engine"
	"github.com/cellarena/server/internal/gateway"
)

const (
	defaultServerPort = ":8080"
	defaultStaticDir  = "./client"
	webSocketPath     = "/ws"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "cellarena",
	})

	eng := engine.NewEngine(logger, time.Now().UnixNano())
	gw := gateway.NewGateway(eng, logger, webSocketPath)

	stop := make(chan struct{})
	go eng.Run(stop)

	mux := http.NewServeMux()
	mux.HandleFunc(webSocketPath, gw.Handler())

	staticDir := defaultStaticDir
	if env := os.Getenv("CELLARENA_STATIC_DIR"); env != "" {
		staticDir = env
	}
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	port := defaultServerPort
	if env := os.Getenv("CELLARENA_PORT"); env != "" {
		port = env
	}

	logger.Info("server listening", "port", port, "tps", engine.TPS, "world_radius", engine.WorldRadius)
	if err := http.ListenAndServe(port, mux); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
