// Package main is the entry point for the fretpath API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/james-see/fretpath/pkg/api"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("starting fretpath API server", "port", *port,
		"swagger", fmt.Sprintf("http://localhost:%d/swagger/index.html", *port))

	if err := api.StartServer(*port, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
