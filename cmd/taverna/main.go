package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"taverna/internal/client"
)

func main() {
	apiURL := flag.String("api", "", "backend base URL (overrides TAVERNA_API_URL)")
	socketURL := flag.String("ws", "", "event channel URL (overrides TAVERNA_WS_URL)")
	statePath := flag.String("state", "", "state file path (overrides TAVERNA_STATE_PATH)")
	flag.Parse()

	cfg, err := client.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *socketURL != "" {
		cfg.SocketURL = *socketURL
	}
	if *statePath != "" {
		cfg.StatePath = *statePath
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	creds, err := client.OpenCredentialStore(cfg.StatePath)
	if err != nil {
		log.Fatalf("failed to open state: %v", err)
	}
	defer creds.Close()

	sessions := client.NewSessionStore(cfg, creds, logger)
	api := client.NewAPI(cfg, sessions, creds, logger)
	app := client.NewApp(cfg, sessions, api, logger, os.Stdin, os.Stdout)

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("client exited: %v", err)
	}
}
