package main

import (
	"context"
	"log"
	"os"
	_ "time/tzdata"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	scheduler "github.com/operationspark/meeting-scheduler"
)

func main() {
	cfg, err := scheduler.LoadConfig()
	if err != nil {
		log.Fatalf("loadConfig: %v\n", err)
	}

	reportToSentry := cfg.SentryDSN != ""
	if reportToSentry {
		flush, err := scheduler.InitSentry(cfg.SentryDSN, cfg.AppEnv)
		if err != nil {
			log.Fatalf("initSentry: %v\n", err)
		}
		defer flush()
	}
	logger := scheduler.NewLogger(os.Stderr, cfg.LogLevel, reportToSentry)

	server := scheduler.NewTriggerServer(cfg, cfg.TriggerSigningSecret, scheduler.Options{Logger: logger})

	ctx := context.Background()
	if err := funcframework.RegisterHTTPFunctionContext(ctx, "/", server.ServeHTTP); err != nil {
		log.Fatalf("funcframework.RegisterHTTPFunctionContext: %v\n", err)
	}

	// Use PORT environment variable, or default to 8080.
	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	log.Printf("server starting on port: %s\n", port)
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v\n", err)
	}
}
