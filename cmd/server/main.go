package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizlist/config"
	"bizlist/internal/database"
	"bizlist/internal/router"
	"bizlist/pkg/emailver"
	"bizlist/pkg/processor"
	"bizlist/pkg/settlement"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var factory processor.Factory
	if cfg.Processor.UseStub {
		log.Printf("[PROCESSOR] using stub processor")
		factory = processor.StubFactory{}
	} else {
		factory = processor.NewWebFactory(cfg.Processor.BaseURL)
	}
	settle := settlement.NewClient(cfg.Settlement.BaseURL, cfg.Settlement.APIKey)
	emailSvc := emailver.NewClient(cfg.EmailVer.BaseURL)

	engine := router.Setup(cfg, db, factory, settle, emailSvc)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
