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

	"github.com/joho/godotenv"

	"github.com/vendora/api/internal/config"
	"github.com/vendora/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/vendora/api/internal/infrastructure/jwt"
	"github.com/vendora/api/internal/infrastructure/kvstore"
	s3infra "github.com/vendora/api/internal/infrastructure/s3"
	"github.com/vendora/api/internal/infrastructure/smtp"
	"github.com/vendora/api/internal/infrastructure/sns"
	transporthttp "github.com/vendora/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// The OTP challenge state lives in Redis. Fall back to the
	// in-process store in development when Redis is unreachable.
	var kv kvstore.Client
	if redisKV, err := kvstore.NewRedis(cfg); err == nil {
		kv = redisKV
	} else if cfg.AppEnv == "development" {
		log.Printf("WARN: redis not available (%v), using in-memory store", err)
		kv = kvstore.NewMemory()
	} else {
		log.Fatalf("redis not available: %v", err)
	}

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// S3 store for product images.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — seller OTPs are email-only without it).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:     dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SellerRepo:   dynamo.NewSellerRepo(dynamoClient, cfg.DynamoTables.Sellers),
		ShopRepo:     dynamo.NewShopRepo(dynamoClient, cfg.DynamoTables.Shops),
		ProductRepo:  dynamo.NewProductRepo(dynamoClient, cfg.DynamoTables.Products),
		DiscountRepo: dynamo.NewDiscountRepo(dynamoClient, cfg.DynamoTables.DiscountCodes),
		KVStore:      kv,
		S3Store:      s3Store,
		Mailer:       mailer,
		SMSSender:    smsSender,
		JWTProvider:  jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
