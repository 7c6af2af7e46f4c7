// Command geoquizd serves the geoquiz HTTP API over a DynamoDB table.
//
// With -sweep it instead deletes orphaned question rows once and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"

	"github.com/nisimpson/geoquiz"
	"github.com/nisimpson/geoquiz/config"
	"github.com/nisimpson/geoquiz/httpapi"
	"github.com/nisimpson/geoquiz/identity"
)

func main() {
	sweep := flag.Bool("sweep", false, "delete orphaned questions and exit")
	flag.Parse()

	if err := run(*sweep); err != nil {
		fmt.Fprintf(os.Stderr, "geoquizd: %v\n", err)
		os.Exit(1)
	}
}

func run(sweep bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = &cfg.DynamoDBEndpoint
		}
	})

	table := geoquiz.NewTable(cfg.Table)
	table.RefIndexName = cfg.RefIndex
	store := geoquiz.NewDynamoStore(table, client)

	quizzes := geoquiz.NewQuizRepository(store, geoquiz.WithLogger(logger))

	if sweep {
		removed, err := quizzes.SweepOrphanedQuestions(ctx)
		if err != nil {
			return fmt.Errorf("sweep failed after removing %d questions: %w", removed, err)
		}
		logger.Info("sweep complete", "removed", removed)
		return nil
	}

	accounts := geoquiz.NewAccountRepository(store,
		identity.BcryptHasher{Cost: cfg.BcryptCost},
		geoquiz.WithLogger(logger),
	)

	tokens, err := identity.New(identity.Config{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	handler := httpapi.NewHandler(quizzes, accounts, tokens, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "table", cfg.Table, "ref_index", cfg.RefIndex)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
