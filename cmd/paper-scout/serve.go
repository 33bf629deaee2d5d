// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/classify"
	"github.com/pdiddy/paper-scout/internal/pubmed"
	"github.com/pdiddy/paper-scout/internal/server"
	"github.com/pdiddy/paper-scout/internal/store"
)

const (
	defaultPort      = 8080
	defaultResultTTL = time.Hour
	sweepInterval    = 5 * time.Minute
	shutdownTimeout  = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the paper-scout web API",
	Long: `Serve starts an HTTP server exposing the search pipeline. POST a query
to /api/searches to start a background search, poll /api/searches/{id} for
progress, and download /api/searches/{id}/csv once it completes. Results
expire after the configured TTL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "listen port (default 8080)")
	serveCmd.Flags().Duration("ttl", 0, "how long completed searches are kept (default 1h)")
	serveCmd.Flags().String("dsn", "", "SQLite DSN for the result store (default in-memory)")
	serveCmd.Flags().BoolP("debug", "d", false, "log at debug level")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logger := newLogger(debug)

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = viper.GetInt("server.port")
	}
	if port == 0 {
		port = defaultPort
	}
	ttl, _ := cmd.Flags().GetDuration("ttl")
	if ttl == 0 {
		ttl = viper.GetDuration("server.result_ttl")
	}
	if ttl == 0 {
		ttl = defaultResultTTL
	}
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		dsn = viper.GetString("server.store_dsn")
	}

	st, err := store.Open(dsn)
	if err != nil {
		return err
	}
	defer st.Close()

	fetcher := pubmed.NewClient(pubmedConfig(cmd), logger)
	classifier := classify.New(classifierConfig(debug), logger)
	srv := server.New(st, fetcher, classifier, logger, ttl)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.SweepExpired(ctx, sweepInterval)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpSrv.Addr, "result_ttl", ttl)
		fmt.Fprintf(os.Stderr, "paper-scout listening on %s\n", httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
