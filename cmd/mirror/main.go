package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blobarena/logger"
	"blobarena/netsync"
)

func main() {
	addr := flag.String("addr", "", "Listen address (or set MIRROR_ADDR env var, default :8765)")
	flag.Parse()

	logger.Init()

	listen := *addr
	if listen == "" {
		listen = os.Getenv("MIRROR_ADDR")
	}
	if listen == "" {
		listen = ":8765"
	}

	hub := netsync.NewHub()
	mux := http.NewServeMux()
	mux.Handle(netsync.DefaultPath, hub)

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("broadcast loop stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Log.WithField("addr", listen).Info("mirror server listening on ws://" + listen + netsync.DefaultPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Fatal("mirror server failed")
	}
}
