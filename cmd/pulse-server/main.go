package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agencypulse/internal/config"
	"agencypulse/internal/server"
	"agencypulse/pipeline"
	"agencypulse/sentiment"
	"agencypulse/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("pulse-server: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := server.NewLogger(cfg)

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("opening record store")
	}
	defer st.Close()

	var analyzer sentiment.Analyzer
	if cfg.UseContextual() {
		contextual := sentiment.NewContextualAnalyzer(sentiment.ContextualConfig{
			OrtLibrary:    cfg.OrtLibraryPath,
			ModelPath:     cfg.ModelPath,
			TokenizerPath: cfg.TokenizerPath,
			MaxSeqLen:     cfg.MaxSeqLen,
		})
		if err := contextual.Load(); err != nil {
			log.WithError(err).Warn("model unavailable, using lexicon analyzer")
			analyzer = sentiment.NewLexiconAnalyzer()
		} else {
			defer contextual.Close()
			analyzer = contextual
		}
	} else {
		log.Info("no model configured, using lexicon analyzer")
		analyzer = sentiment.NewLexiconAnalyzer()
	}

	svc := pipeline.NewService(analyzer, st, log, cfg.SentimentBatchSize)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.New(svc, st, log, cfg.AllowedOrigins).Handler(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 10 * time.Minute,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
