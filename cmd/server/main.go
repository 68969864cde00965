package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"VoiceCompanion/internal/adapter/kvstore"
	"VoiceCompanion/internal/ai"
	"VoiceCompanion/internal/config"
	"VoiceCompanion/internal/server"
	"VoiceCompanion/internal/service/companion"
	"VoiceCompanion/internal/service/tts"
	"VoiceCompanion/internal/service/tts/google"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	sugar.Infow("Starting voice companion server",
		"BindAddr", cfg.BindAddr,
		"DataDir", cfg.DataDir,
		"MaxHistory", cfg.MaxHistory,
		"DebugMode", cfg.DebugMode,
	)

	var kv kvstore.Store
	if cfg.DataDir != "" {
		fileKV, err := kvstore.NewFileStore(cfg.DataDir)
		if err != nil {
			sugar.Fatalw("failed to open data directory", "dir", cfg.DataDir, "error", err)
		}
		kv = fileKV
	} else {
		sugar.Infow("No data directory configured, conversation memory is in-memory only")
		kv = kvstore.NewMemoryStore()
	}

	var replier ai.Client
	if cfg.UseStubReply {
		replier = ai.NewStubClient()
	} else {
		// The client reads OPENAI_API_KEY from the environment.
		oClient := openai.NewClient()
		replier = ai.NewOpenAIClient(&oClient, cfg.OpenAIModel, cfg.PersonaPrompt, sugar)
	}

	var synth tts.Synthesizer
	if strings.EqualFold(cfg.TTSService, "google") {
		synth = google.New(cfg.GoogleTTS, sugar)
	} else {
		synth = tts.NewNoop()
	}

	comp := companion.New(replier, cfg.ReplyWindow, cfg.ApologyText, sugar)
	srv := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           server.New(cfg, comp, synth, kv, sugar).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sugar.Infow("Listening", "addr", "http://"+cfg.BindAddr+"/")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			sugar.Fatalw("server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeoutCause(context.Background(), 5*time.Second, errors.New("shutdown timeout"))
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Warnw("graceful shutdown error", "error", err)
		_ = srv.Close()
	}
	sugar.Infow("server stopped")
}
