// Local companion mode: transcripts come from stdin line by line, replies
// are printed and spoken through the default speaker.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"VoiceCompanion/internal/adapter/kvstore"
	"VoiceCompanion/internal/ai"
	"VoiceCompanion/internal/config"
	"VoiceCompanion/internal/service/companion"
	"VoiceCompanion/internal/service/history"
	"VoiceCompanion/internal/service/profile"
	"VoiceCompanion/internal/service/tts"
	"VoiceCompanion/internal/service/tts/google"
	"VoiceCompanion/internal/service/tts/player"

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

	ctx := context.Background()

	var kv kvstore.Store
	if cfg.DataDir != "" {
		fileKV, err := kvstore.NewFileStore(cfg.DataDir)
		if err != nil {
			sugar.Fatalw("failed to open data directory", "dir", cfg.DataDir, "error", err)
		}
		kv = fileKV
	} else {
		kv = kvstore.NewMemoryStore()
	}

	var replier ai.Client
	if cfg.UseStubReply {
		replier = ai.NewStubClient()
	} else {
		oClient := openai.NewClient()
		replier = ai.NewOpenAIClient(&oClient, cfg.OpenAIModel, cfg.PersonaPrompt, sugar)
	}

	var synth tts.Synthesizer
	if strings.EqualFold(cfg.TTSService, "google") {
		synth = google.New(cfg.GoogleTTS, sugar)
	} else {
		synth = tts.NewNoop()
	}
	spk := player.New()

	comp := companion.New(replier, cfg.ReplyWindow, cfg.ApologyText, sugar)
	sess := &companion.Session{
		History: history.New(kv, "local/history", cfg.MaxHistory, sugar),
		Profile: profile.New(kv, "local/profile", sugar),
	}

	fmt.Println("말벗이 듣고 있어요. 한 줄씩 말씀을 입력해 주세요. (Ctrl+D로 종료)")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		reply := comp.Respond(ctx, sess, text)
		fmt.Printf("말벗: %s\n", reply)

		audio, err := synth.Synthesize(ctx, reply, cfg.GoogleTTS.Language)
		if err != nil {
			sugar.Warnw("tts synthesis failed", "error", err)
			continue
		}
		if len(audio) == 0 {
			continue
		}
		if err := spk.Play("mp3", audio); err != nil {
			sugar.Warnw("audio playback failed", "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		sugar.Errorw("stdin read failed", "error", err)
	}
}
