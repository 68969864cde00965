package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"` // verbose logging
	BindAddr  string `env:"BIND_ADDR"`  // HTTP listener address
	DataDir   string `env:"DATA_DIR"`   // directory for per-client history/profile files; empty = in-memory only

	// Conversation memory
	MaxHistory  int `env:"MAX_HISTORY"`  // cap on stored messages per client
	ReplyWindow int `env:"REPLY_WINDOW"` // how many recent messages the reply service receives

	// Reply service
	PersonaPrompt string `env:"PERSONA_PROMPT"` // system prompt describing the companion persona
	ApologyText   string `env:"APOLOGY_TEXT"`   // localized message shown (and remembered) when the reply service fails
	OpenAIModel   string `env:"OPENAI_MODEL"`   // model name passed to the Responses API
	UseStubReply  bool   `env:"USE_STUB_REPLY"` // use the canned stub instead of OpenAI (offline mode)

	// TTS switch and Google TTS settings
	TTSService string `env:"TTS_SERVICE"` // google|none
	GoogleTTS  GoogleTTSConfig
}

// GoogleTTSConfig holds synthesis settings for Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	// Path to the service account key file. The SDK actually reads
	// GOOGLE_APPLICATION_CREDENTIALS; the default here is just a convenience.
	CredentialsPath string  `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Language        string  `env:"GOOGLE_TTS_LANGUAGE"`
	Voice           string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate    float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch           float64 `env:"GOOGLE_TTS_PITCH"`
}

// Defaults returns the configuration with preset values. They are overridden
// by .env, environment variables and CLI flags, in that order.
func Defaults() *Config {
	return &Config{
		DebugMode:   false,
		BindAddr:    "127.0.0.1:8080",
		DataDir:     "data",
		MaxHistory:  20,
		ReplyWindow: 10,
		PersonaPrompt: "당신은 어르신의 다정한 말벗입니다. 존댓말로 짧고 따뜻하게 대답하고, " +
			"어르신이 꺼낸 이야기를 기억해서 이어가 주세요.",
		ApologyText: "죄송해요, 지금은 대답하기가 어려워요. 잠시 후에 다시 말씀해 주세요.",
		OpenAIModel: "gpt-4o-mini",
		TTSService:  "google",
		GoogleTTS: GoogleTTSConfig{
			CredentialsPath: "service-account.json",
			Language:        "ko-KR",
			Voice:           "ko-KR-Standard-A",
			SpeakingRate:    1.0,
			Pitch:           0.0,
		},
	}
}

// NewConfig loads the application configuration.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := Defaults()
	_ = env.Parse(cfg)

	flag.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "enable verbose logging")
	flag.StringVar(&cfg.BindAddr, "bind-addr", cfg.BindAddr, "HTTP listener address, e.g. 127.0.0.1:8080")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for per-client storage files; empty keeps everything in memory")
	flag.IntVar(&cfg.MaxHistory, "max-history", cfg.MaxHistory, "maximum stored messages per client")
	flag.IntVar(&cfg.ReplyWindow, "reply-window", cfg.ReplyWindow, "recent messages forwarded to the reply service")
	flag.StringVar(&cfg.PersonaPrompt, "persona-prompt", cfg.PersonaPrompt, "system prompt describing the companion persona")
	flag.StringVar(&cfg.ApologyText, "apology-text", cfg.ApologyText, "localized apology used when the reply service fails")
	flag.StringVar(&cfg.OpenAIModel, "openai-model", cfg.OpenAIModel, "OpenAI model name")
	flag.BoolVar(&cfg.UseStubReply, "use-stub-reply", cfg.UseStubReply, "answer with the canned stub instead of calling OpenAI")
	flag.StringVar(&cfg.TTSService, "tts-service", cfg.TTSService, "TTS service: google|none")
	flag.StringVar(&cfg.GoogleTTS.CredentialsPath, "google-tts-credentials", cfg.GoogleTTS.CredentialsPath, "path to service-account.json (also read from ENV GOOGLE_APPLICATION_CREDENTIALS)")
	flag.StringVar(&cfg.GoogleTTS.Language, "google-tts-language", cfg.GoogleTTS.Language, "synthesis language, e.g. ko-KR")
	flag.StringVar(&cfg.GoogleTTS.Voice, "google-tts-voice", cfg.GoogleTTS.Voice, "voice name, e.g. ko-KR-Standard-A or ko-KR-Wavenet-A")
	flag.Float64Var(&cfg.GoogleTTS.SpeakingRate, "google-tts-speaking-rate", cfg.GoogleTTS.SpeakingRate, "speaking rate (1.0 default)")
	flag.Float64Var(&cfg.GoogleTTS.Pitch, "google-tts-pitch", cfg.GoogleTTS.Pitch, "pitch in semitones, may be negative")
	flag.Parse()

	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 20
	}
	if cfg.ReplyWindow <= 0 {
		cfg.ReplyWindow = 10
	}

	// When Google TTS is selected, make sure the credentials file is
	// resolvable. If ENV is empty but the config holds a path, export it so
	// the SDK picks it up.
	if strings.EqualFold(cfg.TTSService, "google") {
		cred := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if cred == "" {
			if cp := strings.TrimSpace(cfg.GoogleTTS.CredentialsPath); cp != "" {
				_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cp)
				cred = cp
			}
		}
		if cred == "" {
			panic(fmt.Errorf("google tts: GOOGLE_APPLICATION_CREDENTIALS is not set; pass ENV or -google-tts-credentials"))
		}
		if _, err := os.Stat(cred); err != nil {
			panic(fmt.Errorf("google tts: credentials file not found: %s", cred))
		}
	}

	return cfg
}
