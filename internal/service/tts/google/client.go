package google

import (
	"context"
	"errors"
	"time"

	"VoiceCompanion/internal/config"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
)

// Client synthesizes speech through Google Cloud Text-to-Speech and returns
// MP3 audio.
type Client struct {
	cfg    config.GoogleTTSConfig
	logger *zap.SugaredLogger
}

func New(cfg config.GoogleTTSConfig, logger *zap.SugaredLogger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

func (c *Client) Synthesize(ctx context.Context, text string, language string) ([]byte, error) {
	if text == "" {
		return nil, errors.New("google tts: empty text")
	}

	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	defer ttsClient.Close()

	voice := &ttspb.VoiceSelectionParams{LanguageCode: c.cfg.Language}
	if language != "" && language != c.cfg.Language {
		// Configured voice names are bound to the configured language; for
		// any other language tag let the API pick a voice.
		voice.LanguageCode = language
	} else {
		voice.Name = c.cfg.Voice
	}

	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Text{Text: text},
		},
		Voice: voice,
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: ttspb.AudioEncoding_MP3,
			SpeakingRate:  c.cfg.SpeakingRate,
			Pitch:         c.cfg.Pitch,
		},
	}

	start := time.Now()
	resp, err := ttsClient.SynthesizeSpeech(ctx, req)
	if err != nil {
		c.logger.Errorw("google tts synthesis failed", "duration", time.Since(start).String(), "error", err)
		return nil, err
	}
	c.logger.Debugw("google tts synthesis done", "duration", time.Since(start).String(), "bytes", len(resp.AudioContent))
	return resp.AudioContent, nil
}
