package player

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Player plays a synthesized audio clip on the local speaker.
type Player interface {
	Play(format string, audio []byte) error
}

// Default supports mp3 and wav with an optional volume offset.
type Default struct{ volumeDB float64 }

// New creates a player at unchanged volume (0 dB).
func New() *Default { return &Default{volumeDB: 0} }

// NewWithVolume creates a player with a preset volume in dB (negative is
// quieter).
func NewWithVolume(db float64) *Default { return &Default{volumeDB: db} }

func (d *Default) Play(format string, audio []byte) error {
	r := io.NopCloser(bytes.NewReader(audio))

	var (
		streamer beep.StreamSeekCloser
		bformat  beep.Format
		err      error
	)
	switch strings.ToLower(format) {
	case "mp3":
		streamer, bformat, err = mp3.Decode(r)
	case "wav":
		streamer, bformat, err = wav.Decode(r)
	default:
		return errors.New("unsupported playback format; use mp3 or wav")
	}
	if err != nil {
		return err
	}
	defer streamer.Close()

	if err := speaker.Init(bformat.SampleRate, bformat.SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	vol := &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   d.volumeDB,
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(vol, beep.Callback(func() { close(done) })))
	<-done
	return nil
}
