// Package audio loads the duel's sound effects with beep and mixes the
// ones the simulation triggers.
package audio

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"github.com/pkg/errors"

	"arena-duel/internal/config"
)

// SoundNames are the effects the simulation can trigger.
var SoundNames = []string{"shoot", "reload", "grenade", "hit", "boom", "barrel", "apple", "teleport"}

// MaxVoices caps concurrently mixed sounds; the oldest is dropped.
const MaxVoices = 8

// Bank implements game.SoundPlayer. Sounds are decoded once into memory
// at the mixer rate. A sound whose file is missing or unreadable is simply
// never played.
type Bank struct {
	mu     sync.Mutex
	format beep.Format
	volume float64

	sounds map[string]*beep.Buffer
	voices []beep.Streamer
	played map[string]uint64
}

// NewBank loads every sound in SoundNames from cfg.SoundsDir. Load
// failures are logged and leave that sound disabled.
func NewBank(cfg config.AudioConfig) *Bank {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = config.DefaultAudio().SampleRate
	}
	b := &Bank{
		format: beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2},
		volume: cfg.Volume,
		sounds: make(map[string]*beep.Buffer),
		played: make(map[string]uint64),
	}
	if !cfg.Enabled {
		log.Println("🔇 Sound effects disabled")
		return b
	}

	for _, name := range SoundNames {
		buf, err := b.load(cfg.SoundsDir, name)
		if err != nil {
			log.Printf("⚠️ Sound %q disabled: %v", name, err)
			continue
		}
		b.sounds[name] = buf
	}
	log.Printf("🔊 Loaded %d/%d sound effects from %s", len(b.sounds), len(SoundNames), cfg.SoundsDir)
	return b
}

// load tries <name>.wav then <name>.ogg.
func (b *Bank) load(dir, name string) (*beep.Buffer, error) {
	var lastErr error
	for _, ext := range []string{".wav", ".ogg"} {
		path := filepath.Join(dir, name+ext)
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		buf, err := b.decode(f, ext)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", path)
		}
		return buf, nil
	}
	return nil, lastErr
}

// decode reads the whole stream into a buffer at the bank's rate. It
// closes f.
func (b *Bank) decode(f *os.File, ext string) (*beep.Buffer, error) {
	var (
		stream beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	if ext == ".ogg" {
		stream, format, err = vorbis.Decode(f)
	} else {
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != b.format.SampleRate {
		s = beep.Resample(4, format.SampleRate, b.format.SampleRate, stream)
	}
	buf := beep.NewBuffer(b.format)
	buf.Append(s)
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}

// Loaded returns the names of the sounds that loaded, sorted.
func (b *Bank) Loaded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.sounds))
	for n := range b.sounds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Play queues name at volume (0..1, scaled by the master volume). Unknown
// or disabled sounds are ignored. It never blocks on audio output.
func (b *Bank) Play(name string, volume float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, ok := b.sounds[name]
	if !ok {
		return
	}
	b.played[name]++

	gain := volume*b.volume - 1
	b.voices = append(b.voices, &effects.Gain{
		Streamer: buf.Streamer(0, buf.Len()),
		Gain:     gain,
	})
	if len(b.voices) > MaxVoices {
		b.voices = b.voices[1:]
	}
}

// Mix fills samples with the active voices and drops finished ones.
func (b *Bank) Mix(samples [][2]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range samples {
		samples[i] = [2]float64{}
	}
	tmp := make([][2]float64, len(samples))

	alive := b.voices[:0]
	for _, v := range b.voices {
		n, ok := v.Stream(tmp)
		for i := 0; i < n; i++ {
			samples[i][0] += tmp[i][0]
			samples[i][1] += tmp[i][1]
		}
		if ok && n == len(tmp) {
			alive = append(alive, v)
		}
	}
	for i := len(alive); i < len(b.voices); i++ {
		b.voices[i] = nil
	}
	b.voices = alive
}

// Stream implements beep.Streamer over the mix. It never ends.
func (b *Bank) Stream(samples [][2]float64) (int, bool) {
	b.Mix(samples)
	return len(samples), true
}

// Err implements beep.Streamer.
func (b *Bank) Err() error { return nil }

// Format returns the mixer format.
func (b *Bank) Format() beep.Format {
	return b.format
}

// Stats returns per-sound play counts.
func (b *Bank) Stats() map[string]uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]uint64, len(b.played))
	for k, v := range b.played {
		out[k] = v
	}
	return out
}

// EncodeWAV writes a sound buffer as WAV.
func EncodeWAV(w io.WriteSeeker, s beep.Streamer, format beep.Format) error {
	return errors.Wrap(wav.Encode(w, s, format), "encode wav")
}
