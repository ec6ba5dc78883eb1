package audio

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/pkg/errors"
)

// CaptureFPS is how often the capture pulls a chunk from the mix.
const CaptureFPS = 30

// Capture records the bank's mix in real time and writes it as a WAV file
// on Close.
type Capture struct {
	bank *Bank
	path string
	buf  *beep.Buffer

	mu       sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
	closed   bool
}

// NewCapture prepares a capture of bank into path. Nothing is recorded
// until Start.
func NewCapture(bank *Bank, path string) *Capture {
	return &Capture{
		bank:     bank,
		path:     path,
		buf:      beep.NewBuffer(bank.Format()),
		stopChan: make(chan struct{}),
	}
}

// Start begins pulling one chunk per frame.
func (c *Capture) Start() {
	chunk := make([][2]float64, c.bank.Format().SampleRate.N(time.Second/CaptureFPS))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(time.Second / CaptureFPS)
		defer ticker.Stop()
		for {
			select {
			case <-c.stopChan:
				return
			case <-ticker.C:
				c.bank.Mix(chunk)
				c.mu.Lock()
				c.buf.Append(sliceStreamer(chunk))
				c.mu.Unlock()
			}
		}
	}()
	log.Printf("🎙️ Recording sound effects to %s", c.path)
}

// Duration returns how much audio has been captured.
func (c *Capture) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Format().SampleRate.D(c.buf.Len())
}

// Close stops recording and writes the WAV file.
func (c *Capture) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stopChan)
	c.wg.Wait()

	f, err := os.Create(c.path)
	if err != nil {
		return errors.Wrapf(err, "create %s", c.path)
	}
	defer f.Close()

	if err := EncodeWAV(f, c.buf.Streamer(0, c.buf.Len()), c.buf.Format()); err != nil {
		return errors.Wrapf(err, "write %s", c.path)
	}
	log.Printf("💾 Saved %s of audio to %s", c.Duration().Round(time.Millisecond), c.path)
	return nil
}

// sliceStreamer streams a fixed chunk once.
func sliceStreamer(chunk [][2]float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(chunk) {
			return 0, false
		}
		n := copy(samples, chunk[pos:])
		pos += n
		return n, true
	})
}
