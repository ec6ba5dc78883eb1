package render

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

// DumpQueueSize is how many frames may wait for the disk. Frames beyond
// that are dropped rather than stalling the caller.
const DumpQueueSize = 8

type dumpJob struct {
	path string
	img  image.Image
}

// FrameDumper writes PNG frames to a directory from its own goroutine.
type FrameDumper struct {
	dir   string
	every uint64
	jobs  chan dumpJob
	wg    sync.WaitGroup

	mu      sync.RWMutex // guards jobs against send after close
	running bool

	// Stats
	framesWritten uint64
	framesDropped uint64
	writeErrors   uint64
}

// NewFrameDumper creates dir if needed. every <= 0 dumps every frame.
func NewFrameDumper(dir string, every int) (*FrameDumper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create frame dir %s", dir)
	}
	if every <= 0 {
		every = 1
	}
	return &FrameDumper{
		dir:   dir,
		every: uint64(every),
		jobs:  make(chan dumpJob, DumpQueueSize),
	}, nil
}

// Due reports whether the frame for tick should be dumped.
func (d *FrameDumper) Due(tick uint64) bool {
	return tick%d.every == 0
}

// Start begins the writer goroutine.
func (d *FrameDumper) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running || d.jobs == nil {
		return
	}
	d.running = true
	jobs := d.jobs
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for job := range jobs {
			if err := gg.SavePNG(job.path, job.img); err != nil {
				if atomic.AddUint64(&d.writeErrors, 1) == 1 {
					log.Printf("⚠️ Frame dump failed: %v", err)
				}
				continue
			}
			atomic.AddUint64(&d.framesWritten, 1)
		}
	}()
	log.Printf("🖼️ Dumping frames to %s every %d ticks", d.dir, d.every)
}

// Stop drains the queue and waits for the writer.
func (d *FrameDumper) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.jobs)
	d.jobs = nil
	d.mu.Unlock()
	d.wg.Wait()
}

// Submit queues img, which must not be modified afterwards. It returns
// false when the queue is full or the dumper is stopped.
func (d *FrameDumper) Submit(round string, tick uint64, img image.Image) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.running {
		return false
	}
	if len(round) > 8 {
		round = round[:8]
	}
	job := dumpJob{
		path: filepath.Join(d.dir, fmt.Sprintf("%s-%06d.png", round, tick)),
		img:  img,
	}
	select {
	case d.jobs <- job:
		return true
	default:
		atomic.AddUint64(&d.framesDropped, 1)
		return false
	}
}

// GetStats returns dumper counters.
func (d *FrameDumper) GetStats() map[string]uint64 {
	return map[string]uint64{
		"framesWritten": atomic.LoadUint64(&d.framesWritten),
		"framesDropped": atomic.LoadUint64(&d.framesDropped),
		"writeErrors":   atomic.LoadUint64(&d.writeErrors),
	}
}
