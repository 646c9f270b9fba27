package renderer

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/scene"
)

// Config contains rendering configuration
type Config struct {
	MaxDepth   int // Maximum reflection/refraction recursion depth
	NumWorkers int // Parallel workers; <= 0 means one per CPU
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		MaxDepth:   DefaultMaxDepth,
		NumWorkers: runtime.NumCPU(),
	}
}

// Renderer drives the render loop, delegating pixel colors to per-worker
// raytracers. Rows are independent, so workers write disjoint canvas
// regions without synchronization.
type Renderer struct {
	scene  *scene.Scene
	camera *Camera
	config Config
	logger core.Logger
}

// NewRenderer creates a renderer. The logger may be nil to disable
// progress output.
func NewRenderer(s *scene.Scene, camera *Camera, config Config, logger core.Logger) *Renderer {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	return &Renderer{
		scene:  s,
		camera: camera,
		config: config,
		logger: logger,
	}
}

// Render traces one ray per pixel and returns the finished canvas
func (r *Renderer) Render() *Canvas {
	canvas := NewCanvas(r.camera.HSize, r.camera.VSize)

	rows := make(chan int, r.camera.VSize)
	for y := 0; y < r.camera.VSize; y++ {
		rows <- y
	}
	close(rows)

	var done int64
	var wg sync.WaitGroup
	for w := 0; w < r.config.NumWorkers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			tracer := NewRaytracer(r.scene, r.config.MaxDepth, seed)

			for y := range rows {
				for x := 0; x < r.camera.HSize; x++ {
					ray := r.camera.RayForPixel(x, y)
					canvas.WritePixel(x, y, tracer.ColorAt(ray))
				}
				r.logProgress(int(atomic.AddInt64(&done, 1)))
			}
		}(int64(w + 1))
	}
	wg.Wait()

	return canvas
}

// logProgress reports roughly every tenth of the image
func (r *Renderer) logProgress(rowsDone int) {
	if r.logger == nil {
		return
	}
	total := r.camera.VSize
	step := total / 10
	if step == 0 {
		step = 1
	}
	if rowsDone%step == 0 || rowsDone == total {
		r.logger.Printf("rendered %d/%d rows (%.0f%%)", rowsDone, total, 100*float64(rowsDone)/float64(total))
	}
}
