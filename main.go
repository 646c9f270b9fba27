package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/loaders"
	"github.com/vanryn/go-whitted-raytracer/pkg/renderer"
	"github.com/vanryn/go-whitted-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneName := flag.String("scene", "default", "Scene: 'default', 'showcase', or a path to a .yaml scene file")
	out := flag.String("out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	workers := flag.Int("workers", 0, "Number of render workers (0 = one per CPU)")
	depth := flag.Int("depth", renderer.DefaultMaxDepth, "Maximum reflection/refraction recursion depth")
	width := flag.Int("width", 0, "Override image width in pixels (0 = scene default)")
	height := flag.Int("height", 0, "Override image height in pixels (0 = scene default)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Whitted Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default  - Two spheres lit by a single point light")
		fmt.Println("  showcase - Patterns, mirrors, glass and an area light")
		fmt.Println("  <path>   - A YAML scene description file")
		return
	}

	fmt.Println("Starting Whitted Raytracer...")

	selectedScene, camera, err := createScene(*sceneName)
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}
	camera = resizeCamera(camera, *width, *height)

	config := renderer.DefaultConfig()
	config.MaxDepth = *depth
	config.NumWorkers = *workers

	logger := log.New(os.Stdout, "", log.LstdFlags)
	r := renderer.NewRenderer(selectedScene, camera, config, logger)

	startTime := time.Now()
	canvas := r.Render()
	fmt.Printf("Render completed in %v\n", time.Since(startTime))

	filename := *out
	if filename == "" {
		filename, err = defaultOutputPath(*sceneName)
		if err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}

	if err := savePNG(canvas, filename); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// createScene builds one of the built-in scenes or loads a YAML scene file
func createScene(name string) (*scene.Scene, *renderer.Camera, error) {
	switch name {
	case "default":
		camera, err := buildCamera(400, 225, math.Pi/3,
			core.NewPoint(0, 1.5, -5), core.NewPoint(0, 1, 0))
		if err != nil {
			return nil, nil, err
		}
		return scene.NewDefaultScene(), camera, nil
	case "showcase":
		camera, err := buildCamera(400, 300, math.Pi/3,
			core.NewPoint(-2.6, 2.5, -6), core.NewPoint(0, 1, 0))
		if err != nil {
			return nil, nil, err
		}
		return scene.NewShowcaseScene(), camera, nil
	}

	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return loaders.LoadYAMLScene(name)
	}
	return nil, nil, fmt.Errorf("unknown scene: %s", name)
}

// resizeCamera applies nonzero dimension overrides, keeping the scene
// camera's orientation and field of view
func resizeCamera(camera *renderer.Camera, width, height int) *renderer.Camera {
	if width <= 0 {
		width = camera.HSize
	}
	if height <= 0 {
		height = camera.VSize
	}
	if width == camera.HSize && height == camera.VSize {
		return camera
	}
	return camera.Resize(width, height)
}

func buildCamera(width, height int, fov float64, from, to core.Tuple) (*renderer.Camera, error) {
	camera := renderer.NewCamera(width, height, fov)
	view, err := renderer.ViewTransform(from, to, core.NewVector(0, 1, 0))
	if err != nil {
		return nil, err
	}
	if err := camera.SetTransform(view); err != nil {
		return nil, err
	}
	return camera, nil
}

// defaultOutputPath creates output/<scene>/ and returns a timestamped
// filename inside it. Scene file paths are reduced to their base name.
func defaultOutputPath(sceneName string) (string, error) {
	base := filepath.Base(sceneName)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	outputDir := filepath.Join("output", base)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp)), nil
}

func savePNG(canvas *renderer.Canvas, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, canvas.ToImage())
}
