package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"strconv"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/loaders"
	"github.com/vanryn/go-whitted-raytracer/pkg/renderer"
)

// maxSceneBytes bounds the accepted YAML body size
const maxSceneBytes = 1 << 20

// Server handles web requests for the raytracer
type Server struct {
	port   int
	logger *log.Logger
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:   port,
		logger: log.Default(),
	}
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler returns the route table, so tests can drive it directly
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleRender renders a scene to PNG. The request body is a YAML scene
// description; optional query parameters tune the render:
//
//	width, height - override the scene camera's pixel dimensions
//	workers       - number of parallel workers (default one per CPU)
//	depth         - maximum reflection/refraction recursion depth
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxSceneBytes)
	defer body.Close()

	sceneObj, camera, err := loaders.ParseYAMLScene(body)
	if err != nil {
		status := http.StatusBadRequest
		if !isSceneError(err) {
			status = http.StatusInternalServerError
		}
		http.Error(w, fmt.Sprintf("Invalid scene: %v", err), status)
		return
	}

	config := renderer.DefaultConfig()
	if err := applyQueryConfig(r, &config); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	camera, err = resizeFromQuery(r, camera)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	canvas := renderer.NewRenderer(sceneObj, camera, config, s.logger).Render()

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, canvas.ToImage()); err != nil {
		s.logger.Printf("Error encoding PNG: %v", err)
	}
}

// isSceneError reports whether the error is a scene construction failure
// rather than an internal one. Camera and transform degeneracies surface
// during resolution, so they count too.
func isSceneError(err error) bool {
	for _, sceneErr := range []error{
		loaders.ErrParse,
		loaders.ErrUnresolvedReference,
		loaders.ErrCyclicDefinition,
		loaders.ErrUnknownKind,
		renderer.ErrDegenerateCamera,
	} {
		if errors.Is(err, sceneErr) {
			return true
		}
	}
	// Singular transforms and oversized bodies are caller mistakes as well
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes) || errors.Is(err, core.ErrSingularMatrix)
}

func applyQueryConfig(r *http.Request, config *renderer.Config) error {
	query := r.URL.Query()

	if raw := query.Get("workers"); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil || workers < 0 {
			return fmt.Errorf("invalid workers parameter: %q", raw)
		}
		config.NumWorkers = workers
	}

	if raw := query.Get("depth"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil || depth < 1 {
			return fmt.Errorf("invalid depth parameter: %q", raw)
		}
		config.MaxDepth = depth
	}

	return nil
}

// resizeFromQuery applies width/height overrides, keeping the scene
// camera's orientation and field of view
func resizeFromQuery(r *http.Request, camera *renderer.Camera) (*renderer.Camera, error) {
	query := r.URL.Query()
	width, height := camera.HSize, camera.VSize

	if raw := query.Get("width"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 1 {
			return nil, fmt.Errorf("invalid width parameter: %q", raw)
		}
		width = w
	}
	if raw := query.Get("height"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil || h < 1 {
			return nil, fmt.Errorf("invalid height parameter: %q", raw)
		}
		height = h
	}

	if width == camera.HSize && height == camera.VSize {
		return camera, nil
	}
	return camera.Resize(width, height), nil
}
