package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"lodterrain/internal/config"
	"lodterrain/internal/graphics"
	"lodterrain/internal/graphics/renderables/chunks"
	"lodterrain/internal/graphics/renderables/hud"
	"lodterrain/internal/graphics/renderables/outline"
	renderer "lodterrain/internal/graphics/renderer"
	"lodterrain/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	winWidth  = 1280
	winHeight = 720
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "terrain YAML configuration (defaults when empty)")
	fpsLimit := flag.Int("fps", 120, "frame rate cap, 0 for unlimited")
	speed := flag.Float64("speed", 8, "camera speed in world units per second")
	flag.Parse()

	logger := log.New(os.Stderr, "terrainview: ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if err := glfw.Init(); err != nil {
		logger.Fatalf("glfw init: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		logger.Fatalf("window: %v", err)
	}

	chunksRenderer := chunks.NewChunks()
	outlineRenderer := outline.NewOutline()
	hudRenderer := hud.NewHUD()

	r, err := renderer.NewRenderer(winWidth, winHeight, chunksRenderer, outlineRenderer, hudRenderer)
	if err != nil {
		logger.Fatalf("renderer: %v", err)
	}
	defer r.Dispose()

	c := cfg.Octree.Center
	eye := graphics.NewFlyCamera(mgl32.Vec3{float32(c[0]), float32(c[1]) + 2, float32(c[2]) + 4}, float32(*speed))

	terrain, err := world.New(cfg, chunksRenderer, eye, log.New(os.Stderr, "terrain: ", log.LstdFlags|log.Lmicroseconds))
	if err != nil {
		logger.Fatalf("terrain: %v", err)
	}
	defer terrain.Close()

	loop := NewViewLoop(window, r, terrain, eye, chunksRenderer, outlineRenderer, hudRenderer, logger, *fpsLimit)
	setupInputHandlers(window, loop)
	loop.Run()
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(winWidth, winHeight, "lodterrain", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Disable V-Sync; the frame limiter paces the loop
	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}
