package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"lodterrain/internal/config"
	"lodterrain/internal/graphics"
	"lodterrain/internal/graphics/renderables/chunks"
	"lodterrain/internal/graphics/renderables/hud"
	"lodterrain/internal/graphics/renderables/outline"
	renderer "lodterrain/internal/graphics/renderer"
	"lodterrain/internal/profiling"
	"lodterrain/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// ViewLoop owns the per-frame state of the viewer
type ViewLoop struct {
	window   *glfw.Window
	renderer *renderer.Renderer
	terrain  *world.Terrain
	eye      *graphics.FlyCamera
	chunks   *chunks.Chunks
	outline  *outline.Outline
	hud      *hud.HUD
	logger   *log.Logger

	paused     bool
	fpsLimiter *FPSLimiter

	// Timing
	frames      int
	fps         int
	lastFPSTime time.Time
	lastTime    time.Time
	last        world.TickStats
	totals      world.TickStats
}

// NewViewLoop wires the frame loop to its collaborators
func NewViewLoop(window *glfw.Window, r *renderer.Renderer, t *world.Terrain, eye *graphics.FlyCamera,
	c *chunks.Chunks, o *outline.Outline, h *hud.HUD, logger *log.Logger, fpsLimit int) *ViewLoop {
	return &ViewLoop{
		window:      window,
		renderer:    r,
		terrain:     t,
		eye:         eye,
		chunks:      c,
		outline:     o,
		hud:         h,
		logger:      logger,
		fpsLimiter:  NewFPSLimiter(fpsLimit),
		lastFPSTime: time.Now(),
		lastTime:    time.Now(),
	}
}

func (l *ViewLoop) chunksPerFrame() int {
	if n := config.GetChunksPerFrame(); n > 0 {
		return n
	}
	return l.terrain.Config().Scheduler.ChunksPerFrame
}

// Run drives frames until the window closes
func (l *ViewLoop) Run() {
	l.logger.Print(helpText)
	ctx := context.Background()
	for !l.window.ShouldClose() {
		if err := l.frame(ctx); err != nil {
			l.logger.Printf("tick: %v", err)
		}
	}
}

func (l *ViewLoop) frame(ctx context.Context) error {
	profiling.ResetFrame()
	now := time.Now()
	dt := now.Sub(l.lastTime).Seconds()
	l.lastTime = now

	var tickErr error
	if !l.paused {
		forward, right, up := movementAxes(l.window)
		l.eye.Move(forward, right, up, dt)

		stats, err := l.terrain.Tick(ctx)
		tickErr = err
		l.last = stats
		l.totals.Created += stats.Created
		l.totals.Destroyed += stats.Destroyed
		l.totals.Rebuilt += stats.Rebuilt
	}

	l.renderer.Render(l.terrain, l.eye, dt)
	l.frames++

	if time.Since(l.lastFPSTime) >= time.Second {
		l.fps = l.frames
		l.logger.Printf("fps=%d %s | created=%d destroyed=%d rebuilt=%d | %s",
			l.fps, l.last, l.totals.Created, l.totals.Destroyed, l.totals.Rebuilt, profiling.TopN(5))
		l.frames = 0
		l.totals = world.TickStats{}
		l.lastFPSTime = time.Now()
	}
	l.updateHUD()

	func() { defer profiling.Track("glfw.SwapBuffers")(); l.window.SwapBuffers() }()
	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	l.fpsLimiter.Wait(l.paused)
	return tickErr
}

func (l *ViewLoop) updateHUD() {
	drawn, culled := l.chunks.Stats()
	p := l.eye.Position()
	state := ""
	if l.paused {
		state = " [paused]"
	}
	l.hud.SetLines(
		fmt.Sprintf("fps %d%s", l.fps, state),
		fmt.Sprintf("pos %.1f %.1f %.1f", p.X(), p.Y(), p.Z()),
		fmt.Sprintf("chunks %d drawn %d culled %d", l.last.Chunks, drawn, culled),
		fmt.Sprintf("per frame %d smooth %v weld %v", l.chunksPerFrame(), config.GetSmoothShading(), config.GetWeldVertices()),
	)
}
