package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"lodterrain/internal/config"
	"lodterrain/internal/preview"
	"lodterrain/internal/profiling"
	"lodterrain/internal/world"
)

func main() {
	var (
		cfgPath     string
		ticks       int
		path        string
		outDir      string
		scale       int
		maxPreviews int
		dumpConfig  bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to terrain configuration file")
	flag.IntVar(&ticks, "ticks", 16, "number of ticks to run")
	flag.StringVar(&path, "path", "", "observer waypoints as x,y,z;x,y,z")
	flag.StringVar(&outDir, "out", "", "directory for PNG previews (none when empty)")
	flag.IntVar(&scale, "scale", 4, "preview upscaling factor")
	flag.IntVar(&maxPreviews, "previews", 8, "maximum number of chunks to preview")
	flag.BoolVar(&dumpConfig, "dump-config", false, "print the effective configuration and exit")
	flag.Parse()

	logger := log.New(os.Stderr, "terrainbake: ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			logger.Fatalf("marshal config: %v", err)
		}
		os.Stdout.Write(data)
		return
	}

	points, err := parsePath(path)
	if err != nil {
		logger.Fatalf("parse path: %v", err)
	}
	observer := newPathObserver(points)

	terrain, err := world.New(cfg, nil, observer, log.New(os.Stderr, "terrain: ", log.LstdFlags|log.Lmicroseconds))
	if err != nil {
		logger.Fatalf("initialise terrain: %v", err)
	}
	defer terrain.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := bake(ctx, terrain, observer, ticks, logger); err != nil {
		logger.Fatalf("bake: %v", err)
	}

	if outDir != "" {
		n, err := writePreviews(terrain, cfg.IsoLevel(), outDir, scale, maxPreviews)
		if err != nil {
			logger.Fatalf("previews: %v", err)
		}
		logger.Printf("wrote %d previews to %s", n, outDir)
	}
	logger.Printf("profile: %s", profiling.TopN(8))
}

func bake(ctx context.Context, terrain *world.Terrain, observer *pathObserver, ticks int, logger *log.Logger) error {
	var totals world.TickStats
	start := time.Now()
	for i := 0; i < ticks; i++ {
		observer.moveTo(i, ticks)
		stats, err := terrain.Tick(ctx)
		if err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		logger.Printf("%s at %v", stats, observer.Position())
		totals.Created += stats.Created
		totals.Destroyed += stats.Destroyed
		totals.Rebuilt += stats.Rebuilt
		totals.Triangles += stats.Triangles
	}

	vertices, triangles := 0, 0
	for _, ch := range terrain.Chunks() {
		m := ch.Mesh()
		vertices += len(m.Vertices)
		triangles += m.TriangleCount()
	}
	logger.Printf("%d ticks in %s: created=%d destroyed=%d rebuilt=%d live chunks=%d vertices=%d triangles=%d",
		ticks, time.Since(start).Round(time.Millisecond), totals.Created, totals.Destroyed, totals.Rebuilt,
		len(terrain.Chunks()), vertices, triangles)
	return nil
}

// writePreviews renders a mid-height density slice and a heightmap for the
// first chunks in key order.
func writePreviews(terrain *world.Terrain, iso float32, dir string, scale, limit int) (int, error) {
	written := 0
	for _, ch := range terrain.Chunks() {
		if written >= limit {
			break
		}
		field := ch.Field()
		if field == nil {
			continue
		}
		info := ch.Info()
		caption := fmt.Sprintf("%s d=%d", info.Name, info.Depth)

		mid := field.Resolution()/2 + 1
		slice := preview.DensitySlice(field, mid, iso)
		if err := preview.WritePNG(filepath.Join(dir, info.Name+"-slice.png"), slice, scale, caption); err != nil {
			return written, err
		}
		height := preview.Heightmap(field, iso)
		if err := preview.WritePNG(filepath.Join(dir, info.Name+"-height.png"), height, scale, caption); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
