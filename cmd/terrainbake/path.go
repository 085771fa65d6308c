package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// pathObserver walks a polyline of waypoints, one step per tick.
type pathObserver struct {
	points []mgl32.Vec3
	pos    mgl32.Vec3
}

// parsePath reads waypoints written as "x,y,z;x,y,z". An empty string is
// the origin.
func parsePath(s string) ([]mgl32.Vec3, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []mgl32.Vec3{{}}, nil
	}
	var points []mgl32.Vec3
	for i, part := range strings.Split(s, ";") {
		fields := strings.Split(strings.TrimSpace(part), ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("waypoint %d %q: want x,y,z", i, part)
		}
		var p mgl32.Vec3
		for a, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
			if err != nil {
				return nil, fmt.Errorf("waypoint %d %q: %w", i, part, err)
			}
			p[a] = float32(v)
		}
		points = append(points, p)
	}
	return points, nil
}

func newPathObserver(points []mgl32.Vec3) *pathObserver {
	o := &pathObserver{points: points}
	if len(points) > 0 {
		o.pos = points[0]
	}
	return o
}

func (o *pathObserver) Position() mgl32.Vec3 { return o.pos }

// moveTo places the observer at step of steps along the path; the first
// step is the first waypoint and the last step the last one.
func (o *pathObserver) moveTo(step, steps int) {
	if len(o.points) < 2 || steps < 2 {
		return
	}
	t := float32(step) / float32(steps-1) * float32(len(o.points)-1)
	seg := min(int(t), len(o.points)-2)
	f := t - float32(seg)
	a, b := o.points[seg], o.points[seg+1]
	o.pos = a.Add(b.Sub(a).Mul(f))
}
