package voxel

import (
	"fmt"

	"lodterrain/internal/config"
	"lodterrain/internal/jobs"
	"lodterrain/internal/profiling"
)

// Pipeline is an ordered, validated list of stages.
type Pipeline struct {
	stages []Stage
}

// NewPipeline validates stages. An empty pipeline is a configuration error
// since it would leave fields unpopulated.
func NewPipeline(stages []Stage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: pipeline must contain at least one stage", config.ErrInvalid)
	}
	for i, st := range stages {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("%w: pipeline[%d]: %v", config.ErrInvalid, i, err)
		}
	}
	return &Pipeline{stages: append([]Stage(nil), stages...)}, nil
}

// PipelineFromConfig parses and validates the configured pipeline.
func PipelineFromConfig(cfg *config.Config) (*Pipeline, error) {
	stages, err := ParseStages(cfg)
	if err != nil {
		return nil, err
	}
	return NewPipeline(stages)
}

func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

func (p *Pipeline) Len() int { return len(p.stages) }

// Builder fills fields by running a pipeline on a job scheduler.
type Builder struct {
	sched    *jobs.Scheduler
	pipeline *Pipeline
}

func NewBuilder(sched *jobs.Scheduler, pipeline *Pipeline) *Builder {
	return &Builder{sched: sched, pipeline: pipeline}
}

func (b *Builder) Pipeline() *Pipeline { return b.pipeline }

// Future is a field whose population may still be in flight.
type Future struct {
	field  *Field
	handle jobs.Handle
}

// Await blocks until every stage has run and returns the field.
func (f Future) Await() (*Field, error) {
	if err := f.handle.Complete(); err != nil {
		return nil, err
	}
	return f.field, nil
}

// Handle is the completion of the last stage. Pass it as the dependency of
// anything that reads the field.
func (f Future) Handle() jobs.Handle { return f.handle }

// Field returns the target field without waiting. Reading it before the
// handle completes is a data race.
func (f Future) Field() *Field { return f.field }

// Build schedules every stage over field once dependsOn has completed.
// Stage i+1 depends on stage i, so each stage sees all writes of the
// previous one. A nil field, or one with the wrong resolution, is
// (re)allocated before anything is scheduled; the caller must not have work
// in flight on it.
func (b *Builder) Build(spec ChunkSpec, field *Field, dependsOn jobs.Handle) Future {
	defer profiling.Track("voxel.Build")()

	if field == nil {
		field = NewField(spec.Resolution)
	} else {
		field.Resize(spec.Resolution)
	}

	h := dependsOn
	for _, st := range b.pipeline.stages {
		h = b.sched.Schedule(field.Len(), st.kernel(field, spec), h)
	}
	return Future{field: field, handle: h}
}
