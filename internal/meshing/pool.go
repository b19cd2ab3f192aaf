package meshing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"voxmesh/internal/catalog"
	"voxmesh/internal/volume"
)

// Job asks the pool to mesh one volume. The tag travels with the result so
// callers can match results to submissions; the volume must not be mutated
// while the job is in flight.
type Job struct {
	Tag       int
	Volume    *volume.Volume
	CountOnly bool
}

// Result carries the output of one job. Geometry is nil for count-only jobs.
type Result struct {
	Tag      int
	Quads    int
	Geometry *Geometry
}

// Pool meshes volumes on a fixed set of workers. Each worker owns a private
// Mesher, so the single-caller rule holds without locking and mask buffers
// are reused across jobs on the same worker.
type Pool struct {
	ctx     context.Context
	group   *errgroup.Group
	jobs    chan Job
	results chan Result
	err     error
}

// NewPool starts workers goroutines meshing against reg. queueSize bounds
// both the job and result channels.
func NewPool(ctx context.Context, reg *catalog.Registry, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	group, ctx := errgroup.WithContext(ctx)
	p := &Pool{
		ctx:     ctx,
		group:   group,
		jobs:    make(chan Job, queueSize),
		results: make(chan Result, queueSize),
	}
	for i := 0; i < workers; i++ {
		group.Go(func() error {
			return p.work(reg)
		})
	}
	go func() {
		p.err = group.Wait()
		close(p.results)
	}()
	return p
}

func (p *Pool) work(reg *catalog.Registry) error {
	m := New(reg)
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return nil
			}
			res, err := p.run(m, job)
			if err != nil {
				return err
			}
			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return p.ctx.Err()
			}
		case <-p.ctx.Done():
			return p.ctx.Err()
		}
	}
}

func (p *Pool) run(m *Mesher, job Job) (Result, error) {
	if err := m.SetVolume(job.Volume); err != nil {
		return Result{}, err
	}
	if job.CountOnly {
		n, err := m.CountQuads()
		return Result{Tag: job.Tag, Quads: n}, err
	}
	geo, err := m.Mesh()
	if err != nil {
		return Result{}, err
	}
	return Result{Tag: job.Tag, Quads: geo.NumQuads, Geometry: geo}, nil
}

// Submit queues a job. It blocks while the queue is full and returns the
// pool's context error once workers have shut down.
func (p *Pool) Submit(job Job) error {
	select {
	case p.jobs <- job:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Close stops intake. Workers drain the remaining jobs, then the Results
// channel is closed. Submit must not be called after Close.
func (p *Pool) Close() {
	close(p.jobs)
}

// Results returns the channel results arrive on. It is closed once every
// worker has exited.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Err reports the first worker error. It is only valid to call after the
// Results channel has been closed.
func (p *Pool) Err() error {
	return p.err
}
