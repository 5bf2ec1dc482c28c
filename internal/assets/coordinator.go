package assets

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/stlview/internal/engine/model"
	"github.com/Faultbox/stlview/internal/logger"
	"github.com/Faultbox/stlview/pkg/formats"
)

// resultBuffer bounds undelivered load notifications; extra results are dropped.
const resultBuffer = 16

// LoadFunc reads and normalizes the model at path.
type LoadFunc func(path string) (*model.NormalizedModel, error)

// LoadModel parses an STL file and normalizes it.
func LoadModel(path string) (*model.NormalizedModel, error) {
	mesh, err := formats.LoadSTL(path)
	if err != nil {
		return nil, err
	}
	return model.Normalize(mesh), nil
}

// Request identifies one submitted load.
type Request struct {
	Path       string
	Generation uint64
}

// Result describes a settled load.
type Result struct {
	Request
	Model   *model.NormalizedModel // nil on failure
	Err     error
	Stale   bool // superseded by a newer request and discarded
	Elapsed time.Duration
}

// Coordinator runs model loads on background goroutines and publishes the
// newest one into its Slot. It is safe for concurrent use.
type Coordinator struct {
	slot    *Slot
	load    LoadFunc
	wg      sync.WaitGroup
	results chan Result
}

// NewCoordinator creates a coordinator publishing into slot. A nil load uses LoadModel.
func NewCoordinator(slot *Slot, load LoadFunc) *Coordinator {
	if load == nil {
		load = LoadModel
	}
	return &Coordinator{
		slot:    slot,
		load:    load,
		results: make(chan Result, resultBuffer),
	}
}

// Slot returns the slot results are published into.
func (c *Coordinator) Slot() *Slot {
	return c.slot
}

// Submit starts loading path on a new goroutine and returns immediately.
// Every call gets a higher generation than the one before; when a load
// finishes after a newer submission, its result is discarded. Older loads are
// not interrupted.
func (c *Coordinator) Submit(path string) Request {
	req := Request{Path: path, Generation: c.slot.begin()}

	logger.Info("model load submitted",
		zap.String("path", path),
		zap.Uint64("generation", req.Generation),
	)

	c.wg.Add(1)
	go c.run(req)

	return req
}

func (c *Coordinator) run(req Request) {
	defer c.wg.Done()

	start := time.Now()
	m, err := c.load(req.Path)
	res := Result{
		Request: req,
		Model:   m,
		Err:     err,
		Elapsed: time.Since(start),
	}
	res.Stale = c.slot.publish(req.Generation, m, err)

	switch {
	case res.Stale:
		logger.Debug("discarding superseded model load",
			zap.String("path", req.Path),
			zap.Uint64("generation", req.Generation),
			zap.Error(err),
		)
	case err != nil:
		logger.Error("model load failed",
			zap.String("path", req.Path),
			zap.Uint64("generation", req.Generation),
			zap.Error(err),
		)
	default:
		logger.Info("model published",
			zap.String("path", req.Path),
			zap.Uint64("generation", req.Generation),
			zap.Int("triangles", m.TriangleCount()),
			zap.Float32("extent", m.Extent),
			zap.Duration("elapsed", res.Elapsed),
		)
	}

	select {
	case c.results <- res:
	default:
	}
}

// Results delivers settled loads for status display. Delivery is best
// effort: loads never block on a slow reader.
func (c *Coordinator) Results() <-chan Result {
	return c.results
}

// Wait blocks until every submitted load has settled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
