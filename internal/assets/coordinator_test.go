package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/stlview/internal/engine/model"
	"github.com/Faultbox/stlview/pkg/formats"
)

var errBroken = errors.New("broken model")

// gatedLoader blocks each load until its path is released, so tests decide
// the order in which loads finish.
type gatedLoader struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedLoader(paths ...string) *gatedLoader {
	g := &gatedLoader{gates: make(map[string]chan struct{})}
	for _, p := range paths {
		g.gates[p] = make(chan struct{})
	}
	return g
}

func (g *gatedLoader) release(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[path])
}

func (g *gatedLoader) load(path string) (*model.NormalizedModel, error) {
	g.mu.Lock()
	gate := g.gates[path]
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if path == "broken.stl" {
		return nil, errBroken
	}
	return &model.NormalizedModel{Name: path, Extent: 1}, nil
}

// waitResult reads the next settled load or fails the test.
func waitResult(t *testing.T, c *Coordinator) Result {
	t.Helper()
	select {
	case res := <-c.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for load result")
		return Result{}
	}
}

func TestCoordinator_NewerFinishesFirst(t *testing.T) {
	loader := newGatedLoader("a.stl", "b.stl")
	c := NewCoordinator(NewSlot(nil), loader.load)

	reqA := c.Submit("a.stl")
	reqB := c.Submit("b.stl")
	require.Greater(t, reqB.Generation, reqA.Generation)

	loader.release("b.stl")
	resB := waitResult(t, c)
	assert.Equal(t, "b.stl", resB.Path)
	assert.False(t, resB.Stale)

	loader.release("a.stl")
	resA := waitResult(t, c)
	assert.Equal(t, "a.stl", resA.Path)
	assert.True(t, resA.Stale, "older load finishing late must be discarded")

	c.Wait()
	m, gen := c.Slot().Current()
	require.NotNil(t, m)
	assert.Equal(t, "b.stl", m.Name)
	assert.Equal(t, reqB.Generation, gen)
	assert.False(t, c.Slot().Loading())
}

func TestCoordinator_OlderFinishesFirst(t *testing.T) {
	loader := newGatedLoader("a.stl", "b.stl")
	c := NewCoordinator(NewSlot(nil), loader.load)

	c.Submit("a.stl")
	reqB := c.Submit("b.stl")

	loader.release("a.stl")
	resA := waitResult(t, c)
	assert.True(t, resA.Stale, "superseded load must not publish")
	assert.True(t, c.Slot().Loading(), "newest load is still running")

	loader.release("b.stl")
	c.Wait()

	m, gen := c.Slot().Current()
	require.NotNil(t, m)
	assert.Equal(t, "b.stl", m.Name)
	assert.Equal(t, reqB.Generation, gen)
	assert.False(t, c.Slot().Loading())
}

func TestCoordinator_FailureKeepsActiveModel(t *testing.T) {
	initial := &model.NormalizedModel{Name: "initial.stl", Extent: 1}
	c := NewCoordinator(NewSlot(initial), newGatedLoader().load)

	c.Submit("broken.stl")
	c.Wait()

	m, gen := c.Slot().Current()
	assert.Same(t, initial, m)
	assert.Equal(t, uint64(0), gen)
	assert.False(t, c.Slot().Loading(), "failed load must clear the loading flag")
	assert.ErrorIs(t, c.Slot().LastError(), errBroken)

	res := waitResult(t, c)
	assert.ErrorIs(t, res.Err, errBroken)
	assert.False(t, res.Stale)

	// A later success clears the error.
	c.Submit("fixed.stl")
	c.Wait()
	m, _ = c.Slot().Current()
	assert.Equal(t, "fixed.stl", m.Name)
	assert.NoError(t, c.Slot().LastError())
}

func TestCoordinator_StaleFailureIgnored(t *testing.T) {
	loader := newGatedLoader("broken.stl", "good.stl")
	c := NewCoordinator(NewSlot(nil), loader.load)

	c.Submit("broken.stl")
	c.Submit("good.stl")

	loader.release("good.stl")
	loader.release("broken.stl")
	c.Wait()

	m, _ := c.Slot().Current()
	require.NotNil(t, m)
	assert.Equal(t, "good.stl", m.Name)
	assert.NoError(t, c.Slot().LastError(), "errors from superseded loads are not surfaced")
}

func TestCoordinator_LoadingFlag(t *testing.T) {
	loader := newGatedLoader("slow.stl")
	c := NewCoordinator(NewSlot(nil), loader.load)

	assert.False(t, c.Slot().Loading())
	c.Submit("slow.stl")
	assert.True(t, c.Slot().Loading())

	loader.release("slow.stl")
	c.Wait()
	assert.False(t, c.Slot().Loading())
}

func TestCoordinator_ConcurrentSubmits(t *testing.T) {
	c := NewCoordinator(NewSlot(nil), newGatedLoader().load)

	const n = 32
	gens := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gens[i] = c.Submit(filepath.Join("models", string(rune('a'+i))+".stl")).Generation
		}(i)
	}
	wg.Wait()
	c.Wait()

	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	for i, g := range gens {
		assert.Equal(t, uint64(i+1), g, "generations are unique and dense")
	}

	_, gen := c.Slot().Current()
	assert.Equal(t, uint64(n), gen, "only the newest generation may be published")
}

func TestLoadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	stl := "solid tri\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 4 0 0\nvertex 0 2 0\nendloop\nendfacet\nendsolid tri\n"
	require.NoError(t, os.WriteFile(path, []byte(stl), 0644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Name)
	assert.Equal(t, float32(4), m.Extent)
	assert.Equal(t, 1, m.TriangleCount())
	assert.Equal(t, [3]float32{1, 0, 0}, m.Vertices[1].Position)

	_, err = LoadModel(filepath.Join(t.TempDir(), "nope.stl"))
	assert.ErrorIs(t, err, formats.ErrFileNotFound)
}
