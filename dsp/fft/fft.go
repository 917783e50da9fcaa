package fft

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cwbudde/algo-stft/dsp/core"
)

// Transformer computes the complex spectrum of a fixed-length real frame.
type Transformer interface {
	// Len returns the transform length N.
	Len() int
	// Forward writes the N-bin spectrum of src into dst. Both slices must
	// have length N.
	Forward(dst []complex128, src []float64) error
}

// Backend creates transformers for a given length.
type Backend interface {
	Name() string
	NewTransformer(n int) (Transformer, error)
}

// Default returns the default backend.
func Default() Backend { return AlgoFFT{} }

// Backends returns every available backend, default first.
func Backends() []Backend {
	return []Backend{AlgoFFT{}, Gonum{}, GoDSP{}}
}

// ParseBackend returns the backend registered under name.
// An empty name selects [Default].
func ParseBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default(), nil
	}
	for _, b := range Backends() {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("fft: unknown backend %q: %w", name, core.ErrInvalidParameter)
}

func checkLengths(n int, dst []complex128, src []float64) error {
	if len(src) != n || len(dst) != n {
		return fmt.Errorf("fft: length mismatch: plan=%d src=%d dst=%d: %w",
			n, len(src), len(dst), core.ErrInvalidParameter)
	}
	return nil
}

func unsupported(backend string, n int, err error) error {
	if err != nil {
		return fmt.Errorf("fft: %s cannot plan size %d: %w: %w", backend, n, core.ErrUnsupportedSize, err)
	}
	return fmt.Errorf("fft: %s cannot plan size %d: %w", backend, n, core.ErrUnsupportedSize)
}

// Cache pools idle transformers by length for one backend.
// It is safe for concurrent use.
type Cache struct {
	backend Backend

	mu    sync.Mutex
	pools map[int]*sync.Pool
}

// NewCache returns a cache over b. A nil backend selects [Default].
func NewCache(b Backend) *Cache {
	if b == nil {
		b = Default()
	}
	return &Cache{backend: b, pools: make(map[int]*sync.Pool)}
}

// Backend returns the backend the cache creates transformers with.
func (c *Cache) Backend() Backend { return c.backend }

// Get returns an idle transformer of length n, creating one if none is
// available. Return it with [Cache.Put] when done.
func (c *Cache) Get(n int) (Transformer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fft: size must be > 0: %d: %w", n, core.ErrInvalidParameter)
	}
	if t, ok := c.pool(n).Get().(Transformer); ok && t != nil {
		return t, nil
	}
	return c.backend.NewTransformer(n)
}

// Put returns t to the cache.
func (c *Cache) Put(t Transformer) {
	if t == nil {
		return
	}
	c.pool(t.Len()).Put(t)
}

func (c *Cache) pool(n int) *sync.Pool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pools[n]
	if !ok {
		p = &sync.Pool{}
		c.pools[n] = p
	}
	return p
}

var defaultCache = NewCache(Default())

// Transform returns the full complex spectrum of src using the default
// backend. Plans are cached by length across calls.
func Transform(src []float64) ([]complex128, error) {
	return TransformWith(defaultCache, src)
}

// TransformWith is [Transform] with an explicit cache.
func TransformWith(c *Cache, src []float64) ([]complex128, error) {
	t, err := c.Get(len(src))
	if err != nil {
		return nil, err
	}
	defer c.Put(t)

	dst := make([]complex128, len(src))
	if err := t.Forward(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}
