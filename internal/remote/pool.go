package remote

import "fmt"

// Pool bounds the number of concurrently used command channels to a fixed
// size set at construction. Acquire blocks when every channel is in use;
// the pool never grows.
type Pool struct {
	runners chan CommandRunner
	all     []CommandRunner
	size    int
}

// NewPool builds size runners up front using the factory. A factory error
// tears down the runners already built and fails construction.
func NewPool(size int, factory func() (CommandRunner, error)) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		runners: make(chan CommandRunner, size),
		size:    size,
	}
	for i := 0; i < size; i++ {
		r, err := factory()
		if err != nil {
			p.CloseAll()
			return nil, fmt.Errorf("build pooled runner %d: %w", i+1, err)
		}
		p.all = append(p.all, r)
		p.runners <- r
	}
	return p, nil
}

// Acquire takes a runner from the pool, blocking until one is free.
func (p *Pool) Acquire() CommandRunner {
	return <-p.runners
}

// Release returns a runner to the pool. Releasing a runner the pool did not
// hand out would corrupt accounting; callers pair every Acquire with exactly
// one Release.
func (p *Pool) Release(r CommandRunner) {
	p.runners <- r
}

// Size returns the fixed pool size.
func (p *Pool) Size() int {
	return p.size
}

// CloseAll closes every runner that owns a transport. Invoked once at the
// end of a batch; the pool is unusable afterwards.
func (p *Pool) CloseAll() {
	for _, r := range p.all {
		if c, ok := r.(Closer); ok {
			_ = c.Close()
		}
	}
	p.all = nil
}
