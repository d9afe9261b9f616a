package loader

import (
	"io/fs"
	"sync"
)

// progress accumulates the bytes read for one load and reports them as a fraction of a declared total.
// Reported fractions never decrease, and 1 is only reported by finish.
type progress struct {
	mu     sync.Mutex
	total  int64
	read   int64
	last   float64
	step   float64
	done   bool
	report func(fraction float64)
}

func newProgress(step float64, report func(float64)) *progress {
	if report == nil {
		report = func(float64) {}
	}
	return &progress{step: step, report: report}
}

func (p *progress) start() {
	p.report(0)
}

// setTotal declares the number of bytes the load will read. Non-positive totals leave the size unknown.
func (p *progress) setTotal(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *progress) add(n int) {
	if n <= 0 {
		return
	}
	p.mu.Lock()
	p.read += int64(n)
	if p.total <= 0 || p.done {
		p.mu.Unlock()
		return
	}
	f := float64(p.read) / float64(p.total)
	if f >= 1 || f-p.last < p.step {
		p.mu.Unlock()
		return
	}
	p.last = f
	p.mu.Unlock()
	p.report(f)
}

func (p *progress) finish() {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	p.last = 1
	p.mu.Unlock()
	p.report(1)
}

// countingFS counts every byte read through files it opens.
type countingFS struct {
	fsys fs.FS
	p    *progress
}

func (c *countingFS) Open(name string) (fs.File, error) {
	f, err := c.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	return &countingFile{File: f, p: c.p}, nil
}

type countingFile struct {
	fs.File
	p *progress
}

func (f *countingFile) Read(b []byte) (int, error) {
	n, err := f.File.Read(b)
	f.p.add(n)
	return n, err
}
