package main

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bcoe/ccp/internal/cp"
	"github.com/bcoe/ccp/internal/render"
)

var _ cp.Progress = (*plainProgress)(nil)

// plainProgress implements cp.Progress the same way progressUpdater does,
// but renders to an internal/render.Renderer instead of driving a
// bubbletea program. It's used when stderr isn't a terminal bubbletea can
// take over (piped into a log file, running under CI): a fixed-width
// redraw of the current file and running error list, with none of
// bubbletea's alternate-screen or key-input handling.
type plainProgress struct {
	r *render.Renderer

	max     int64
	current atomic.Int64

	mu      sync.Mutex
	copying string
	errs    []string
}

func newPlainProgress() *plainProgress {
	return &plainProgress{r: render.New()}
}

func (p *plainProgress) Max(n int64) {
	p.max = n
}

func (p *plainProgress) Progress(n int64) {
	p.current.Add(n)
}

func (p *plainProgress) FileStart(from, to string) {
	p.mu.Lock()
	p.copying = from + " -> " + to
	p.mu.Unlock()
}

func (p *plainProgress) FileDone(name string, err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	p.errs = append(p.errs, err.Error())
	p.mu.Unlock()
}

// draw redraws the current frame at the given terminal width. Called on a
// fixed tick from runPlain until the copy finishes.
func (p *plainProgress) draw(width int) {
	p.mu.Lock()
	copying := p.copying
	errs := append([]string(nil), p.errs...)
	p.mu.Unlock()

	pct := 0.0
	if p.max > 0 {
		pct = float64(p.current.Load()) / float64(p.max) * 100
	}

	p.r.Clear(width)
	fmt.Fprintf(p.r, "  %5.1f%%  %s\n", pct, copying)
	if len(errs) > 0 {
		fmt.Fprintln(p.r, strings.Join(errs, "\n"))
	}
	p.r.Flush()
}

// runPlain drives a copy the same way run's bubbletea branch does, but
// polling plainProgress on a ticker instead of routing through an Elm-
// architecture Update loop. Returns once the copy goroutine is done and
// the final frame (including any accumulated errors) has been drawn.
func runPlain(doCopy func(cp.Progress)) []string {
	p := newPlainProgress()
	done := make(chan struct{})
	go func() {
		defer close(done)
		doCopy(p)
	}()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	const width = 80
	for {
		select {
		case <-ticker.C:
			p.draw(width)
		case <-done:
			p.draw(width)
			p.mu.Lock()
			errs := p.errs
			p.mu.Unlock()
			return errs
		}
	}
}
