package schedule

import (
	"context"
	"sync"
	"time"
)

// Carousel tracks the visible slide of a slider. With an interval it
// advances on its own; manual navigation restarts the interval.
type Carousel struct {
	mu     sync.Mutex
	n      int
	index  int
	paused bool
	task   *Task
}

func NewCarousel(n int, interval time.Duration) *Carousel {
	c := &Carousel{n: n}
	if interval > 0 && n > 1 {
		c.task = NewTask("carousel", interval, func(context.Context) { c.advance() })
	}
	return c
}

func (c *Carousel) Len() int { return c.n }

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Next moves forward one slide, wrapping around.
func (c *Carousel) Next() int { return c.move(1) }

// Prev moves back one slide, wrapping around.
func (c *Carousel) Prev() int { return c.move(-1) }

// Goto selects slide i modulo the slide count.
func (c *Carousel) Goto(i int) int {
	c.mu.Lock()
	c.index = wrap(i, c.n)
	idx := c.index
	c.mu.Unlock()
	c.restart()
	return idx
}

func (c *Carousel) move(delta int) int {
	c.mu.Lock()
	c.index = wrap(c.index+delta, c.n)
	idx := c.index
	c.mu.Unlock()
	c.restart()
	return idx
}

func (c *Carousel) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		c.index = wrap(c.index+1, c.n)
	}
}

// Pause stops auto-advance until Resume.
func (c *Carousel) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

func (c *Carousel) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
	c.restart()
}

func (c *Carousel) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Autoplay reports whether the carousel advances by itself.
func (c *Carousel) Autoplay() bool {
	return c.task != nil && !c.Paused()
}

func (c *Carousel) Start(ctx context.Context) {
	if c.task != nil {
		c.task.Start(ctx)
	}
}

func (c *Carousel) Stop() {
	if c.task != nil {
		c.task.Stop()
	}
}

func (c *Carousel) restart() {
	if c.task != nil {
		c.task.Reset()
	}
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
