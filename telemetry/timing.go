package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TimingCollector records stage durations as a tree. The first Start call
// becomes the root; later top-level calls nest under the stage currently
// running.
type TimingCollector struct {
	mu      sync.Mutex
	root    *stage
	current *stage
}

type stage struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *stage
	children []*stage
}

func (s *stage) duration() time.Duration {
	return s.end.Sub(s.start)
}

// NewTimingCollector returns an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start implements Collector.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &stage{name: name, start: time.Now()}
	if c.root == nil {
		c.root = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node
	return &stageTimer{collector: c, node: node}
}

// Report writes the timing tree, one line per stage. Stages taking 100ms
// or more are marked.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", c.root.name, formatDuration(c.root.duration()))
	for i, child := range c.root.children {
		writeStage(w, child, "", i == len(c.root.children)-1)
	}
}

type stageTimer struct {
	collector *TimingCollector
	node      *stage
}

func (t *stageTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = time.Now()
	if t.node.parent != nil {
		t.collector.current = t.node.parent
	}
}

func (t *stageTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &stage{name: name, start: time.Now(), parent: t.node}
	t.node.children = append(t.node.children, node)
	return &stageTimer{collector: t.collector, node: node}
}

const slowStage = 100 * time.Millisecond

func writeStage(w io.Writer, node *stage, prefix string, last bool) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	mark := ""
	if node.duration() >= slowStage {
		mark = " (slow)"
	}
	fmt.Fprintf(w, "%s%s%s: %s%s\n", prefix, branch, node.name, formatDuration(node.duration()), mark)

	for i, child := range node.children {
		writeStage(w, child, prefix+extension, i == len(node.children)-1)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
