//go:build profile

// Span capture for frame-pipeline stages. Spans go into a fixed ring so a
// long session keeps only the most recent window; Dump writes the window as a
// speedscope evented profile.
package profiler

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type span struct {
	atNS  int64
	frame int
	open  bool
}

type ring struct {
	ready atomic.Bool
	size  uint64
	write atomic.Uint64
	spans []span
}

func (r *ring) init(capacity int) {
	r.size = uint64(capacity)
	r.spans = make([]span, r.size)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *ring) push(s span) {
	i := r.write.Add(1) - 1
	r.spans[i%r.size] = s
}

// snapshot returns the retained window in write order.
func (r *ring) snapshot() []span {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.size {
		start = n - r.size
	}
	out := make([]span, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.spans[k%r.size])
	}
	return out
}

var rb ring

// Name interner: span events store an index, the dump resolves names once.
var (
	namesMu sync.Mutex
	names   []string
	nameIdx = map[string]int{}
)

func intern(name string) int {
	namesMu.Lock()
	defer namesMu.Unlock()
	if id, ok := nameIdx[name]; ok {
		return id
	}
	id := len(names)
	nameIdx[name] = id
	names = append(names, name)
	return id
}

// Init sizes the span ring (number of open/close events retained). Call once
// at startup.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	rb.init(capacity)
}

// Start opens a span and returns the closer, usually deferred:
//
//	defer profiler.Start("frame.tick")()
func Start(name string) func() {
	if !rb.ready.Load() {
		return func() {}
	}
	fid := intern(name)
	begin := time.Now().UnixNano()
	rb.push(span{atNS: begin, frame: fid, open: true})
	return func() {
		end := time.Now().UnixNano()
		if end < begin {
			end = begin
		}
		rb.push(span{atNS: end, frame: fid, open: false})
	}
}

// Dump writes the captured spans to path in speedscope's evented format.
func Dump(path string) error {
	spans := rb.snapshot()
	if len(spans) == 0 {
		return fmt.Errorf("profiler: no spans captured")
	}
	return writeSpeedscope(spans, path)
}

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // microseconds since first event
	Frame int    `json:"frame"`
}

func writeSpeedscope(spans []span, path string) error {
	namesMu.Lock()
	frames := make([]ssFrame, len(names))
	for i, n := range names {
		frames[i] = ssFrame{Name: n}
	}
	namesMu.Unlock()

	base := spans[0].atNS
	events := make([]ssEvent, 0, len(spans)+16)
	stack := make([]int, 0, 64)
	lastUS := int64(0)

	for _, s := range spans {
		atUS := (s.atNS - base) / 1000
		if atUS < lastUS {
			atUS = lastUS // keep the timeline monotonic at microsecond grain
		}
		if s.open {
			events = append(events, ssEvent{Type: "O", At: atUS, Frame: s.frame})
			stack = append(stack, s.frame)
		} else {
			// The ring may have evicted the matching open; skip the orphan.
			if len(stack) == 0 || stack[len(stack)-1] != s.frame {
				continue
			}
			stack = stack[:len(stack)-1]
			events = append(events, ssEvent{Type: "C", At: atUS, Frame: s.frame})
		}
		lastUS = atUS
	}

	// Speedscope requires balanced events; close anything still open.
	for i := len(stack) - 1; i >= 0; i-- {
		events = append(events, ssEvent{Type: "C", At: lastUS, Frame: stack[i]})
	}
	if len(events) == 0 {
		return fmt.Errorf("profiler: no balanced spans to dump")
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:       "evented",
			Name:       "frame pipeline",
			Unit:       "microseconds",
			StartValue: 0,
			EndValue:   lastUS,
			Events:     events,
		}},
		Exporter: "sqgui-profiler",
		Name:     "sqgui capture",
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
