package session

import (
	"fmt"

	"github.com/pthm-cable/lenia/renderer"
)

// Status is the state shown in a front end's status overlay.
type Status struct {
	Tick      int64
	FPS       int32
	Mass      float64
	Kernel    string
	Pattern   string
	Scheme    string
	Backend   string
	Precision string
	GridW     int
	GridH     int
	Zoom      float64
	Paused    bool
	Message   string
}

// Status collects the overlay state. fps is measured by the front end.
func (s *Session) Status(fps int32) Status {
	w, h := s.Size()
	return Status{
		Tick:      s.Tick(),
		FPS:       fps,
		Mass:      s.Mass(),
		Kernel:    string(s.Kernel()),
		Pattern:   string(s.Pattern()),
		Scheme:    renderer.Scheme(s.p.ColorScheme).String(),
		Backend:   s.Backend(),
		Precision: s.Precision(),
		GridW:     w,
		GridH:     h,
		Zoom:      s.viewport.Zoom,
		Paused:    s.paused,
	}
}

// Lines formats the status text, one string per line. Message is not
// included.
func (st Status) Lines() []string {
	lines := []string{
		fmt.Sprintf("Tick: %d | FPS: %d | Mass: %.1f", st.Tick, st.FPS, st.Mass),
		fmt.Sprintf("Kernel: %s | Pattern: %s | Colors: %s", st.Kernel, st.Pattern, st.Scheme),
		fmt.Sprintf("Grid: %dx%d | Zoom: %.2fx | %s/%s", st.GridW, st.GridH, st.Zoom, st.Backend, st.Precision),
	}
	if st.Paused {
		lines = append(lines, "PAUSED")
	}
	return lines
}
