package main

import (
	"fmt"
	"strings"
	"time"

	"render-pipeline/scene"
)

// hud builds the window title: frame rate plus the active toggles. It
// refreshes once per second.
type hud struct {
	title  string
	frames int
	since  time.Time
}

func newHUD(title string) *hud {
	return &hud{title: title}
}

// frame counts one frame and returns a new title when a second has passed.
func (h *hud) frame(now time.Time, ui scene.UIParams) (string, bool) {
	if h.since.IsZero() {
		h.since = now
	}
	h.frames++
	elapsed := now.Sub(h.since)
	if elapsed < time.Second {
		return "", false
	}
	fps := float64(h.frames) / elapsed.Seconds()
	h.frames = 0
	h.since = now
	return h.line(fps, ui), true
}

func (h *hud) line(fps float64, ui scene.UIParams) string {
	var flags []string
	if ui.Paused {
		flags = append(flags, "paused")
	}
	if ui.SoftShadows {
		flags = append(flags, "soft shadows")
	}
	if ui.SSAO {
		flags = append(flags, "ssao")
	}
	if ui.Bloom {
		flags = append(flags, "bloom")
	}
	if ui.ShowCapture {
		flags = append(flags, "capture preview")
	}
	s := fmt.Sprintf("%s | FPS: %.0f", h.title, fps)
	if len(flags) > 0 {
		s += " | " + strings.Join(flags, ", ")
	}
	return s
}
