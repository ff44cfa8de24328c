// SPDX-License-Identifier: EPL-2.0

// Package telemetry renders the hub's terminal dashboard from engine
// snapshots. It only reads published values and never touches the audio
// path.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ik5/audmatrix/mixer"
	"github.com/sirupsen/logrus"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[91m"
	ansiGreen  = "\033[92m"
	ansiYellow = "\033[93m"
	ansiBlue   = "\033[94m"
	ansiCyan   = "\033[96m"
	ansiWhite  = "\033[97m"

	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	topLeft    = "\033[H"
)

const (
	DefaultTitle = "=== IC.ME Matrix Hub ==="
	MeterWidth   = 20
	// FieldThreshold is the energy above which a non-desk meter lights up.
	FieldThreshold = 0.01
)

// Snapshotter is what the dashboard reads; *mixer.Engine implements it.
type Snapshotter interface {
	Snapshot() mixer.Snapshot
}

type Dashboard struct {
	w     io.Writer
	src   Snapshotter
	title string
}

func New(w io.Writer, src Snapshotter) *Dashboard {
	return &Dashboard{w: w, src: src, title: DefaultTitle}
}

// SetTitle replaces the header line. Call it before Run.
func (d *Dashboard) SetTitle(title string) {
	d.title = title
}

// Meter draws a width-cell bar for energy. The bar is full at energy 0.1.
// Safety channels are red; desk channels are green above threshold and
// blue below; anything else is cyan above threshold and white below.
func Meter(energy, threshold float64, role mixer.Role, width int) string {
	width = max(width, 0)
	val := min(energy*10, 1)
	level := max(min(int(val*float64(width)), width), 0)

	var color string
	switch {
	case role == mixer.RoleSafety:
		color = ansiRed
	case role == mixer.RoleStationary && energy > threshold:
		color = ansiGreen
	case role == mixer.RoleStationary:
		color = ansiBlue
	case energy > threshold:
		color = ansiCyan
	default:
		color = ansiWhite
	}

	return color + strings.Repeat("█", level) + strings.Repeat("░", width-level) + ansiReset
}

// Render formats one frame of the dashboard. It is safe to call while Run
// is active.
func (d *Dashboard) Render(s mixer.Snapshot) string {
	b := &strings.Builder{}
	b.Grow(64 * (len(s.Channels) + 4))

	fmt.Fprintf(b, "%s%s%s%s%s\n", topLeft, ansiYellow, ansiBold, d.title, ansiReset)
	fmt.Fprintf(b, "%-15s | %-10s | %-20s\n", "UNIT", "LOCATION", "SIGNAL LEVEL")
	b.WriteString(strings.Repeat("-", 55))
	b.WriteByte('\n')

	for _, ch := range s.Channels {
		threshold := FieldThreshold
		if ch.Role == mixer.RoleStationary {
			threshold = s.Threshold
		}
		fmt.Fprintf(b, "%-15s | %-10s | %s\n", ch.Name, ch.Role.Location(), Meter(ch.Energy, threshold, ch.Role, MeterWidth))
	}

	modeColor := ansiBlue
	if s.Mode == mixer.ModeStationaryPriority {
		modeColor = ansiRed
	}
	fmt.Fprintf(b, "\n%sMATRIX FADER: %.2f | STATUS: %s%s%s%s\n",
		ansiBold, s.Level, modeColor, s.Mode, ansiReset, ansiReset)

	return b.String()
}

// Draw renders the current snapshot to the writer.
func (d *Dashboard) Draw() error {
	if _, err := io.WriteString(d.w, d.Render(d.src.Snapshot())); err != nil {
		return fmt.Errorf("draw dashboard: %w", err)
	}

	return nil
}

// Run redraws every interval until ctx is done, hiding the cursor while it
// runs. A final frame is drawn on exit so the last state stays on screen.
func (d *Dashboard) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("dashboard interval %s: must be positive", interval)
	}

	if _, err := io.WriteString(d.w, hideCursor); err != nil {
		return fmt.Errorf("draw dashboard: %w", err)
	}
	defer func() {
		_, _ = fmt.Fprintf(d.w, "\n%s%sMatrix Engine Offline.%s\n", showCursor, ansiRed, ansiReset)
	}()

	logrus.WithFields(logrus.Fields{
		"function": "telemetry.Dashboard.Run",
		"interval": interval,
	}).Debug("Dashboard started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return d.Draw()
		case <-ticker.C:
			if err := d.Draw(); err != nil {
				return err
			}
		}
	}
}
