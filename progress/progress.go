// Package progress draws a one line, self overwriting
// progress bar with a smoothed throughput figure. It is
// silent when stdout is not a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ScanStats tracks how far through one input a scan is.
type ScanStats struct {
	isTerm      bool
	out         io.Writer
	name        string
	total       int64
	totalString string
	lastUpdate  time.Time
	lastBytes   int64
	emaSpeed    float64 // bytes per second
	alpha       float64 // EMA smoothing factor (between 0 and 1)
}

func NewScanStats(total int64, name string) *ScanStats {
	return &ScanStats{
		isTerm:      isTerminal(),
		out:         os.Stdout,
		name:        name,
		total:       total,
		totalString: formatBytes(float64(total), true),
		lastUpdate:  time.Now(),
		alpha:       0.1, // higher = more reactive
	}
}

// Speed is the smoothed throughput in bytes per second.
func (s *ScanStats) Speed() float64 {
	return s.emaSpeed
}

func (s *ScanStats) updateSpeed(current int64) (change int64) {
	now := time.Now()
	duration := now.Sub(s.lastUpdate).Seconds()
	change = current - s.lastBytes
	if duration > 0 {
		speed := float64(change) / duration
		if s.emaSpeed == 0 {
			s.emaSpeed = speed
		} else {
			s.emaSpeed = s.alpha*speed + (1-s.alpha)*s.emaSpeed
		}
	}
	s.lastUpdate = now
	s.lastBytes = current
	return
}

// Update records that current bytes are done and redraws.
func (s *ScanStats) Update(current int64) {
	changed := s.updateSpeed(current)
	if !s.isTerm {
		return
	}
	s.draw(current, changed)
}

// Done finishes the line.
func (s *ScanStats) Done() {
	if s.isTerm {
		fmt.Fprintln(s.out)
	}
}

func (s *ScanStats) draw(current, changed int64) {
	const width = 40
	percentage := 1.0
	if s.total > 0 {
		percentage = float64(current) / float64(s.total)
	}
	completed := int(percentage * float64(width))

	speed := formatBytes(s.emaSpeed, false)
	if changed == 0 {
		speed = "-stalled-"
	}
	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i < completed:
			bar.WriteRune('=')
		case i == completed:
			bar.WriteRune('>')
		default:
			bar.WriteRune(' ')
		}
	}
	bar.WriteString("]")

	// \r back to column 0, then one write of a fixed width line.
	fmt.Fprintf(s.out, "\r%-20s %s %6.2f%% %10s total: %s",
		truncateString(s.name, 20),
		bar.String(),
		percentage*100,
		speed,
		s.totalString,
	)
}

// truncate or pad s to exactly width.
func truncateString(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return fmt.Sprintf("%-*s", width, s)
}

// FormatBytes renders a byte count (isTotal) or a rate.
func FormatBytes(bytes float64, isTotal bool) string {
	return formatBytes(bytes, isTotal)
}

func formatBytes(bytes float64, isTotal bool) string {
	units := []string{"B/s  ", "KB/s ", "MB/s ", "GB/s "}
	if isTotal {
		units = []string{"B", "KB", "MB", "GB"}
	}
	unitIndex := 0
	value := bytes

	for value >= 1024 && unitIndex < len(units)-1 {
		value /= 1024
		unitIndex++
	}
	if isTotal {
		return fmt.Sprintf("%0.2f %s", value, units[unitIndex])
	}
	return fmt.Sprintf("%7.2f %s", value, units[unitIndex])
}
