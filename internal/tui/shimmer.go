package tui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"
)

// shimmerInterval is the animation tick
const shimmerInterval = 100 * time.Millisecond

// shimmerTickMsg advances a Shimmer
type shimmerTickMsg struct{}

// Shimmer sweeps a highlight across a line of text. It marks content that
// is still loading.
type Shimmer struct {
	center    float64
	width     float64 // highlight width as a share of the text length
	pause     int     // ticks to hold between sweeps
	paused    int
	active    bool
	trueColor bool
}

func NewShimmer() *Shimmer {
	return &Shimmer{
		width:     0.25,
		pause:     5,
		active:    true,
		trueColor: os.Getenv("COLORTERM") == "truecolor",
	}
}

// SetActive starts or stops the sweep
func (s *Shimmer) SetActive(active bool) {
	s.active = active
	if !active {
		s.center = 0
		s.paused = 0
	}
}

// Active reports whether the sweep is running
func (s *Shimmer) Active() bool {
	return s.active
}

// Advance moves the highlight one step along text of length n
func (s *Shimmer) Advance(n int) {
	if !s.active || n == 0 {
		return
	}
	if s.paused > 0 {
		s.paused--
		if s.paused == 0 {
			s.center = -float64(n) * s.width
		}
		return
	}
	s.center += float64(n) * (1 + 2*s.width) / 18
	if s.center >= float64(n)*(1+s.width) {
		s.paused = s.pause
	}
}

// Render draws text with the highlight at its current position
func (s *Shimmer) Render(text string) string {
	runes := []rune(text)
	if len(runes) == 0 || !s.active {
		return text
	}

	var b strings.Builder
	if !s.trueColor {
		span := int(s.width * float64(len(runes)))
		if span < 1 {
			span = 1
		}
		start := int(s.center) - span/2
		for i, r := range runes {
			if i >= start && i < start+span {
				b.WriteString(fmt.Sprintf("\033[38;5;122m%c", r))
			} else {
				b.WriteString(fmt.Sprintf("\033[38;5;250m%c", r))
			}
		}
		b.WriteString("\033[0m")
		return b.String()
	}

	// Blend #A9C2BA towards #E0FFF7 along a bell curve around center
	sigma := math.Max(1, s.width*float64(len(runes))/2)
	for i, r := range runes {
		dx := float64(i) - s.center
		w := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		red := int(169*(1-w) + 224*w)
		green := int(194*(1-w) + 255*w)
		blue := int(186*(1-w) + 247*w)
		b.WriteString(fmt.Sprintf("\033[38;2;%d;%d;%dm%c", red, green, blue, r))
	}
	b.WriteString("\033[0m")
	return b.String()
}
