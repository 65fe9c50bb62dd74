package render

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/hamed0406/maintwindow/internal/display"
	"github.com/hamed0406/maintwindow/internal/domain"
	"github.com/hamed0406/maintwindow/internal/timeline"
)

// ErrRender wraps every failure of a renderer.
var ErrRender = errors.New("render: chart failed")

// Input is what a renderer receives for one view.
type Input struct {
	Events []domain.Event
	Now    time.Time
	Bounds timeline.Bounds
	Config display.Config
}

// Renderer draws the timeline. Implementations must not modify Input.
type Renderer interface {
	Render(w io.Writer, in Input) error
	ContentType() string
}

// Format is the image encoding of a chart.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat maps a config value to a Format; unknown values mean SVG.
func ParseFormat(s string) Format {
	if Format(strings.ToLower(strings.TrimSpace(s))) == FormatPNG {
		return FormatPNG
	}
	return FormatSVG
}
