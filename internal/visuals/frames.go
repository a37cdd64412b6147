package visuals

import (
	"fmt"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"lessonforge/internal/config"
	"lessonforge/internal/script"
)

const (
	defaultFrameWidth  = 1280
	defaultFrameHeight = 720
	titleFontPoints    = 64
	bodyFontPoints     = 36
	headingFontPoints  = 44
)

// framePainter rasterizes scene frames. All cards share one palette so the
// video reads as a single deck.
type framePainter struct {
	width    int
	height   int
	fontPath string
}

func newFramePainter(video config.Video) *framePainter {
	width, height := video.Width, video.Height
	if width <= 0 {
		width = defaultFrameWidth
	}
	if height <= 0 {
		height = defaultFrameHeight
	}
	return &framePainter{width: width, height: height, fontPath: video.FontPath}
}

// newContext prepares a canvas with the background painted and the body
// font loaded. When no usable font file is configured the built-in bitmap
// face keeps frames renderable.
func (p *framePainter) newContext(points float64) *gg.Context {
	dc := gg.NewContext(p.width, p.height)
	dc.SetRGB(0.97, 0.96, 0.92)
	dc.Clear()
	p.setFace(dc, points)
	return dc
}

func (p *framePainter) setFace(dc *gg.Context, points float64) {
	if p.fontPath != "" {
		if err := dc.LoadFontFace(p.fontPath, points); err == nil {
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

func (p *framePainter) margin() float64 {
	return float64(p.width) * 0.08
}

func (p *framePainter) paintTitle(path, title string) error {
	dc := p.newContext(titleFontPoints)
	dc.SetRGB(0.18, 0.25, 0.44)
	dc.DrawStringWrapped(title,
		float64(p.width)/2, float64(p.height)/2, 0.5, 0.5,
		float64(p.width)-2*p.margin(), 1.4, gg.AlignCenter)
	return dc.SavePNG(path)
}

func (p *framePainter) paintText(path, heading, body string) error {
	dc := p.newContext(bodyFontPoints)
	top := p.margin()
	if heading != "" {
		p.setFace(dc, headingFontPoints)
		dc.SetRGB(0.18, 0.25, 0.44)
		dc.DrawStringAnchored(heading, p.margin(), top, 0, 0.5)
		top += float64(p.height) * 0.12
		p.setFace(dc, bodyFontPoints)
	}
	dc.SetRGB(0.15, 0.15, 0.18)
	dc.DrawStringWrapped(body,
		p.margin(), top, 0, 0,
		float64(p.width)-2*p.margin(), 1.5, gg.AlignLeft)
	return dc.SavePNG(path)
}

func (p *framePainter) paintPractice(path, heading string, items []script.PracticeItem) error {
	var lines []string
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d.  %s", i+1, item.Problem))
	}
	body := strings.Join(lines, "\n\n")
	if body == "" {
		body = "Pause the video and try it yourself!"
	}
	return p.paintText(path, heading, body)
}
