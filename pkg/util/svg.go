package util

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
)

///////////////////////////////////////////////////////////////////////////////
/// SVGEmbeddedRaster
///////////////////////////////////////////////////////////////////////////////

// SVGEmbeddedRaster holds a raster image embedded into an SVG canvas as a
// base64-encoded <image> tag.
type SVGEmbeddedRaster struct {
	Layer         int
	X, Y          int
	Name          string
	Kind          string
	Width, Height int
	Content       []byte
}

// NewSVGEmbeddedRasterContent builds an embedded raster from raw image bytes,
// sniffing its type and dimensions rather than trusting a file extension.
func NewSVGEmbeddedRasterContent(content []byte) (*SVGEmbeddedRaster, error) {
	kind, width, height, err := DetermineImageType("", content)
	if err != nil {
		return nil, fmt.Errorf("failed to determine image type: %w", err)
	}

	return &SVGEmbeddedRaster{
		X:       0,
		Y:       0,
		Layer:   1,
		Name:    "background",
		Kind:    kind,
		Width:   width,
		Height:  height,
		Content: []byte(base64.StdEncoding.EncodeToString(content)),
	}, nil
}

// GetAsImageTag renders the raster as an SVG <image> tag.
func (s *SVGEmbeddedRaster) GetAsImageTag() (string, error) {
	if s.Content == nil {
		return "", fmt.Errorf("content is nil")
	}
	if s.Width == 0 || s.Height == 0 {
		return "", fmt.Errorf("width or height is zero")
	}
	return fmt.Sprintf(
		`<image x="%d" y="%d" width="%d" height="%d" xlink:href="data:image/%s;base64,%s" />`,
		s.X, s.Y, s.Width, s.Height, s.Kind, s.Content), nil
}

///////////////////////////////////////////////////////////////////////////////
/// SVGEmbeddedText
///////////////////////////////////////////////////////////////////////////////

var fontSizeRegex = regexp.MustCompile(`font-size:\s*(\d+)px`)

// SVGEmbeddedText holds a (possibly word-wrapped) text block embedded into
// an SVG canvas.
type SVGEmbeddedText struct {
	Layer       int
	X, Y        int
	Name        string
	Content     string
	Style       string
	MaxWidth    int
	LineSpacing float64
	Lines       []string
}

// NewSVGEmbeddedText builds a single-line embedded text element.
func NewSVGEmbeddedText(name, text, style string, x, y, layer int) (*SVGEmbeddedText, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if style == "" {
		style = "font-size: 12px; font-family: Arial; fill: white;"
	}

	return &SVGEmbeddedText{
		Layer:       layer,
		X:           x,
		Y:           y,
		Name:        name,
		Content:     text,
		Style:       style,
		MaxWidth:    0,
		LineSpacing: 1.2,
		Lines:       []string{text},
	}, nil
}

func extractFontSize(style string) int {
	const defaultFontSize = 12
	fontSize := defaultFontSize
	if matches := fontSizeRegex.FindStringSubmatch(style); len(matches) > 1 {
		if _, err := fmt.Sscanf(matches[1], "%d", &fontSize); err != nil {
			fontSize = defaultFontSize
		}
	}
	return fontSize
}

///////////////////////////////////////////////////////////////////////////////
/// SVG
///////////////////////////////////////////////////////////////////////////////

const svgHeader string = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="" height=""
    version="1.1"
	xmlns="http://www.w3.org/2000/svg"
	xmlns:svg="http://www.w3.org/2000/svg"
	xmlns:xlink="http://www.w3.org/1999/xlink">
`
const svgFooter string = `
</svg>
`

// SVG is an in-memory canvas of embedded rasters, rendered paths and text,
// serialized on demand to an SVG document.
type SVG struct {
	Name          string
	Images        []*SVGEmbeddedRaster
	Paths         *Paths
	Text          []*SVGEmbeddedText
	Width, Height int
}

func newBlankSVG(name string) (*SVG, error) {
	paths, err := NewPaths(nil)
	if err != nil {
		return nil, err
	}
	return &SVG{
		Name:   name,
		Images: []*SVGEmbeddedRaster{},
		Paths:  paths,
		Text:   []*SVGEmbeddedText{},
	}, nil
}

// NewSVGFromRasterContent builds a canvas sized to match the given raster
// image and embeds that image as its background layer.
func NewSVGFromRasterContent(content []byte) (*SVG, error) {
	image, err := NewSVGEmbeddedRasterContent(content)
	if err != nil {
		return nil, err
	}
	svg, err := newBlankSVG("canvas")
	if err != nil {
		return nil, err
	}
	svg.Width = image.Width
	svg.Height = image.Height
	svg.Images = append(svg.Images, image)
	return svg, nil
}

// AddWrappedText adds a text block, word-wrapping it to fit within maxWidth
// pixels given the font size declared in style. lineSpacing is expressed as
// tenths (12 means a 1.2x line-height multiplier).
func (s *SVG) AddWrappedText(name, text, style string, x, y, maxWidth, lineSpacing, layer int) error {
	embedded, err := NewSVGEmbeddedText(name, text, style, x, y, layer)
	if err != nil {
		return err
	}

	embedded.MaxWidth = maxWidth
	embedded.LineSpacing = float64(lineSpacing) / 10.0

	avgCharWidth := float64(extractFontSize(style)) * 0.6
	charsPerLine := int(float64(maxWidth) / avgCharWidth)

	if charsPerLine > 0 && len(text) > charsPerLine {
		embedded.Lines = wrapWords(text, charsPerLine)
	} else {
		embedded.Lines = []string{text}
	}

	s.Text = append(s.Text, embedded)
	return nil
}

var wordBoundary = regexp.MustCompile(`\s+`)

// wrapWords greedily packs words into lines no longer than charsPerLine.
func wrapWords(text string, charsPerLine int) []string {
	words := wordBoundary.Split(text, -1)
	var lines []string
	var current string

	for _, word := range words {
		if current == "" || len(current)+len(word)+1 <= charsPerLine {
			if current != "" {
				current += " "
			}
			current += word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// ToSVGFile renders the canvas and writes it to filePath.
func (s *SVG) ToSVGFile(filePath string) error {
	svgContent, err := s.ToSVG()
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte(svgContent), 0644)
}

// ToSVG renders the canvas — background images, then paths, then text — as
// a complete SVG document.
func (s *SVG) ToSVG() (string, error) {
	ret := svgHeader
	ret = regexp.MustCompile(`width=""`).ReplaceAllString(ret, fmt.Sprintf(`width="%d"`, s.Width))
	ret = regexp.MustCompile(`height=""`).ReplaceAllString(ret, fmt.Sprintf(`height="%d"`, s.Height))

	for _, image := range s.Images {
		imageTag, err := image.GetAsImageTag()
		if err != nil {
			return "", err
		}
		ret += imageTag
	}

	allPaths, err := s.Paths.ToSVG()
	if err != nil {
		return "", err
	}
	ret += allPaths

	for _, text := range s.Text {
		if len(text.Lines) <= 1 {
			ret += fmt.Sprintf(`<text x="%d" y="%d" style="%s">%s</text>`, text.X, text.Y, text.Style, text.Content)
			continue
		}
		lineHeight := int(float64(extractFontSize(text.Style)) * text.LineSpacing)
		for i, line := range text.Lines {
			ret += fmt.Sprintf(`<text x="%d" y="%d" style="%s">%s</text>`, text.X, text.Y+i*lineHeight, text.Style, line)
		}
	}

	ret += svgFooter
	return ret, nil
}
