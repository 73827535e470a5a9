package util

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/richard-senior/mcp/internal/logger"
)

// DetermineImageType sniffs the format and pixel dimensions of an image
// from its content. content may be raw bytes or base64-encoded text. The
// filename is consulted only when content is empty, and the type it
// suggests is then returned together with an error; content with no
// recognized signature yields an error.
func DetermineImageType(filename string, content []byte) (string, int, int, error) {
	extension := extensionFromName(filename)

	if len(content) < 1 {
		return extension, 0, 0, fmt.Errorf("couldn't determine the image type")
	}

	decoded := content
	if content[0] != 0x89 && content[0] != 0x47 && content[0] != 0xFF && content[0] != 0x52 {
		if d, err := base64.StdEncoding.DecodeString(string(content)); err == nil {
			logger.Debug("decoded base64 image content, %d bytes", len(d))
			decoded = d
		}
	}

	if len(decoded) < 5 {
		return "", 0, 0, fmt.Errorf("content too short to determine file type")
	}

	switch {
	case decoded[0] == 0x89 && decoded[1] == 0x50 && decoded[2] == 0x4E && decoded[3] == 0x47:
		if len(decoded) < 24 {
			return "png", 0, 0, nil
		}
		w, h := extractPNGDimensions(decoded)
		return "png", w, h, nil

	case decoded[0] == 0x47 && decoded[1] == 0x49 && decoded[2] == 0x46 && decoded[3] == 0x38:
		var w, h int
		if len(decoded) >= 10 {
			w = int(decoded[6]) | int(decoded[7])<<8
			h = int(decoded[8]) | int(decoded[9])<<8
		}
		return "gif", w, h, nil

	case decoded[0] == 0xFF && decoded[1] == 0xD8 && decoded[2] == 0xFF:
		w, h := extractJPEGDimensions(decoded)
		return "jpg", w, h, nil

	case isWebP(decoded):
		w, h := extractWebPDimensions(decoded)
		return "webp", w, h, nil

	case strings.Contains(string(decoded), "<svg"):
		w, h := extractSVGDimensions(string(decoded))
		return "svg", w, h, nil
	}

	return "", 0, 0, fmt.Errorf("couldn't determine the image type")
}

func extensionFromName(filename string) string {
	switch {
	case strings.Contains(filename, "png"):
		return "png"
	case strings.Contains(filename, "gif"):
		return "gif"
	case strings.Contains(filename, "jpeg"), strings.Contains(filename, "jpg"):
		return "jpg"
	case strings.Contains(filename, "webp"):
		return "webp"
	case strings.Contains(filename, "svg"):
		return "svg"
	default:
		return ""
	}
}

func extractPNGDimensions(d []byte) (int, int) {
	width := int(d[16])<<24 | int(d[17])<<16 | int(d[18])<<8 | int(d[19])
	height := int(d[20])<<24 | int(d[21])<<16 | int(d[22])<<8 | int(d[23])
	return width, height
}

// extractJPEGDimensions scans for the first SOF0/SOF1/SOF2 marker and reads
// its declared width/height.
func extractJPEGDimensions(data []byte) (int, int) {
	if len(data) < 4 {
		return 0, 0
	}
	for i := 0; i < len(data)-9; i++ {
		if data[i] != 0xFF || data[i+1] < 0xC0 || data[i+1] > 0xC2 {
			continue
		}
		height := int(data[i+5])<<8 | int(data[i+6])
		width := int(data[i+7])<<8 | int(data[i+8])
		if width > 0 && height > 0 {
			return width, height
		}
	}
	return 0, 0
}

func isWebP(d []byte) bool {
	return len(d) > 30 &&
		d[0] == 0x52 && d[1] == 0x49 && d[2] == 0x46 && d[3] == 0x46 &&
		d[8] == 0x57 && d[9] == 0x45 && d[10] == 0x42 && d[11] == 0x50
}

// extractWebPDimensions handles both the lossy (VP8) and lossless (VP8L)
// WebP chunk layouts.
func extractWebPDimensions(d []byte) (int, int) {
	if d[12] == 0x56 && d[13] == 0x50 && d[14] == 0x38 && d[15] == 0x20 {
		width := (int(d[26]) | int(d[27])<<8) & 0x3FFF
		height := (int(d[28]) | int(d[29])<<8) & 0x3FFF
		return width, height
	}
	if len(d) > 25 && d[12] == 0x56 && d[13] == 0x50 && d[14] == 0x38 && d[15] == 0x4C {
		bits := uint32(d[21]) | uint32(d[22])<<8 | uint32(d[23])<<16 | uint32(d[24])<<24
		width := int(bits&0x3FFF) + 1
		height := int((bits>>14)&0x3FFF) + 1
		return width, height
	}
	return 0, 0
}

var (
	svgWidthRegex     = regexp.MustCompile(`width\s*=\s*["']([0-9.]+)(?:mm|cm|in|pt|pc|px)?["']`)
	svgHeightRegex    = regexp.MustCompile(`height\s*=\s*["']([0-9.]+)(?:mm|cm|in|pt|pc|px)?["']`)
	svgViewBoxRegex   = regexp.MustCompile(`viewBox\s*=\s*["']([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)["']`)
	svgExportDPIRegex = regexp.MustCompile(`export-xdpi\s*=\s*["']([0-9.]+)["']`)
)

// extractSVGDimensions reads width/height attributes (converting units to
// pixels at the document's DPI) and falls back to the viewBox when either
// dimension is missing.
func extractSVGDimensions(svgContent string) (int, int) {
	const defaultDPI = 96.0
	dpi := defaultDPI
	if m := svgExportDPIRegex.FindStringSubmatch(svgContent); len(m) > 1 {
		if parsed, err := strconv.ParseFloat(m[1], 64); err == nil && parsed > 0 {
			dpi = parsed
		}
	}

	var width, height int
	widthMatch := svgWidthRegex.FindStringSubmatch(svgContent)
	heightMatch := svgHeightRegex.FindStringSubmatch(svgContent)
	if len(widthMatch) > 1 && len(heightMatch) > 1 {
		widthVal, err1 := strconv.ParseFloat(widthMatch[1], 64)
		heightVal, err2 := strconv.ParseFloat(heightMatch[1], 64)
		if err1 == nil && err2 == nil {
			width, height = convertSVGUnits(widthMatch[0], widthVal, heightVal, dpi)
		}
	}

	if (width == 0 || height == 0) && svgViewBoxRegex.MatchString(svgContent) {
		if m := svgViewBoxRegex.FindStringSubmatch(svgContent); len(m) > 4 {
			vbWidth, _ := strconv.ParseFloat(m[3], 64)
			vbHeight, _ := strconv.ParseFloat(m[4], 64)
			if width == 0 {
				width = int(vbWidth)
			}
			if height == 0 {
				height = int(vbHeight)
			}
		}
	}
	return width, height
}

func convertSVGUnits(widthAttr string, widthVal, heightVal, dpi float64) (int, int) {
	switch {
	case strings.Contains(widthAttr, "mm"):
		return int(widthVal * dpi / 25.4), int(heightVal * dpi / 25.4)
	case strings.Contains(widthAttr, "cm"):
		return int(widthVal * dpi / 2.54), int(heightVal * dpi / 2.54)
	case strings.Contains(widthAttr, "in"):
		return int(widthVal * dpi), int(heightVal * dpi)
	case strings.Contains(widthAttr, "pt"):
		return int(widthVal * dpi / 72.0), int(heightVal * dpi / 72.0)
	case strings.Contains(widthAttr, "pc"):
		return int(widthVal * dpi / 6.0), int(heightVal * dpi / 6.0)
	default:
		return int(widthVal), int(heightVal)
	}
}
