package tools

import (
	"fmt"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/util"
)

func NewMemeTool() protocol.Tool {
	return protocol.Tool{
		Name: "meme_tool",
		Description: `
		Creates memes designed to amuse in a whimsical manner.
		A photograph of something with some text underneath it.
		If the user does not specify what the text should be then you should decide for yourself.
		Returns the location of the created image if successful.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.SchemaProp{
				"searchterm": {
					Type: "string",
					Description: `
					The subject of the meme.
					This will result in a picture being downloaded and used as the background of the meme.
					- Do not embelish the search term unless it fails to yield a result.
					  For example if asked for 'Noel Edmonds' then don't add 'TV presenter' unless the plain search term fails
					`,
				},
				"text": {
					Type:        "string",
					Description: "The text of the meme, this should be something amusing, witty or edgy and related to the searchterm in some clever way. If the user does not supply this for you then you should create the text yourself. It should be no longer than 40 characters",
				},
				"filepath": {
					Type:        "string",
					Description: "The absolute filepath in which to store the resulting svg file. If omitted will default to the present working directory.",
				},
			},
			Required: []string{"searchterm", "text"},
		},
	}
}

// HandleMemeTool downloads a Wikipedia image for the search term, overlays
// the caption as wrapped SVG text, and writes the result to filepath (or
// ./cheezymeme.svg by default).
func HandleMemeTool(params any) (any, error) {
	args, ok := params.(map[string]any)
	if !ok {
		return nil, protocol.NewInvalidParamsError("meme_tool requires an object of arguments")
	}
	searchTerm, ok := args["searchterm"].(string)
	if !ok || searchTerm == "" {
		return nil, protocol.NewInvalidParamsError("meme_tool requires a non-empty 'searchterm'")
	}
	caption, ok := args["text"].(string)
	if !ok || caption == "" {
		return nil, protocol.NewInvalidParamsError("meme_tool requires a non-empty 'text'")
	}
	outputPath, _ := args["filepath"].(string)
	if outputPath == "" {
		outputPath = "./cheezymeme.svg"
	}

	raster, _, err := WikipediaImageSearch(searchTerm, 400)
	if err != nil {
		return nil, err
	}
	canvas, err := util.NewSVGFromRasterContent(raster)
	if err != nil {
		return nil, err
	}

	fontSize := captionFontSize(canvas.Width)
	fontStyle := fmt.Sprintf("font-weight: bold; font-size: %dpx; font-family: 'Comic Sans MS'; fill: red;", fontSize)
	textY := int(float64(canvas.Height) * 0.8)
	logger.Inform("placing caption at y=", textY, " fontSize=", fontSize, " imageWidth=", canvas.Width)

	canvas.AddWrappedText("cheezymeme", caption, fontStyle, 20, textY, canvas.Width-60, 30, 1)

	logger.Info("saving meme to " + outputPath)
	canvas.ToSVGFile(outputPath)

	return map[string]any{
		"location": outputPath,
	}, nil
}

// captionFontSize estimates a readable font size for a caption spanning an
// image of the given width, assuming ~5 five-character words per line and
// a 0.6 character-width-to-font-size ratio, clamped to [18, 60]px.
func captionFontSize(imageWidth int) int {
	const (
		wordsPerLine         = 5
		avgWordLength        = 5
		charWidthToFontRatio = 0.6
		marginPx             = 60
		minFontSize, maxSize = 18, 60
	)
	charsPerLine := avgWordLength * wordsPerLine
	size := int(float64(imageWidth-marginPx) / (float64(charsPerLine) * charWidthToFontRatio))
	if size < minFontSize {
		return minFontSize
	}
	if size > maxSize {
		return maxSize
	}
	return size
}
