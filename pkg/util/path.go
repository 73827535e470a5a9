package util

import "fmt"

// Point is a 2D coordinate used throughout the SVG canvas.
type Point struct {
	X, Y float64
}

// NewPoint builds a Point at the given coordinates.
func NewPoint(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

// Path is a single SVG <path> element, expressed as a ready-made tag rather
// than parsed path-command data — the canvas only ever renders paths it
// built itself (from a point list), never re-parses foreign SVG.
type Path struct {
	ID      string
	PathTag string
}

// NewPathFromPoints builds a closed polyline path (M + L commands) through
// the given points.
func NewPathFromPoints(points []*Point, id string) (*Path, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("must supply at least one point")
	}
	if id == "" {
		id = "path"
	}

	commands := fmt.Sprintf("M %.6f,%.6f ", points[0].X, points[0].Y)
	for _, p := range points[1:] {
		commands += fmt.Sprintf("L %.6f,%.6f ", p.X, p.Y)
	}

	return &Path{
		ID:      id,
		PathTag: fmt.Sprintf(`<path id="%s" d="%s" />`, id, commands),
	}, nil
}

// ToPathTag returns the rendered <path> tag.
func (p *Path) ToPathTag() (string, error) {
	if p.PathTag == "" {
		return "", fmt.Errorf("path %q has no rendered tag", p.ID)
	}
	return p.PathTag, nil
}

// Paths is an ordered collection of Path elements making up one SVG canvas.
type Paths struct {
	Paths []*Path
}

// NewPaths builds a Paths collection from the given (possibly empty) slice.
func NewPaths(paths []*Path) (*Paths, error) {
	if paths == nil {
		paths = []*Path{}
	}
	return &Paths{Paths: paths}, nil
}

// NumPaths reports how many paths this collection holds.
func (p *Paths) NumPaths() int {
	return len(p.Paths)
}

// AddPath appends path to the collection.
func (p *Paths) AddPath(path *Path) {
	p.Paths = append(p.Paths, path)
}

// ToSVG renders every path as a newline-delimited run of <path> tags.
func (p *Paths) ToSVG() (string, error) {
	var out string
	for _, path := range p.Paths {
		tag, err := path.ToPathTag()
		if err != nil {
			return "", err
		}
		out += tag + "\n"
	}
	return out, nil
}
