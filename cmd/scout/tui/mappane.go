package tui

import (
	"math"
	"strings"

	"storescout/cmd/scout/ui"
	"storescout/internal/overlay"
)

// Glyphs drawn onto the map grid.
const (
	glyphUser   = '⊙'
	glyphHalo   = '·'
	glyphStore  = '◉'
	glyphDest   = '⚑'
	glyphRoute  = '•'
	glyphGround = ' '
)

const (
	minZoom = 3
	maxZoom = 18

	// Terminal cells are roughly twice as tall as wide; one cell row
	// spans twice the world pixels of a cell column.
	pixelsPerCellX = 12
	pixelsPerCellY = 24
)

type marker struct {
	at    overlay.LatLng
	label string
}

// MapPane is a character-grid rendition of the map. The overlay
// manager draws onto it through the Surface interface; the TUI renders
// it once per frame.
type MapPane struct {
	styles ui.Styles
	width  int
	height int

	center overlay.LatLng
	zoom   int

	markers map[string]marker
	order   []string

	routeFrom, routeTo overlay.LatLng
	routeActive        bool

	destPin    overlay.LatLng
	destActive bool

	userAt      overlay.LatLng
	userRadiusM float64
	userActive  bool
}

// NewMapPane creates a pane centered on the given position.
func NewMapPane(styles ui.Styles, center overlay.LatLng, zoom int) *MapPane {
	return &MapPane{
		styles:  styles,
		width:   60,
		height:  18,
		center:  center,
		zoom:    zoom,
		markers: make(map[string]marker),
	}
}

// SetSize resizes the drawable grid.
func (p *MapPane) SetSize(width, height int) {
	if width > 0 {
		p.width = width
	}
	if height > 0 {
		p.height = height
	}
}

// AddMarker implements overlay.Surface.
func (p *MapPane) AddMarker(id string, at overlay.LatLng, label string) {
	if _, exists := p.markers[id]; !exists {
		p.order = append(p.order, id)
	}
	p.markers[id] = marker{at: at, label: label}
}

// RemoveMarker implements overlay.Surface.
func (p *MapPane) RemoveMarker(id string) {
	if _, exists := p.markers[id]; !exists {
		return
	}
	delete(p.markers, id)
	for i, mid := range p.order {
		if mid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// DrawRoute implements overlay.Surface.
func (p *MapPane) DrawRoute(from, to overlay.LatLng) {
	p.routeFrom, p.routeTo = from, to
	p.routeActive = true
}

// ClearRoute implements overlay.Surface.
func (p *MapPane) ClearRoute() {
	p.routeActive = false
}

// SetDestinationPin implements overlay.Surface.
func (p *MapPane) SetDestinationPin(at overlay.LatLng) {
	p.destPin = at
	p.destActive = true
}

// ClearDestinationPin implements overlay.Surface.
func (p *MapPane) ClearDestinationPin() {
	p.destActive = false
}

// SetUserDot implements overlay.Surface.
func (p *MapPane) SetUserDot(at overlay.LatLng, accuracyRadiusM float64) {
	p.userAt = at
	p.userRadiusM = accuracyRadiusM
	p.userActive = true
}

// CenterOn implements overlay.Surface.
func (p *MapPane) CenterOn(at overlay.LatLng, zoom int) {
	p.center = at
	p.zoom = clampZoom(zoom)
}

// FitBounds implements overlay.Surface. It recenters on the midpoint
// and walks the zoom down until both corners land inside the grid
// minus the padding.
func (p *MapPane) FitBounds(a, b overlay.LatLng, paddingCells int) {
	p.center = overlay.LatLng{Lat: (a.Lat + b.Lat) / 2, Lng: (a.Lng + b.Lng) / 2}
	for z := maxZoom; z >= minZoom; z-- {
		p.zoom = z
		ax, ay := p.cell(a)
		bx, by := p.cell(b)
		if p.inside(ax, ay, paddingCells) && p.inside(bx, by, paddingCells) {
			return
		}
	}
	p.zoom = minZoom
}

// Render draws the grid.
func (p *MapPane) Render() string {
	grid := make([][]rune, p.height)
	for y := range grid {
		grid[y] = make([]rune, p.width)
		for x := range grid[y] {
			grid[y][x] = glyphGround
		}
	}

	if p.userActive && p.userRadiusM > 0 {
		p.plotHalo(grid)
	}
	if p.routeActive {
		fx, fy := p.cell(p.routeFrom)
		tx, ty := p.cell(p.routeTo)
		plotLine(grid, fx, fy, tx, ty)
	}
	for _, id := range p.order {
		m := p.markers[id]
		p.plot(grid, m.at, glyphStore)
	}
	if p.destActive {
		p.plot(grid, p.destPin, glyphDest)
	}
	if p.userActive {
		p.plot(grid, p.userAt, glyphUser)
	}

	lines := make([]string, p.height)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return p.styles.MapPane.Render(strings.Join(lines, "\n"))
}

// Zoom reports the current zoom level.
func (p *MapPane) Zoom() int { return p.zoom }

// Center reports the current viewport center.
func (p *MapPane) Center() overlay.LatLng { return p.center }

// cell projects a coordinate onto the grid via spherical Mercator,
// relative to the current center and zoom.
func (p *MapPane) cell(at overlay.LatLng) (int, int) {
	px, py := project(at, p.zoom)
	cx, cy := project(p.center, p.zoom)
	x := int(math.Round((px-cx)/pixelsPerCellX)) + p.width/2
	y := int(math.Round((py-cy)/pixelsPerCellY)) + p.height/2
	return x, y
}

func (p *MapPane) inside(x, y, padding int) bool {
	return x >= padding && x < p.width-padding && y >= padding && y < p.height-padding
}

func (p *MapPane) plot(grid [][]rune, at overlay.LatLng, glyph rune) {
	x, y := p.cell(at)
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
		grid[y][x] = glyph
	}
}

// plotHalo draws the accuracy circle as a ring of faint dots around
// the user cell.
func (p *MapPane) plotHalo(grid [][]rune) {
	mpp := metersPerPixel(p.userAt.Lat, p.zoom)
	if mpp <= 0 {
		return
	}
	rx := p.userRadiusM / (mpp * pixelsPerCellX)
	ry := p.userRadiusM / (mpp * pixelsPerCellY)
	if rx < 1 {
		return
	}
	cx, cy := p.cell(p.userAt)
	for deg := 0; deg < 360; deg += 15 {
		rad := float64(deg) * math.Pi / 180
		x := cx + int(math.Round(rx*math.Cos(rad)))
		y := cy + int(math.Round(ry*math.Sin(rad)))
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == glyphGround {
			grid[y][x] = glyphHalo
		}
	}
}

// plotLine draws a Bresenham segment, leaving endpoint cells free for
// the user dot and destination flag.
func plotLine(grid [][]rune, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) && grid[y0][x0] == glyphGround {
			grid[y0][x0] = glyphRoute
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// project maps a coordinate to world pixels at the given zoom
// (256px tiles, spherical Mercator).
func project(at overlay.LatLng, zoom int) (float64, float64) {
	scale := 256 * math.Exp2(float64(zoom))
	lat := math.Max(-85.0511, math.Min(85.0511, at.Lat))
	x := scale * (at.Lng + 180) / 360
	sin := math.Sin(lat * math.Pi / 180)
	y := scale * (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi))
	return x, y
}

func metersPerPixel(lat float64, zoom int) float64 {
	return 156543.03392 * math.Cos(lat*math.Pi/180) / math.Exp2(float64(zoom))
}

func clampZoom(z int) int {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ overlay.Surface = (*MapPane)(nil)
