package render

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Cell is one character cell of a rendered row.
type Cell struct {
	Rune  rune
	Width int
	Style tcell.Style
}

// Cells renders rows as character cells for terminal hosts. One row is one
// cell high, so surface sizes are in columns and rows.
type Cells struct{}

// NewCells returns a cell renderer.
func NewCells() *Cells {
	return &Cells{}
}

// LineHeight implements Renderer.
func (c *Cells) LineHeight() int {
	return 1
}

// RenderText implements Renderer.
func (c *Cells) RenderText(text string, fg color.Color) (Sprite, error) {
	if err := checkPrintable(text); err != nil {
		return nil, err
	}

	style := tcell.StyleDefault.Foreground(ColorToTcell(fg))
	row := &CellRow{}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			return nil, ErrUnsupportedGlyph
		}
		row.cells = append(row.cells, Cell{Rune: r, Width: w, Style: style})
		row.width += w
	}
	return row, nil
}

// Compose implements Renderer.
func (c *Cells) Compose(bg color.Color, size image.Point) Surface {
	grid := &CellGrid{
		size:  size,
		cells: make([]Cell, size.X*size.Y),
		bg:    ColorToTcell(bg),
	}
	blank := Cell{Rune: ' ', Width: 1, Style: tcell.StyleDefault.Background(grid.bg)}
	for i := range grid.cells {
		grid.cells[i] = blank
	}
	return grid
}

// CellRow is a rendered row of cells.
type CellRow struct {
	cells []Cell
	width int
}

// Size implements Sprite.
func (r *CellRow) Size() image.Point {
	return image.Pt(r.width, 1)
}

// CellGrid is a composed frame of character cells.
type CellGrid struct {
	size  image.Point
	cells []Cell
	bg    tcell.Color
}

// Blit implements Surface. Rows are clipped at the right and bottom edges;
// a wide rune that does not fit is dropped.
func (g *CellGrid) Blit(sp Sprite, at image.Point) {
	row, ok := sp.(*CellRow)
	if !ok || at.Y < 0 || at.Y >= g.size.Y {
		return
	}
	x := at.X
	for _, cell := range row.cells {
		if x+cell.Width > g.size.X {
			break
		}
		if x >= 0 {
			cell.Style = cell.Style.Background(g.bg)
			g.cells[at.Y*g.size.X+x] = cell
			for i := 1; i < cell.Width; i++ {
				g.cells[at.Y*g.size.X+x+i] = Cell{}
			}
		}
		x += cell.Width
	}
}

// Size implements Surface.
func (g *CellGrid) Size() image.Point {
	return g.size
}

// At returns the cell at column x, row y.
func (g *CellGrid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.size.X || y >= g.size.Y {
		return Cell{}
	}
	return g.cells[y*g.size.X+x]
}

// Row returns the text of row y with continuation cells of wide runes skipped.
func (g *CellGrid) Row(y int) string {
	var runes []rune
	for x := 0; x < g.size.X; x++ {
		if c := g.At(x, y); c.Width > 0 {
			runes = append(runes, c.Rune)
		}
	}
	return string(runes)
}

// Draw paints the grid onto a tcell screen with its top-left corner at origin.
// The caller is responsible for calling Show.
func (g *CellGrid) Draw(screen tcell.Screen, origin image.Point) {
	for y := 0; y < g.size.Y; y++ {
		for x := 0; x < g.size.X; x++ {
			c := g.cells[y*g.size.X+x]
			if c.Width == 0 {
				continue
			}
			screen.SetContent(origin.X+x, origin.Y+y, c.Rune, nil, c.Style)
		}
	}
}

// ColorToTcell converts an image colour to a true-colour tcell colour.
// Alpha is dropped; terminals have no translucency.
func ColorToTcell(c color.Color) tcell.Color {
	if c == nil {
		return tcell.ColorDefault
	}
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
