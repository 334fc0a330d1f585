package atlas

import "fmt"

// Default packer settings.
const (
	// DefaultSize is the default atlas dimension (1024x1024).
	DefaultSize = 1024

	// DefaultBorderPadding keeps regions away from the texture edges.
	DefaultBorderPadding = 5

	// DefaultRectanglePadding separates neighbouring regions.
	DefaultRectanglePadding = 10
)

// Config describes the bin a Packer fills.
type Config struct {
	// Width and Height of the bin in pixels. Zero means DefaultSize.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// BorderPadding is the empty margin kept along every bin edge.
	BorderPadding int `yaml:"border_padding"`

	// RectanglePadding is the gap kept between any two placed rectangles.
	RectanglePadding int `yaml:"rectangle_padding"`
}

// DefaultConfig returns a 1024x1024 bin with 5px border and 10px spacing.
func DefaultConfig() Config {
	return Config{
		Width:            DefaultSize,
		Height:           DefaultSize,
		BorderPadding:    DefaultBorderPadding,
		RectanglePadding: DefaultRectanglePadding,
	}
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultSize
	}
	if c.Height <= 0 {
		c.Height = DefaultSize
	}
	if c.BorderPadding < 0 {
		c.BorderPadding = 0
	}
	if c.RectanglePadding < 0 {
		c.RectanglePadding = 0
	}
	return c
}

// Rect is a placed rectangle inside the bin.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Overlaps reports whether r and o share any pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Inset grows r by n pixels on every side (shrinks for negative n).
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// shelf is a horizontal strip of the bin.
type shelf struct {
	y      int
	height int
	nextX  int
}

// Packer places rectangles into a fixed bin using shelf packing.
//
// Rectangles are laid out left to right on horizontal shelves. A request
// goes to the existing shelf that wastes the least height; if none fits a
// new shelf is opened below the last one, and as a last resort the last
// shelf grows taller. Placed rectangles are never moved or removed.
//
// Packer is not safe for concurrent use; Atlas serializes access.
type Packer struct {
	cfg     Config
	shelves []shelf

	count    int
	usedArea int
}

// NewPacker creates a packer for the given bin.
func NewPacker(cfg Config) *Packer {
	return &Packer{
		cfg:     cfg.withDefaults(),
		shelves: make([]shelf, 0, 16),
	}
}

// Config returns the effective configuration.
func (p *Packer) Config() Config { return p.cfg }

// Pack reserves a w x h rectangle. It returns false when the request does
// not fit anywhere, in which case the packer state is unchanged.
func (p *Packer) Pack(w, h int) (Rect, bool) {
	if w <= 0 || h <= 0 {
		return Rect{}, false
	}
	right := p.cfg.Width - p.cfg.BorderPadding
	bottom := p.cfg.Height - p.cfg.BorderPadding

	best := -1
	bestWaste := 0
	for i := range p.shelves {
		s := &p.shelves[i]
		if h > s.height || s.nextX+w > right {
			continue
		}
		waste := s.height - h
		if best < 0 || waste < bestWaste {
			best, bestWaste = i, waste
		}
	}
	if best >= 0 {
		return p.place(best, w, h), true
	}

	// Open a new shelf below the last one.
	y := p.cfg.BorderPadding
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		y = last.y + last.height + p.cfg.RectanglePadding
	}
	if p.cfg.BorderPadding+w <= right && y+h <= bottom {
		p.shelves = append(p.shelves, shelf{y: y, nextX: p.cfg.BorderPadding, height: h})
		return p.place(len(p.shelves)-1, w, h), true
	}

	// Grow the last shelf. Earlier shelves cannot grow without
	// running into the shelf below them.
	if n := len(p.shelves); n > 0 {
		last := &p.shelves[n-1]
		if last.nextX+w <= right && last.y+h <= bottom {
			last.height = h
			return p.place(n-1, w, h), true
		}
	}
	return Rect{}, false
}

func (p *Packer) place(i, w, h int) Rect {
	s := &p.shelves[i]
	r := Rect{X: s.nextX, Y: s.y, Width: w, Height: h}
	s.nextX += w + p.cfg.RectanglePadding
	p.count++
	p.usedArea += w * h
	return r
}

// Count returns the number of placed rectangles.
func (p *Packer) Count() int { return p.count }

// UsedArea returns the total area of placed rectangles, without padding.
func (p *Packer) UsedArea() int { return p.usedArea }

// Utilization returns the fraction of the bin covered by placed rectangles.
func (p *Packer) Utilization() float64 {
	total := p.cfg.Width * p.cfg.Height
	if total == 0 {
		return 0
	}
	return float64(p.usedArea) / float64(total)
}
