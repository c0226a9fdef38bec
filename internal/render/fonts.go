package render

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	appLog "inkcal/internal/log"
)

// FontRole selects a typographic role; each role owns an ordered list of
// candidate point sizes, largest first.
type FontRole int

const (
	RoleBody FontRole = iota
	RoleHeader
	RoleLabel
)

// roleSizes lists candidate sizes per role, largest first. The selector
// walks these top-down under density pressure and never goes below the
// last entry.
var roleSizes = map[FontRole][]float64{
	RoleBody:   {16, 14, 12, 10},
	RoleHeader: {26, 22, 20},
	RoleLabel:  {14, 12, 10},
}

func (r FontRole) bold() bool { return r == RoleHeader }

// FontHandle is a resolved typeface at a concrete size.
type FontHandle struct {
	Face font.Face
	Size float64
}

// LineHeight is the vertical advance used when stacking lines of this
// handle, with a small amount of leading.
func (h FontHandle) LineHeight() int {
	return int(h.Size*1.3 + 0.5)
}

// preferredFamilies are e-paper-legible families probed on the host, in
// rank order. The embedded Go fonts are the guaranteed fallback so text
// always renders.
var preferredFamilies = [][2]string{
	{"DejaVuSans.ttf", "DejaVuSans-Bold.ttf"},
	{"LiberationSans-Regular.ttf", "LiberationSans-Bold.ttf"},
	{"Arial.ttf", "Arial Bold.ttf"},
	{"arial.ttf", "arialbd.ttf"},
}

type faceKey struct {
	bold bool
	size float64
}

// FontCache resolves and caches font faces. It is owned by the caller and
// passed into every render; population is idempotent under the mutex so
// two concurrent renders sharing a cache never observe a partial write.
type FontCache struct {
	mu      sync.Mutex
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[faceKey]font.Face
}

func NewFontCache() *FontCache {
	return &FontCache{faces: make(map[faceKey]font.Face)}
}

// Select resolves a font for the given role under density pressure.
// It walks the role's candidate sizes largest-first and returns the first
// whose stacked line block (eventCount lines) fits availableHeight. If
// none fit, the smallest candidate is returned; truncation is then the
// layout solver's job, so the result is always bounded.
func (c *FontCache) Select(role FontRole, availableHeight, eventCount int) FontHandle {
	sizes := roleSizes[role]
	lines := eventCount
	if lines < 1 {
		lines = 1
	}

	chosen := sizes[len(sizes)-1]
	for _, size := range sizes {
		h := FontHandle{Size: size}
		if h.LineHeight()*lines <= availableHeight {
			chosen = size
			break
		}
	}

	return FontHandle{Face: c.face(role.bold(), chosen), Size: chosen}
}

// face returns a cached font.Face, loading the underlying fonts on first
// use. Load-or-reuse: a concurrent caller either wins the load or reuses
// the winner's result.
func (c *FontCache) face(bold bool, size float64) font.Face {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loadLocked()

	key := faceKey{bold: bold, size: size}
	if f, ok := c.faces[key]; ok {
		return f
	}

	ttf := c.regular
	if bold {
		ttf = c.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[key] = f
	return f
}

func (c *FontCache) loadLocked() {
	if c.regular != nil {
		return
	}

	for _, fam := range preferredFamilies {
		reg, err := loadTTF(fam[0])
		if err != nil {
			continue
		}
		bld, err := loadTTF(fam[1])
		if err != nil {
			// Regular without bold is not worth a mixed family.
			continue
		}
		c.regular, c.bold = reg, bld
		appLog.Debug("fonts loaded", "regular", fam[0], "bold", fam[1])
		return
	}

	// ResourceDegraded: no preferred family on this host. The embedded Go
	// fonts always parse, so this path cannot fail.
	appLog.Warn("preferred fonts unavailable, using embedded Go fonts")
	c.regular, _ = truetype.Parse(goregular.TTF)
	c.bold, _ = truetype.Parse(gobold.TTF)
}

func loadTTF(name string) (*truetype.Font, error) {
	path, err := findfont.Find(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}
