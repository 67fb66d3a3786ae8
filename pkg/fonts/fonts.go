// Package fonts resolves truetype faces for poster text.
//
// Families are looked up in the system font directories first. When a
// family cannot be found or parsed the bundled Go fonts are used instead,
// so rendering always has a face available.
package fonts

import (
	"os"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	mu    sync.Mutex
	fonts = map[string]*truetype.Font{}

	fallbackOnce    sync.Once
	fallbackRegular *truetype.Font
	fallbackBold    *truetype.Font
)

func fallback(bold bool) *truetype.Font {
	fallbackOnce.Do(func() {
		// The embedded Go fonts are known-good; Parse cannot fail on them.
		fallbackRegular, _ = truetype.Parse(goregular.TTF)
		fallbackBold, _ = truetype.Parse(gobold.TTF)
	})
	if bold {
		return fallbackBold
	}
	return fallbackRegular
}

// candidates lists the file names to try for a family, most specific
// first. Vendors are inconsistent about bold suffixes.
func candidates(family string, bold bool) []string {
	if strings.HasSuffix(strings.ToLower(family), ".ttf") || strings.HasSuffix(strings.ToLower(family), ".otf") {
		return []string{family}
	}
	if bold {
		return []string{
			family + " Bold.ttf",
			family + "-Bold.ttf",
			family + "bd.ttf",
			family + ".ttf",
		}
	}
	return []string{family + ".ttf"}
}

// Load resolves family to a parsed font. The result is cached per family
// and weight. Family may also be a path to a .ttf file.
func Load(family string, bold bool) *truetype.Font {
	key := family
	if bold {
		key += "|bold"
	}

	mu.Lock()
	defer mu.Unlock()
	if f, ok := fonts[key]; ok {
		return f
	}

	f := fallback(bold)
	for _, name := range candidates(family, bold) {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		f = parsed
		break
	}

	fonts[key] = f
	return f
}

// Face returns a face for the family sized in pixels. Sizing uses 72 DPI,
// which makes one point equal one pixel.
func Face(family string, pixels float64, bold bool) font.Face {
	return truetype.NewFace(Load(family, bold), &truetype.Options{
		Size: pixels,
		DPI:  72,
	})
}
