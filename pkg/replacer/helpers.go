package replacer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/layout"
)

// getLogger returns the appropriate io.Writer to use for logging
// based on the configuration settings, defaulting to os.Stdout if nil.
func getLogger(config Config) io.Writer {
	if config.Logger == nil {
		return os.Stdout
	}
	return config.Logger
}

func getMeasurer(config Config) geometry.Measurer {
	if config.Measurer == nil {
		return geometry.DefaultMetrics()
	}
	return config.Measurer
}

func (r *run) debugf(format string, args ...any) {
	if r.cfg.Debug {
		fmt.Fprintf(r.logger, format+"\n", args...)
	}
}

func (r *run) warnf(format string, args ...any) {
	if r.cfg.LogWarnings {
		fmt.Fprintf(r.logger, "Warning: "+format+"\n", args...)
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// glyphList is a fixed set of glyphs, used for pages located through hOCR.
type glyphList []layout.Glyph

func (g glyphList) Glyphs() ([]layout.Glyph, error) { return g, nil }
