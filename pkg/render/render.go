// Package render provides output renderers for dpcheck's visualization patterns.
package render

import "github.com/dkoosis/dpcheck/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
