package scene

import (
	"fmt"

	"github.com/chazu/vecgeo/pkg/geometry"
)

// Severity indicates whether a finding blocks tessellation or is
// informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks tessellation
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single validation result. Subject names the shape
// or placement it concerns; Line is its source line when known.
type Finding struct {
	Subject  string
	Message  string
	Severity Severity
	Line     int
}

func (f Finding) Error() string {
	if f.Subject == "" {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Subject, f.Message)
}

// Result bundles blocking errors and advisory warnings.
type Result struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether there are no blocking errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks the scene. It never mutates it.
func Validate(s *Scene) Result {
	var r Result
	for _, f := range append(validateShapes(s), validatePlacements(s)...) {
		if f.Severity == SeverityError {
			r.Errors = append(r.Errors, f)
		} else {
			r.Warnings = append(r.Warnings, f)
		}
	}
	return r
}

// validateShapes warns about collinear triangles, which have zero area
// and cannot be extruded.
func validateShapes(s *Scene) []Finding {
	var out []Finding
	for _, name := range s.order {
		tri, ok := s.shapes[name].(geometry.Triangle)
		if !ok {
			continue
		}
		if tri.Degenerate() {
			out = append(out, Finding{
				Subject:  name,
				Message:  "triangle vertices are collinear; area is zero",
				Severity: SeverityWarning,
				Line:     s.lines[name],
			})
		}
	}
	return out
}

// validatePlacements checks references, heights and that each placement
// transform can be undone.
func validatePlacements(s *Scene) []Finding {
	var out []Finding
	for i, p := range s.Placements {
		add := func(sev Severity, msg string) {
			out = append(out, Finding{
				Subject:  fmt.Sprintf("placement %d (%s)", i+1, p.Shape),
				Message:  msg,
				Severity: sev,
				Line:     p.Line,
			})
		}

		if _, ok := s.shapes[p.Shape]; !ok {
			add(SeverityError, "references an undefined shape")
			continue
		}
		if p.Height < 0 {
			add(SeverityError, fmt.Sprintf("height %.4f must not be negative", p.Height))
		}
		if _, err := p.Transform.Inverse(); err != nil {
			add(SeverityError, "transform is singular")
			continue
		}
		rows := p.Transform.Rows()
		if rows[3] != [4]float64{0, 0, 0, 1} {
			add(SeverityWarning, "transform is projective; mesh vertices are perspective-divided")
		}
	}
	return out
}
