package engine

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/vecgeo/pkg/geometry"
	"github.com/chazu/vecgeo/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: rotation-x -> rotation_x
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	return rewriteSource(source, nil)
}

// linePrefix marks the source line of a builtin call. rewriteSource inserts
// it as the first argument of every call to a name in calls, and
// builtins.add strips it again.
const linePrefix = "__line_"

// rewriteSource is preprocessSource plus line marking: (circle on line 4
// becomes (circle "__line_4" when calls["circle"] is set.
func rewriteSource(source string, calls map[string]bool) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Mark calls to registered builtins with their line.
		if b[i] == '(' && len(calls) > 0 && i+1 < len(b) && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && (isIdentChar(b[j]) ||
				(b[j] == '-' && j+1 < len(b) && isIdentStartChar(b[j+1]))) {
				j++
			}
			name := strings.ReplaceAll(string(b[i+1:j]), "-", "_")
			if calls[name] && (j == len(b) || isCallEnd(b[j])) {
				line := bytes.Count(b[:i], []byte{'\n'}) + 1
				result = append(result, '(')
				result = append(result, name...)
				result = fmt.Appendf(result, " %q", linePrefix+strconv.Itoa(line))
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

func isCallEnd(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a geometry.Point.
type sexpPoint struct {
	p geometry.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %v %v %v)", p.p.X, p.p.Y, p.p.Z)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a geometry.Shape. name is set once the shape has been
// registered with defshape, or when it was fetched with shape.
type sexpShape struct {
	shape geometry.Shape
	name  string
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(shape %q)", s.name)
	}
	return fmt.Sprintf("(%s area=%.4f)", strings.ToLower(s.shape.Name()), s.shape.Area())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpTransform wraps a geometry.Transform.
type sexpTransform struct {
	t geometry.Transform
}

func (t *sexpTransform) SexpString(ps *zygo.PrintState) string {
	rows := t.t.Rows()
	var b strings.Builder
	b.WriteString("(transform")
	for _, row := range rows {
		fmt.Fprintf(&b, " [%v %v %v %v]", row[0], row[1], row[2], row[3])
	}
	b.WriteString(")")
	return b.String()
}
func (t *sexpTransform) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// describe renders a Sexp for error messages.
func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return s.SexpString(nil)
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, describe(s))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, describe(s))
}

// toPoint extracts a Point from a sexpPoint.
func toPoint(s zygo.Sexp) (geometry.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geometry.Point{}, fmt.Errorf("expected point, got %T (%s)", s, describe(s))
}

// toShape extracts a sexpShape.
func toShape(s zygo.Sexp) (*sexpShape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, describe(s))
}

// toTransform extracts a Transform from a sexpTransform.
func toTransform(s zygo.Sexp) (geometry.Transform, error) {
	if t, ok := s.(*sexpTransform); ok {
		return t.t, nil
	}
	return geometry.Transform{}, fmt.Errorf("expected transform, got %T (%s)", s, describe(s))
}

// floatArgs extracts exactly n numbers from args.
func floatArgs(fn string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d arguments, got %d", fn, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// kwFloat reads an optional numeric keyword, returning def when absent.
func kwFloat(fn string, pa kwArgs, key string, def float64) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// requireKW reports a missing required keyword.
func requireKW(fn string, pa kwArgs, keys ...string) error {
	for _, k := range keys {
		if _, ok := pa.kw[k]; !ok {
			return fmt.Errorf("%s requires :%s", fn, k)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtins installs the scene builtins into one zygomys environment and
// populates scene as the script runs. Source must go through
// rewriteSource with names so that keywords become recognizable string
// literals and calls carry their line.
type builtins struct {
	env   *zygo.Zlisp
	scene *scene.Scene
	names map[string]bool

	line    int        // line of the builtin call in progress
	failure *EvalError // first builtin error, with its Go error chain
}

func newBuiltins(env *zygo.Zlisp, s *scene.Scene) *builtins {
	b := &builtins{env: env, scene: s, names: make(map[string]bool)}
	b.registerPoints()
	b.registerShapes()
	b.registerTransforms()
	b.registerScene()
	return b
}

// add registers fn under name. The wrapper strips the line marker and
// remembers the first failure so evaluate can report it with its line.
func (b *builtins) add(name string, fn func(args []zygo.Sexp) (zygo.Sexp, error)) {
	b.names[name] = true
	b.env.AddFunction(name, func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		b.line, args = splitLine(args)
		res, err := fn(args)
		if err != nil && b.failure == nil {
			b.failure = &EvalError{Line: b.line, Message: err.Error(), Err: err}
		}
		return res, err
	})
}

// splitLine removes a leading line marker from args.
func splitLine(args []zygo.Sexp) (int, []zygo.Sexp) {
	if len(args) == 0 {
		return 0, args
	}
	str, ok := args[0].(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, linePrefix) {
		return 0, args
	}
	n, err := strconv.Atoi(str.S[len(linePrefix):])
	if err != nil {
		return 0, args
	}
	return n, args[1:]
}

func (b *builtins) registerPoints() {
	// (point 3 4 0)
	b.add("point", func(args []zygo.Sexp) (zygo.Sexp, error) {
		xyz, err := floatArgs("point", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPoint{p: geometry.Pt(xyz[0], xyz[1], xyz[2])}, nil
	})

	// (deg 45) -> radians
	b.add("deg", func(args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := floatArgs("deg", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: d[0] * math.Pi / 180}, nil
	})
}

func (b *builtins) registerShapes() {
	// (circle :center (point 0 0 0) :radius 5)
	b.add("circle", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := requireKW("circle", pa, "radius"); err != nil {
			return zygo.SexpNull, err
		}
		var center geometry.Point
		if v, ok := pa.kw["center"]; ok {
			p, err := toPoint(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
			}
			center = p
		}
		r, err := kwFloat("circle", pa, "radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		c, err := geometry.NewCircle(center, r)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		return &sexpShape{shape: c}, nil
	})

	// (triangle a b c)
	b.add("triangle", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("triangle requires exactly 3 points, got %d", len(args))
		}
		var vs [3]geometry.Point
		for i, a := range args {
			p, err := toPoint(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("triangle: vertex %d: %w", i+1, err)
			}
			vs[i] = p
		}
		return &sexpShape{shape: geometry.NewTriangle(vs[0], vs[1], vs[2])}, nil
	})

	// (rectangle :origin (point 0 0 0) :width 4 :height 3)
	b.add("rectangle", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := requireKW("rectangle", pa, "width", "height"); err != nil {
			return zygo.SexpNull, err
		}
		var origin geometry.Point
		if v, ok := pa.kw["origin"]; ok {
			p, err := toPoint(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rectangle: origin: %w", err)
			}
			origin = p
		}
		w, err := kwFloat("rectangle", pa, "width", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := kwFloat("rectangle", pa, "height", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := geometry.NewRectangle(origin, w, h)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rectangle: %w", err)
		}
		return &sexpShape{shape: r}, nil
	})
}

func (b *builtins) registerTransforms() {
	xyzTransforms := map[string]func(x, y, z float64) geometry.Transform{
		"translation": geometry.Translation,
		"scale":       geometry.Scale,
	}
	for fn, build := range xyzTransforms {
		// (translation 1 2 3), (scale 2 2 2)
		b.add(fn, func(args []zygo.Sexp) (zygo.Sexp, error) {
			xyz, err := floatArgs(fn, args, 3)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpTransform{t: build(xyz[0], xyz[1], xyz[2])}, nil
		})
	}

	// Registered with underscores; the preprocessor rewrites rotation-x.
	rotations := map[string]func(r float64) geometry.Transform{
		"rotation_x": geometry.RotationX,
		"rotation_y": geometry.RotationY,
		"rotation_z": geometry.RotationZ,
	}
	for fn, build := range rotations {
		label := strings.ReplaceAll(fn, "_", "-")
		// (rotation-x (deg 45))
		b.add(fn, func(args []zygo.Sexp) (zygo.Sexp, error) {
			r, err := floatArgs(label, args, 1)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpTransform{t: build(r[0])}, nil
		})
	}

	// (matrix m00 m01 m02 m03 m10 ... m33), row-major
	b.add("matrix", func(args []zygo.Sexp) (zygo.Sexp, error) {
		m, err := floatArgs("matrix", args, 16)
		if err != nil {
			return zygo.SexpNull, err
		}
		var rows [4][4]float64
		for i, v := range m {
			rows[i/4][i%4] = v
		}
		return &sexpTransform{t: geometry.FromRows(rows)}, nil
	})

	// (combine t1 t2 ...) -> t1·t2·...
	b.add("combine", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("combine requires at least one transform")
		}
		acc := geometry.Identity()
		for i, a := range args {
			t, err := toTransform(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("combine: argument %d: %w", i+1, err)
			}
			acc = acc.Mul(t)
		}
		return &sexpTransform{t: acc}, nil
	})

	// (invert t)
	b.add("invert", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("invert requires exactly 1 argument, got %d", len(args))
		}
		t, err := toTransform(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("invert: %w", err)
		}
		inv, err := t.Inverse()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("invert: %w", err)
		}
		return &sexpTransform{t: inv}, nil
	})

	// (transform-point t p)
	b.add("transform_point", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("transform-point requires a transform and a point, got %d arguments", len(args))
		}
		t, err := toTransform(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("transform-point: %w", err)
		}
		p, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("transform-point: %w", err)
		}
		q, err := t.Project(p)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("transform-point: %w", err)
		}
		return &sexpPoint{p: q}, nil
	})
}

func (b *builtins) registerScene() {
	s := b.scene
	// (defpoint "apex" (point 3 4 0))
	b.add("defpoint", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defpoint requires a name and a point")
		}
		pointName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpoint: name: %w", err)
		}
		p, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpoint: %w", err)
		}
		if err := s.DefinePoint(pointName, p); err != nil {
			return zygo.SexpNull, fmt.Errorf("defpoint: %w", err)
		}
		return &sexpPoint{p: p}, nil
	})

	// (defshape "plate" (rectangle ...))
	b.add("defshape", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defshape requires a name and a shape expression")
		}
		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: name: %w", err)
		}
		sh, err := toShape(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
		}
		if err := s.DefineShapeAt(shapeName, sh.shape, b.line); err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
		}
		return &sexpShape{shape: sh.shape, name: shapeName}, nil
	})

	// (shape "plate")
	b.add("shape", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}
		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}
		sh := s.Shape(shapeName)
		if sh == nil {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}
		return &sexpShape{shape: sh, name: shapeName}, nil
	})

	// (place (shape "plate") :transform (translation 0 0 1) :height 2)
	b.add("place", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a shape reference as first argument")
		}
		sh, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		if sh.name == "" {
			return zygo.SexpNull, fmt.Errorf("place: shape must be named with defshape first")
		}

		t := geometry.Identity()
		if v, ok := pa.kw["transform"]; ok {
			t, err = toTransform(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: transform: %w", err)
			}
		}
		h, err := kwFloat("place", pa, "height", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := s.PlaceAt(sh.name, t, h, b.line); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		return sh, nil
	})
}
