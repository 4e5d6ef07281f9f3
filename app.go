package main

import (
	"github.com/chazu/vecgeo/pkg/engine"
	"github.com/chazu/vecgeo/pkg/geometry"
	"github.com/chazu/vecgeo/pkg/kernel"
	"github.com/chazu/vecgeo/pkg/kernel/sdfx"
	"github.com/chazu/vecgeo/pkg/logging"
	"github.com/chazu/vecgeo/pkg/report"
	"github.com/chazu/vecgeo/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to placements.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties a script engine to a geometry kernel.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    *logging.Logger
}

// MeshData is the JSON-serializable mesh format for one placement.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a scene script.
type EvalResult struct {
	Meshes   []MeshData       `json:"meshes"`
	Report   []string         `json:"report"`
	Errors   []EvalErrorData  `json:"errors"`
	Warnings []EvalErrorData  `json:"warnings"`
	Shapes   []geometry.Shape `json:"-"`
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(log *logging.Logger) *App {
	return newAppWithKernel(log, sdfx.New())
}

func newAppWithKernel(log *logging.Logger, k kernel.Kernel) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: k,
		log:    log,
	}
}

// Evaluate takes Lisp source and returns mesh data, report lines and
// errors. Shapes are reported even when tessellation is skipped because
// of errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Report:   []string{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a validated scene.
	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Errorf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	for _, w := range res.Warnings {
		a.log.Warningf("%s: %s", w.Subject, w.Message)
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Message: w.Subject + ": " + w.Message,
		})
	}
	for _, e := range res.Errors {
		a.log.Debugf("eval error: %s", e.Error())
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Message: e.Message,
		})
	}
	if res.Scene == nil {
		return result
	}

	// Step 2: Report every defined shape.
	result.Shapes = res.Scene.Shapes()
	for _, s := range result.Shapes {
		result.Report = append(result.Report, report.ShapeLine(s))
	}
	if len(result.Errors) > 0 {
		return result
	}

	// Step 3: Tessellate the placements into triangle meshes.
	meshes, err := tessellate.Tessellate(res.Scene, a.kernel)
	if err != nil {
		a.log.Errorf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert kernel meshes to MeshData.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	a.log.Debugf("evaluated %d shapes, %d meshes", len(result.Shapes), len(result.Meshes))

	return result
}
