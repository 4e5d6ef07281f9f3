// Package scene holds the named points, shapes and placements produced by
// evaluating a vecgeo script. A Scene is built once per evaluation and is
// read-only afterwards.
package scene
