package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/vecgeo/pkg/logging"
)

func main() {
	outPath := flag.String("out", "output.txt", "path of the results report")
	script := flag.String("script", "", "scene script to evaluate instead of the built-in demo")
	levelName := flag.String("level", "info", "minimum log level: debug, info, warn or error")
	verbose := flag.Bool("v", false, "log debug messages (same as -level debug)")
	flag.Parse()

	level, err := logLevel(*levelName, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(os.Stderr, level)

	if *script == "" {
		err = runDemo(log, os.Stdout, *outPath)
	} else {
		err = runScript(log, *script, *outPath)
	}
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// logLevel resolves the -level flag; -v wins over it.
func logLevel(name string, verbose bool) (logging.Level, error) {
	if verbose {
		return logging.LevelDebug, nil
	}
	return logging.ParseLevel(name)
}

// runScript evaluates a scene file, logs its diagnostics and writes the
// report for its shapes.
func runScript(log *logging.Logger, path, outPath string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	result := NewApp(log).Evaluate(string(source))
	for _, e := range result.Errors {
		if e.Line > 0 {
			log.Errorf("%s:%d: %s", path, e.Line, e.Message)
		} else {
			log.Errorf("%s: %s", path, e.Message)
		}
	}
	for _, line := range result.Report {
		log.Info(line)
	}
	log.Infof("%d placements tessellated", len(result.Meshes))

	if err := writeReport(log, outPath, result.Shapes); err != nil {
		log.Warningf("Could not write output file: %v", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s: %d errors", path, len(result.Errors))
	}
	return nil
}
