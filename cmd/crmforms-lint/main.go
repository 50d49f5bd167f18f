package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-crmforms/internal/fixture"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint form fixture files for definitions that would not behave as written.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"examples/fixtures/lead.yaml"}
	}
	os.Exit(lint(paths, os.Stderr))
}

// lint returns the process exit code: 0 clean, 1 violations, 2 unreadable
// input.
func lint(paths []string, out io.Writer) int {
	var violations []fixture.Violation
	for _, path := range paths {
		fx, err := fixture.Load(path)
		if err != nil {
			fmt.Fprintf(out, "lint %s: %v\n", path, err)
			return 2
		}
		violations = append(violations, fixture.Lint(fx)...)
	}
	for _, v := range violations {
		fmt.Fprintln(out, v.String())
	}
	if len(violations) > 0 {
		return 1
	}
	return 0
}
