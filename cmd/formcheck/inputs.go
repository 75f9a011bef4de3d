package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-formcheck/pkg/document"
)

// input is one resolved document argument.
type input struct {
	source document.Source
	// path is set for local files so watch mode can follow them.
	path string
}

// resolveInputs expands CLI arguments into document sources. Arguments may be
// file paths, doublestar globs, http(s) URLs or "-" for stdin.
func resolveInputs(args []string, stdin io.Reader, allowHTTP bool) ([]input, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no documents given")
	}

	var out []input
	seen := make(map[string]bool)
	add := func(in input) {
		key := string(in.source.Kind()) + ":" + in.source.Location()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, in)
	}

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		switch {
		case arg == "":
			continue
		case arg == "-":
			raw, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			add(input{source: document.SourceFromString("stdin", string(raw))})
		case isURL(arg):
			if !allowHTTP {
				return nil, fmt.Errorf("%s: loading URLs requires --allow-http", arg)
			}
			add(input{source: document.SourceFromURL(arg)})
		case containsGlob(arg):
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %s: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match pattern: %s", arg)
			}
			sort.Strings(matches)
			for _, match := range matches {
				add(fileInput(match))
			}
		default:
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", arg, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("%s is a directory, use a glob such as %s", arg, filepath.Join(arg, "**", "*.html"))
			}
			add(fileInput(arg))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no documents given")
	}
	return out, nil
}

func fileInput(path string) input {
	return input{source: document.SourceFromFile(path), path: path}
}

func sources(inputs []input) []document.Source {
	out := make([]document.Source, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, in.source)
	}
	return out
}

func watchablePaths(inputs []input) []string {
	var out []string
	for _, in := range inputs {
		if in.path != "" {
			out = append(out, in.path)
		}
	}
	return out
}

func isURL(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
