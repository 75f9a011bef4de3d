// Package suites ships the built-in expectation suites.
package suites

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-formcheck/pkg/expect"
)

//go:embed builtin/*.yaml
var embedded embed.FS

const dir = "builtin"

// FS exposes the embedded suite files.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, dir)
	if err != nil {
		return embedded
	}
	return sub
}

// Names lists the built-in suites in sorted order.
func Names() []string {
	entries, err := fs.ReadDir(embedded, dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a built-in suite.
func Has(name string) bool {
	_, err := fs.Stat(embedded, path.Join(dir, name+".yaml"))
	return err == nil
}

// Raw returns the YAML source of a built-in suite.
func Raw(name string) ([]byte, error) {
	data, err := fs.ReadFile(embedded, path.Join(dir, name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("suites: unknown suite %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Load parses a built-in suite.
func Load(name string) (expect.Suite, error) {
	if !Has(name) {
		return expect.Suite{}, fmt.Errorf("suites: unknown suite %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return expect.LoadFS(embedded, path.Join(dir, name+".yaml"))
}

// MustLoad panics when a built-in suite cannot be parsed.
func MustLoad(name string) expect.Suite {
	suite, err := Load(name)
	if err != nil {
		panic(err)
	}
	return suite
}
