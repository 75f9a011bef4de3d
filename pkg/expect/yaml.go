package expect

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either a scalar (exact value) or a mapping.
func (m *Matcher) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		literal := value.Value
		*m = Matcher{Equals: &literal}
		return nil
	}
	if err := knownKeys(value, "equals", "contains", "pattern", "present"); err != nil {
		return err
	}
	type plain Matcher
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*m = Matcher(out)
	return nil
}

// MarshalYAML collapses exact-value matchers back to scalars.
func (m Matcher) MarshalYAML() (any, error) {
	if m.Equals != nil && m.Contains == "" && m.Pattern == "" && m.Present == nil {
		return *m.Equals, nil
	}
	type plain Matcher
	return plain(m), nil
}

// UnmarshalYAML accepts either an integer (exact count) or a mapping.
func (c *Count) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		n, err := strconv.Atoi(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: count must be an integer or mapping: %w", value.Line, err)
		}
		*c = Count{Equals: &n}
		return nil
	}
	if err := knownKeys(value, "equals", "min", "max"); err != nil {
		return err
	}
	type plain Count
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*c = Count(out)
	return nil
}

// MarshalYAML collapses exact counts back to integers.
func (c Count) MarshalYAML() (any, error) {
	if c.Equals != nil && c.Min == nil && c.Max == nil {
		return *c.Equals, nil
	}
	type plain Count
	return plain(c), nil
}

// knownKeys rejects mapping keys outside allowed. Node.Decode does not
// inherit KnownFields from the outer decoder.
func knownKeys(value *yaml.Node, allowed ...string) error {
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown key %q", key.Line, key.Value)
		}
	}
	return nil
}

// Parse decodes a YAML suite and validates it. Unknown keys are rejected so
// typos do not silently disable checks.
func Parse(raw []byte) (Suite, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Suite{}, errors.New("expect: suite document is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var suite Suite
	if err := dec.Decode(&suite); err != nil {
		return Suite{}, fmt.Errorf("expect: decode suite: %w", err)
	}
	if err := suite.Validate(); err != nil {
		return Suite{}, err
	}
	return suite, nil
}

// LoadFile reads and parses a suite from disk.
func LoadFile(path string) (Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("expect: read suite: %w", err)
	}
	suite, err := Parse(raw)
	if err != nil {
		return Suite{}, fmt.Errorf("%s: %w", path, err)
	}
	return suite, nil
}

// LoadFS reads and parses a suite from an fs.FS.
func LoadFS(files fs.FS, name string) (Suite, error) {
	raw, err := fs.ReadFile(files, name)
	if err != nil {
		return Suite{}, fmt.Errorf("expect: read suite: %w", err)
	}
	suite, err := Parse(raw)
	if err != nil {
		return Suite{}, fmt.Errorf("%s: %w", name, err)
	}
	return suite, nil
}

// Marshal encodes a suite as YAML with two-space indentation.
func Marshal(suite Suite) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(suite); err != nil {
		return nil, fmt.Errorf("expect: encode suite: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("expect: encode suite: %w", err)
	}
	return buf.Bytes(), nil
}
