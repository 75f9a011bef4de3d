package expect

// Suite is a named set of expectations evaluated against a single document.
type Suite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Groups      []Group    `yaml:"groups,omitempty"`
	Invariants  Invariants `yaml:"invariants,omitempty"`
}

// Group collects checks that share a scope. Nested groups inherit the parent
// scope unless they declare their own.
type Group struct {
	Name   string  `yaml:"name"`
	Scope  *Scope  `yaml:"scope,omitempty"`
	Checks []Check `yaml:"checks,omitempty"`
	Groups []Group `yaml:"groups,omitempty"`
}

// Scope resolves a container element. Without Child the first element
// matching Selector is used; otherwise the first one whose Child text
// contains Contains.
type Scope struct {
	Selector string `yaml:"selector"`
	Child    string `yaml:"child,omitempty"`
	Contains string `yaml:"contains,omitempty"`
}

// Check is a single expectation about the element(s) matched by Selector.
type Check struct {
	Name     string             `yaml:"name"`
	Selector string             `yaml:"selector"`
	Global   bool               `yaml:"global,omitempty"`
	Index    int                `yaml:"index,omitempty"`
	Tag      string             `yaml:"tag,omitempty"`
	Count    *Count             `yaml:"count,omitempty"`
	Attrs    map[string]Matcher `yaml:"attrs,omitempty"`
	Text     *Matcher           `yaml:"text,omitempty"`
	Values   *Values            `yaml:"values,omitempty"`
	Outside  string             `yaml:"outside,omitempty"`
}

// RequiresElement reports whether the check inspects a matched element. A
// check with only a Count is satisfied by the number of matches alone.
func (c Check) RequiresElement() bool {
	if c.Count == nil {
		return true
	}
	return c.Tag != "" || len(c.Attrs) > 0 || c.Text != nil || c.Values != nil || c.Outside != ""
}

// Count bounds the number of matches. A YAML integer is shorthand for Equals.
type Count struct {
	Equals *int `yaml:"equals,omitempty"`
	Min    *int `yaml:"min,omitempty"`
	Max    *int `yaml:"max,omitempty"`
}

// Satisfied reports whether n is within the bounds.
func (c Count) Satisfied(n int) bool {
	if c.Equals != nil && n != *c.Equals {
		return false
	}
	if c.Min != nil && n < *c.Min {
		return false
	}
	if c.Max != nil && n > *c.Max {
		return false
	}
	return true
}

// Matcher describes what an attribute value or text content must look like.
// A YAML scalar is shorthand for Equals.
type Matcher struct {
	Equals   *string `yaml:"equals,omitempty"`
	Contains string  `yaml:"contains,omitempty"`
	Pattern  string  `yaml:"pattern,omitempty"`
	Present  *bool   `yaml:"present,omitempty"`
}

// Empty reports whether the matcher has no condition at all.
func (m Matcher) Empty() bool {
	return m.Equals == nil && m.Contains == "" && m.Pattern == "" && m.Present == nil
}

// ExpectsAbsent reports whether the matcher asserts the value is missing.
func (m Matcher) ExpectsAbsent() bool {
	return m.Present != nil && !*m.Present
}

// Values asserts over an attribute collected from descendants, such as the
// option values of a datalist.
type Values struct {
	Of       string   `yaml:"of"`
	Attr     string   `yaml:"attr,omitempty"`
	Contains []string `yaml:"contains,omitempty"`
	Min      int      `yaml:"min,omitempty"`
}

// AttrName returns the collected attribute, defaulting to value.
func (v Values) AttrName() string {
	if v.Attr == "" {
		return "value"
	}
	return v.Attr
}

// Invariants are document-wide rules evaluated after the groups.
type Invariants struct {
	// LabelsForControls requires exactly one label[for] per input, select or
	// textarea carrying an id.
	LabelsForControls bool `yaml:"labels_for_controls,omitempty"`
	// LabelAccesskeys requires every label[for] to carry an accesskey.
	LabelAccesskeys bool `yaml:"label_accesskeys,omitempty"`
	// ControlTabindex requires a tabindex on every input, select, textarea
	// and button.
	ControlTabindex bool `yaml:"control_tabindex,omitempty"`
	// Required lists element ids that must carry the required attribute.
	Required []string `yaml:"required,omitempty"`
	// OutsideFieldset lists selectors whose matches must not sit inside a
	// fieldset.
	OutsideFieldset []string `yaml:"outside_fieldset,omitempty"`
	// DistinctAccesskeys rejects accesskey values used more than once.
	DistinctAccesskeys bool `yaml:"distinct_accesskeys,omitempty"`
}

// Any reports whether at least one invariant is enabled.
func (i Invariants) Any() bool {
	return i.LabelsForControls || i.LabelAccesskeys || i.ControlTabindex ||
		len(i.Required) > 0 || len(i.OutsideFieldset) > 0 || i.DistinctAccesskeys
}

// Equals returns a matcher asserting an exact value.
func Equals(value string) Matcher {
	return Matcher{Equals: &value}
}

// Present returns a matcher asserting the attribute exists.
func Present() Matcher {
	yes := true
	return Matcher{Present: &yes}
}

// Absent returns a matcher asserting the attribute does not exist.
func Absent() Matcher {
	no := false
	return Matcher{Present: &no}
}

// Pattern returns a matcher asserting the value matches expr.
func Pattern(expr string) Matcher {
	return Matcher{Pattern: expr}
}

// Contains returns a matcher asserting the value contains sub.
func Contains(sub string) Matcher {
	return Matcher{Contains: sub}
}

// Exactly returns a count asserting n matches.
func Exactly(n int) *Count {
	return &Count{Equals: &n}
}

// AtLeast returns a count asserting at least n matches.
func AtLeast(n int) *Count {
	return &Count{Min: &n}
}
