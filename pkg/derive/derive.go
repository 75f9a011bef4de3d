// Package derive builds expectation suites from OpenAPI request bodies so a
// form can be checked against the API it submits to.
package derive

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/openapi"
)

// Options tweak how a suite is derived.
type Options struct {
	Name          string
	Scope         string
	Accessibility bool
}

// Option mutates Options.
type Option func(*Options)

// WithName overrides the suite name. Defaults to the operation id.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithScope restricts every derived check to the first element matching
// selector, typically the form itself.
func WithScope(selector string) Option {
	return func(o *Options) {
		o.Scope = selector
	}
}

// WithAccessibility toggles the label invariants. Enabled by default.
func WithAccessibility(enabled bool) Option {
	return func(o *Options) {
		o.Accessibility = enabled
	}
}

// FromOperation returns a suite with one check per request body property.
func FromOperation(op openapi.Operation, options ...Option) expect.Suite {
	cfg := Options{Name: op.ID, Accessibility: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	body := op.RequestBody
	group := expect.Group{Name: groupName(op)}
	if cfg.Scope != "" {
		group.Scope = &expect.Scope{Selector: cfg.Scope}
	}
	for _, name := range body.PropertyNames() {
		group.Checks = append(group.Checks, propertyCheck(name, body.Properties[name], body.IsRequired(name)))
	}

	suite := expect.Suite{
		Name:        cfg.Name,
		Description: fmt.Sprintf("Derived from %s %s", op.Method, op.Path),
		Groups:      []expect.Group{group},
	}
	if cfg.Accessibility {
		suite.Invariants.LabelsForControls = true
		suite.Invariants.LabelAccesskeys = true
	}
	return suite
}

func groupName(op openapi.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	return op.ID
}

func propertyCheck(name string, schema openapi.Schema, required bool) expect.Check {
	check := expect.Check{
		Name:     name,
		Selector: fmt.Sprintf("[name=%q]", name),
		Attrs:    map[string]expect.Matcher{},
	}
	if required {
		check.Attrs["required"] = expect.Present()
	}
	switch schema.Format {
	case "email":
		check.Attrs["type"] = expect.Equals("email")
	case "password":
		check.Attrs["type"] = expect.Equals("password")
	}
	if schema.Pattern != "" {
		check.Attrs["pattern"] = expect.Equals(schema.Pattern)
	}
	if schema.MinLength != nil {
		check.Attrs["minlength"] = expect.Equals(strconv.Itoa(*schema.MinLength))
	}
	if schema.MaxLength != nil {
		check.Attrs["maxlength"] = expect.Equals(strconv.Itoa(*schema.MaxLength))
	}
	if len(schema.Enum) > 0 {
		check.Selector = fmt.Sprintf("select[name=%q]", name)
		check.Tag = "select"
		values := make([]string, 0, len(schema.Enum))
		for _, value := range schema.Enum {
			values = append(values, fmt.Sprint(value))
		}
		check.Values = &expect.Values{Of: "option", Contains: values}
	}
	if len(check.Attrs) == 0 {
		check.Attrs = nil
	}
	return check
}
