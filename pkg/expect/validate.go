package expect

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
)

// Validate compiles every selector and pattern in the suite and rejects
// structurally empty expectations. All problems are reported together.
func (s Suite) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, errors.New("expect: suite name is required"))
	}
	for _, group := range s.Groups {
		errs = append(errs, validateGroup(group, []string{group.Name})...)
	}
	errs = append(errs, validateInvariants(s.Invariants)...)
	return errors.Join(errs...)
}

func validateGroup(group Group, path []string) []error {
	var errs []error
	where := strings.Join(path, " > ")
	if strings.TrimSpace(group.Name) == "" {
		errs = append(errs, fmt.Errorf("expect: %s: group name is required", where))
	}
	if group.Scope != nil {
		if err := validSelector(group.Scope.Selector); err != nil {
			errs = append(errs, fmt.Errorf("expect: %s: scope: %w", where, err))
		}
		if group.Scope.Child != "" {
			if err := validSelector(group.Scope.Child); err != nil {
				errs = append(errs, fmt.Errorf("expect: %s: scope child: %w", where, err))
			}
		}
	}
	for _, check := range group.Checks {
		errs = append(errs, validateCheck(check, appendPath(path, check.Name))...)
	}
	for _, nested := range group.Groups {
		errs = append(errs, validateGroup(nested, appendPath(path, nested.Name))...)
	}
	return errs
}

func validateCheck(check Check, path []string) []error {
	var errs []error
	where := strings.Join(path, " > ")
	if strings.TrimSpace(check.Name) == "" {
		errs = append(errs, fmt.Errorf("expect: %s: check name is required", where))
	}
	if err := validSelector(check.Selector); err != nil {
		errs = append(errs, fmt.Errorf("expect: %s: %w", where, err))
	}
	if check.Index < 0 {
		errs = append(errs, fmt.Errorf("expect: %s: index must not be negative", where))
	}
	if check.Count != nil && check.Count.Equals == nil && check.Count.Min == nil && check.Count.Max == nil {
		errs = append(errs, fmt.Errorf("expect: %s: count needs equals, min or max", where))
	}
	for name, matcher := range check.Attrs {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("expect: %s: attribute name is required", where))
		}
		if err := validMatcher(matcher); err != nil {
			errs = append(errs, fmt.Errorf("expect: %s: attribute %q: %w", where, name, err))
		}
	}
	if check.Text != nil {
		if err := validMatcher(*check.Text); err != nil {
			errs = append(errs, fmt.Errorf("expect: %s: text: %w", where, err))
		}
	}
	if check.Values != nil {
		if err := validSelector(check.Values.Of); err != nil {
			errs = append(errs, fmt.Errorf("expect: %s: values: %w", where, err))
		}
		if check.Values.Min < 0 {
			errs = append(errs, fmt.Errorf("expect: %s: values min must not be negative", where))
		}
	}
	if check.Outside != "" {
		if err := validSelector(check.Outside); err != nil {
			errs = append(errs, fmt.Errorf("expect: %s: outside: %w", where, err))
		}
	}
	return errs
}

func validateInvariants(inv Invariants) []error {
	var errs []error
	for _, id := range inv.Required {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, errors.New("expect: invariants: required id is empty"))
		}
	}
	for _, sel := range inv.OutsideFieldset {
		if err := validSelector(sel); err != nil {
			errs = append(errs, fmt.Errorf("expect: invariants: outside_fieldset: %w", err))
		}
	}
	return errs
}

func validSelector(selector string) error {
	if strings.TrimSpace(selector) == "" {
		return errors.New("selector is required")
	}
	if _, err := cascadia.ParseGroup(selector); err != nil {
		return fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return nil
}

func validMatcher(m Matcher) error {
	if m.Empty() {
		return errors.New("matcher has no condition")
	}
	if m.ExpectsAbsent() && (m.Equals != nil || m.Contains != "" || m.Pattern != "") {
		return errors.New("matcher cannot require absence and a value")
	}
	if m.Pattern != "" {
		if _, err := regexp.Compile(m.Pattern); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", m.Pattern, err)
		}
	}
	return nil
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}
