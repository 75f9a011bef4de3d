package check

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-formcheck/pkg/document"
	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/report"
)

type scopeState struct {
	sel     *goquery.Selection
	missing bool
	desc    string
}

type run struct {
	doc      *document.Document
	snippets bool
	patterns map[string]*regexp.Regexp
	results  []report.Result
}

func (r *run) group(group expect.Group, parent []string, outer scopeState) {
	path := appendPath(parent, group.Name)
	state := outer
	if group.Scope != nil {
		state = r.resolveScope(outer, *group.Scope)
	}
	for _, c := range group.Checks {
		r.results = append(r.results, r.check(c, path, state))
	}
	for _, nested := range group.Groups {
		r.group(nested, path, state)
	}
}

func (r *run) resolveScope(outer scopeState, scope expect.Scope) scopeState {
	desc := describeScope(scope)
	if outer.missing {
		return scopeState{missing: true, desc: outer.desc}
	}

	candidates := outer.sel.Find(scope.Selector)
	if scope.Child == "" {
		if candidates.Length() == 0 {
			return scopeState{missing: true, desc: desc}
		}
		return scopeState{sel: candidates.First(), desc: desc}
	}

	var found *goquery.Selection
	candidates.EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		text := document.Text(candidate.Find(scope.Child).First())
		if strings.Contains(text, scope.Contains) {
			found = candidate
			return false
		}
		return true
	})
	if found == nil {
		return scopeState{missing: true, desc: desc}
	}
	return scopeState{sel: found, desc: desc}
}

func (r *run) check(c expect.Check, path []string, state scopeState) report.Result {
	result := report.Result{
		Path:     appendPath(path, c.Name),
		Selector: c.Selector,
	}

	base := state.sel
	switch {
	case c.Global:
		base = r.doc.Root()
	case state.missing:
		result.Failures = append(result.Failures, report.Failure{
			Kind:     report.KindMissingScope,
			Selector: c.Selector,
			Expected: state.desc,
			Message:  fmt.Sprintf("scope %s not found", state.desc),
		})
		return result
	}

	matches := base.Find(c.Selector)
	if c.Count != nil && !c.Count.Satisfied(matches.Length()) {
		result.Failures = append(result.Failures, report.Failure{
			Kind:     report.KindCountMismatch,
			Selector: c.Selector,
			Expected: describeCount(*c.Count),
			Actual:   fmt.Sprint(matches.Length()),
			Message:  fmt.Sprintf("%q matched %d elements, want %s", c.Selector, matches.Length(), describeCount(*c.Count)),
		})
	}
	if !c.RequiresElement() {
		return result
	}

	if matches.Length() <= c.Index {
		message := fmt.Sprintf("no element matches %q", c.Selector)
		if c.Index > 0 {
			message = fmt.Sprintf("%q matched %d elements, no element at index %d", c.Selector, matches.Length(), c.Index)
		}
		result.Failures = append(result.Failures, report.Failure{
			Kind:     report.KindMissingElement,
			Selector: c.Selector,
			Message:  message,
		})
		return result
	}

	el := matches.Eq(c.Index)
	snippet := r.snippet(el)

	if c.Tag != "" {
		if tag := document.TagName(el); !strings.EqualFold(tag, c.Tag) {
			result.Failures = append(result.Failures, report.Failure{
				Kind:     report.KindTagMismatch,
				Selector: c.Selector,
				Expected: strings.ToLower(c.Tag),
				Actual:   tag,
				Message:  fmt.Sprintf("expected <%s>, found <%s>", strings.ToLower(c.Tag), tag),
				Snippet:  snippet,
			})
		}
	}

	for _, name := range sortedKeys(c.Attrs) {
		if failure, ok := r.attribute(el, c.Selector, name, c.Attrs[name]); !ok {
			failure.Snippet = snippet
			result.Failures = append(result.Failures, failure)
		}
	}

	if c.Text != nil {
		if failure, ok := r.text(el, c.Selector, *c.Text); !ok {
			failure.Snippet = snippet
			result.Failures = append(result.Failures, failure)
		}
	}

	if c.Values != nil {
		for _, failure := range r.values(el, c.Selector, *c.Values) {
			failure.Snippet = snippet
			result.Failures = append(result.Failures, failure)
		}
	}

	if c.Outside != "" && document.Within(el, c.Outside) {
		result.Failures = append(result.Failures, report.Failure{
			Kind:     report.KindContainment,
			Selector: c.Selector,
			Expected: "outside " + c.Outside,
			Message:  fmt.Sprintf("element must not be inside %q", c.Outside),
			Snippet:  snippet,
		})
	}

	return result
}

func (r *run) attribute(el *goquery.Selection, selector, name string, m expect.Matcher) (report.Failure, bool) {
	value, present := el.Attr(name)
	if m.ExpectsAbsent() {
		if present {
			return report.Failure{
				Kind:      report.KindAttributeMismatch,
				Selector:  selector,
				Attribute: name,
				Expected:  "absent",
				Actual:    value,
				Message:   fmt.Sprintf("attribute %q should be absent", name),
			}, false
		}
		return report.Failure{}, true
	}
	if !present {
		return report.Failure{
			Kind:      report.KindAttributeMissing,
			Selector:  selector,
			Attribute: name,
			Expected:  describeMatcher(m),
			Message:   fmt.Sprintf("attribute %q is missing", name),
		}, false
	}
	if r.matches(m, value) {
		return report.Failure{}, true
	}
	return report.Failure{
		Kind:      report.KindAttributeMismatch,
		Selector:  selector,
		Attribute: name,
		Expected:  describeMatcher(m),
		Actual:    value,
		Message:   fmt.Sprintf("attribute %q is %q, want %s", name, value, describeMatcher(m)),
	}, false
}

func (r *run) text(el *goquery.Selection, selector string, m expect.Matcher) (report.Failure, bool) {
	actual := document.Text(el)
	ok := r.matches(m, actual)
	if m.Present != nil && (actual != "") != *m.Present {
		ok = false
	}
	if ok {
		return report.Failure{}, true
	}
	return report.Failure{
		Kind:     report.KindTextMismatch,
		Selector: selector,
		Expected: describeMatcher(m),
		Actual:   actual,
		Message:  fmt.Sprintf("text is %q, want %s", actual, describeMatcher(m)),
	}, false
}

func (r *run) values(el *goquery.Selection, selector string, v expect.Values) []report.Failure {
	attr := v.AttrName()
	collected := document.Values(el.Find(v.Of), attr)

	var failures []report.Failure
	if len(collected) < v.Min {
		failures = append(failures, report.Failure{
			Kind:      report.KindValuesMissing,
			Selector:  selector,
			Attribute: attr,
			Expected:  fmt.Sprintf("at least %d", v.Min),
			Actual:    fmt.Sprint(len(collected)),
			Message:   fmt.Sprintf("found %d %s[%s] values, want at least %d", len(collected), v.Of, attr, v.Min),
		})
	}

	seen := make(map[string]struct{}, len(collected))
	for _, value := range collected {
		seen[value] = struct{}{}
	}
	for _, want := range v.Contains {
		if _, ok := seen[want]; ok {
			continue
		}
		failures = append(failures, report.Failure{
			Kind:      report.KindValuesMissing,
			Selector:  selector,
			Attribute: attr,
			Expected:  want,
			Actual:    strings.Join(collected, ", "),
			Message:   fmt.Sprintf("no %s with %s %q", v.Of, attr, want),
		})
	}
	return failures
}

// matches applies every value condition of m. Presence has been handled by
// the caller.
func (r *run) matches(m expect.Matcher, value string) bool {
	if m.Equals != nil && value != *m.Equals {
		return false
	}
	if m.Contains != "" && !strings.Contains(value, m.Contains) {
		return false
	}
	if m.Pattern != "" {
		re := r.pattern(m.Pattern)
		if re == nil || !re.MatchString(value) {
			return false
		}
	}
	return true
}

func (r *run) pattern(expr string) *regexp.Regexp {
	if re, ok := r.patterns[expr]; ok {
		return re
	}
	// Suite.Validate already compiled every pattern.
	re, _ := regexp.Compile(expr)
	r.patterns[expr] = re
	return re
}

func (r *run) snippet(sel *goquery.Selection) string {
	if !r.snippets {
		return ""
	}
	return document.Snippet(sel)
}

func describeScope(scope expect.Scope) string {
	if scope.Child == "" {
		return fmt.Sprintf("%q", scope.Selector)
	}
	return fmt.Sprintf("%q with %s containing %q", scope.Selector, scope.Child, scope.Contains)
}

func describeCount(c expect.Count) string {
	var parts []string
	if c.Equals != nil {
		parts = append(parts, fmt.Sprintf("exactly %d", *c.Equals))
	}
	if c.Min != nil {
		parts = append(parts, fmt.Sprintf("at least %d", *c.Min))
	}
	if c.Max != nil {
		parts = append(parts, fmt.Sprintf("at most %d", *c.Max))
	}
	return strings.Join(parts, " and ")
}

func describeMatcher(m expect.Matcher) string {
	var parts []string
	if m.Equals != nil {
		parts = append(parts, fmt.Sprintf("%q", *m.Equals))
	}
	if m.Contains != "" {
		parts = append(parts, fmt.Sprintf("containing %q", m.Contains))
	}
	if m.Pattern != "" {
		parts = append(parts, fmt.Sprintf("matching /%s/", m.Pattern))
	}
	if len(parts) == 0 && m.Present != nil {
		if *m.Present {
			return "present"
		}
		return "absent"
	}
	return strings.Join(parts, " and ")
}

func sortedKeys(attrs map[string]expect.Matcher) []string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}
