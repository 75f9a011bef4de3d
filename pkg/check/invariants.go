package check

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/report"
)

const (
	labelledControls     = "input, select, textarea"
	interactiveControls  = "input, select, textarea, button"
	invariantsGroupLabel = "Invariants"
)

func (r *run) invariants(inv expect.Invariants) {
	if inv.LabelsForControls {
		r.invariant("every control with an id has one label", r.labelsForControls())
	}
	if inv.LabelAccesskeys {
		r.invariant("every label has an accesskey", r.missingAttr("label[for]", "accesskey"))
	}
	if inv.ControlTabindex {
		r.invariant("every control has a tabindex", r.missingAttr(interactiveControls, "tabindex"))
	}
	if len(inv.Required) > 0 {
		r.invariant("required fields carry required", r.requiredIDs(inv.Required))
	}
	for _, selector := range inv.OutsideFieldset {
		r.invariant(fmt.Sprintf("%s is outside any fieldset", selector), r.outsideFieldset(selector))
	}
	if inv.DistinctAccesskeys {
		r.invariant("accesskeys are distinct", r.distinctAccesskeys())
	}
}

func (r *run) invariant(name string, failures []report.Failure) {
	r.results = append(r.results, report.Result{
		Path:     []string{invariantsGroupLabel, name},
		Failures: failures,
	})
}

func (r *run) labelsForControls() []report.Failure {
	root := r.doc.Root()
	counts := make(map[string]int)
	root.Find("label[for]").Each(func(_ int, label *goquery.Selection) {
		target, _ := label.Attr("for")
		counts[target]++
	})

	var failures []report.Failure
	root.Find(labelledControls).Each(func(_ int, control *goquery.Selection) {
		id, ok := control.Attr("id")
		if !ok || id == "" {
			return
		}
		switch n := counts[id]; {
		case n == 0:
			failures = append(failures, report.Failure{
				Kind:     report.KindMissingElement,
				Selector: fmt.Sprintf("label[for=%q]", id),
				Message:  fmt.Sprintf("control %q has no label", id),
				Snippet:  r.snippet(control),
			})
		case n > 1:
			failures = append(failures, report.Failure{
				Kind:     report.KindDuplicate,
				Selector: fmt.Sprintf("label[for=%q]", id),
				Expected: "1",
				Actual:   fmt.Sprint(n),
				Message:  fmt.Sprintf("control %q has %d labels", id, n),
				Snippet:  r.snippet(control),
			})
		}
	})
	return failures
}

func (r *run) missingAttr(selector, attr string) []report.Failure {
	var failures []report.Failure
	r.doc.Root().Find(selector).Each(func(_ int, el *goquery.Selection) {
		if _, ok := el.Attr(attr); ok {
			return
		}
		failures = append(failures, report.Failure{
			Kind:      report.KindAttributeMissing,
			Selector:  selector,
			Attribute: attr,
			Expected:  "present",
			Message:   fmt.Sprintf("%s has no %s", describeElement(el), attr),
			Snippet:   r.snippet(el),
		})
	})
	return failures
}

func (r *run) requiredIDs(ids []string) []report.Failure {
	byID := make(map[string]*goquery.Selection)
	r.doc.Root().Find("[id]").Each(func(_ int, el *goquery.Selection) {
		id, _ := el.Attr("id")
		if _, seen := byID[id]; !seen {
			byID[id] = el
		}
	})

	var failures []report.Failure
	for _, id := range ids {
		el, ok := byID[id]
		if !ok {
			failures = append(failures, report.Failure{
				Kind:     report.KindMissingElement,
				Selector: "#" + id,
				Message:  fmt.Sprintf("no element with id %q", id),
			})
			continue
		}
		if _, ok := el.Attr("required"); !ok {
			failures = append(failures, report.Failure{
				Kind:      report.KindAttributeMissing,
				Selector:  "#" + id,
				Attribute: "required",
				Expected:  "present",
				Message:   fmt.Sprintf("%q is not marked required", id),
				Snippet:   r.snippet(el),
			})
		}
	}
	return failures
}

func (r *run) outsideFieldset(selector string) []report.Failure {
	matches := r.doc.Root().Find(selector)
	if matches.Length() == 0 {
		return []report.Failure{{
			Kind:     report.KindMissingElement,
			Selector: selector,
			Message:  fmt.Sprintf("no element matches %q", selector),
		}}
	}

	var failures []report.Failure
	matches.Each(func(_ int, el *goquery.Selection) {
		if el.Closest("fieldset").Length() == 0 {
			return
		}
		failures = append(failures, report.Failure{
			Kind:     report.KindContainment,
			Selector: selector,
			Expected: "outside fieldset",
			Message:  fmt.Sprintf("%s is inside a fieldset", describeElement(el)),
			Snippet:  r.snippet(el),
		})
	})
	return failures
}

// distinctAccesskeys compares keys case-insensitively, as browsers do when
// dispatching the shortcut.
func (r *run) distinctAccesskeys() []report.Failure {
	type usage struct {
		key   string
		users []*goquery.Selection
	}
	var order []string
	byKey := make(map[string]*usage)

	r.doc.Root().Find("[accesskey]").Each(func(_ int, el *goquery.Selection) {
		raw, _ := el.Attr("accesskey")
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" {
			return
		}
		u, ok := byKey[key]
		if !ok {
			u = &usage{key: key}
			byKey[key] = u
			order = append(order, key)
		}
		u.users = append(u.users, el)
	})

	var failures []report.Failure
	for _, key := range order {
		u := byKey[key]
		if len(u.users) < 2 {
			continue
		}
		names := make([]string, 0, len(u.users))
		for _, el := range u.users {
			names = append(names, describeElement(el))
		}
		failures = append(failures, report.Failure{
			Kind:      report.KindDuplicate,
			Selector:  "[accesskey]",
			Attribute: "accesskey",
			Expected:  "unique",
			Actual:    key,
			Message:   fmt.Sprintf("accesskey %q is used by %s", key, strings.Join(names, ", ")),
			Snippet:   r.snippet(u.users[1]),
		})
	}
	return failures
}

// describeElement names an element by tag plus id, falling back to type or
// for so messages stay readable without snippets.
func describeElement(el *goquery.Selection) string {
	tag := strings.ToLower(goquery.NodeName(el))
	if id, ok := el.Attr("id"); ok && id != "" {
		return tag + "#" + id
	}
	if target, ok := el.Attr("for"); ok && target != "" {
		return fmt.Sprintf("%s[for=%q]", tag, target)
	}
	if typ, ok := el.Attr("type"); ok && typ != "" {
		return fmt.Sprintf("%s[type=%q]", tag, typ)
	}
	return tag
}
