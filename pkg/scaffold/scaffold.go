// Package scaffold walks a user through describing a form and turns the
// answers into an expectation suite.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/prompt"
)

const (
	invariantLabels      = "Every control with an id has a label"
	invariantAccesskeys  = "Every label has an accesskey"
	invariantTabindex    = "Every control has a tabindex"
	invariantDistinct    = "Accesskeys are distinct"
	invariantRequired    = "Listed controls carry required"
	invariantButtonsOuts = "Submit and reset buttons sit outside fieldsets"
)

var invariantOptions = []string{
	invariantLabels,
	invariantAccesskeys,
	invariantTabindex,
	invariantDistinct,
	invariantRequired,
	invariantButtonsOuts,
}

// Run asks for the suite name, the form selector and every fieldset with its
// controls. It returns a suite that has passed validation.
func Run(ctx context.Context, driver prompt.Driver) (expect.Suite, error) {
	if driver == nil {
		return expect.Suite{}, errors.New("scaffold: prompt driver is nil")
	}

	name, err := driver.Input(ctx, prompt.InputConfig{
		Message:   "Suite name",
		Default:   "my-form",
		Validator: notBlank,
	})
	if err != nil {
		return expect.Suite{}, err
	}
	form, err := driver.Input(ctx, prompt.InputConfig{
		Message: "Form selector",
		Default: "form",
		Help:    "CSS selector of the form element, e.g. form#signup",
	})
	if err != nil {
		return expect.Suite{}, err
	}
	form = strings.TrimSpace(form)
	if form == "" {
		form = "form"
	}

	root := expect.Group{
		Name:  "Form Structure",
		Scope: &expect.Scope{Selector: form},
		Checks: []expect.Check{{
			Name:     "Form exists",
			Selector: form,
			Global:   true,
			Count:    expect.AtLeast(1),
		}},
	}

	var ids []string
	for first := true; ; first = false {
		more, err := driver.Confirm(ctx, prompt.ConfirmConfig{
			Message: "Add a fieldset?",
			Default: first,
		})
		if err != nil {
			return expect.Suite{}, err
		}
		if !more {
			break
		}
		group, controls, err := askFieldset(ctx, driver)
		if err != nil {
			return expect.Suite{}, err
		}
		root.Groups = append(root.Groups, group)
		ids = append(ids, controls...)
	}

	picked, err := driver.MultiSelect(ctx, prompt.SelectConfig{
		Message:  "Document-wide rules",
		Options:  invariantOptions,
		Defaults: []int{0, 1},
	})
	if err != nil {
		return expect.Suite{}, err
	}

	suite := expect.Suite{
		Name:        strings.TrimSpace(name),
		Description: fmt.Sprintf("Structure of %s", form),
		Groups:      []expect.Group{root},
		Invariants:  invariants(picked, ids),
	}
	if err := suite.Validate(); err != nil {
		return expect.Suite{}, fmt.Errorf("scaffold: %w", err)
	}
	return suite, nil
}

func askFieldset(ctx context.Context, driver prompt.Driver) (expect.Group, []string, error) {
	legend, err := driver.Input(ctx, prompt.InputConfig{
		Message:   "Fieldset legend",
		Validator: notBlank,
	})
	if err != nil {
		return expect.Group{}, nil, err
	}
	raw, err := driver.Input(ctx, prompt.InputConfig{
		Message: "Control ids (comma separated)",
		Help:    "ids of the inputs, selects and textareas inside this fieldset",
	})
	if err != nil {
		return expect.Group{}, nil, err
	}

	legend = strings.TrimSpace(legend)
	group := expect.Group{
		Name:  legend,
		Scope: &expect.Scope{Selector: "fieldset", Child: "legend", Contains: legend},
		Checks: []expect.Check{{
			Name:     "Legend",
			Selector: "legend",
			Text:     &expect.Matcher{Contains: legend},
		}},
	}
	ids := splitIDs(raw)
	for _, id := range ids {
		group.Checks = append(group.Checks,
			expect.Check{
				Name:     id + " control",
				Selector: fmt.Sprintf("[id=%q]", id),
				Attrs:    map[string]expect.Matcher{"name": expect.Present()},
			},
			expect.Check{
				Name:     id + " label",
				Selector: fmt.Sprintf("label[for=%q]", id),
				Attrs:    map[string]expect.Matcher{"accesskey": expect.Present()},
			},
		)
	}
	return group, ids, nil
}

func invariants(picked []int, ids []string) expect.Invariants {
	var inv expect.Invariants
	for _, idx := range picked {
		if idx < 0 || idx >= len(invariantOptions) {
			continue
		}
		switch invariantOptions[idx] {
		case invariantLabels:
			inv.LabelsForControls = true
		case invariantAccesskeys:
			inv.LabelAccesskeys = true
		case invariantTabindex:
			inv.ControlTabindex = true
		case invariantDistinct:
			inv.DistinctAccesskeys = true
		case invariantRequired:
			inv.Required = append([]string(nil), ids...)
		case invariantButtonsOuts:
			inv.OutsideFieldset = []string{`button[type="submit"]`, `button[type="reset"]`}
		}
	}
	return inv
}

func splitIDs(raw string) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		id := strings.TrimPrefix(strings.TrimSpace(part), "#")
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func notBlank(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("value is required")
	}
	return nil
}
