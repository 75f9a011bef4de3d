package scaffold

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/check"
	"github.com/goliatone/go-formcheck/pkg/document"
	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/prompt"
	"github.com/goliatone/go-formcheck/pkg/testsupport"
)

type stubDriver struct {
	inputs     []string
	confirm    []bool
	multiIdx   [][]int
	inputPos   int
	confirmPos int
	multiPos   int
	inputErr   error
}

func (s *stubDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ prompt.ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ prompt.SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func TestRun_BuildsSuite(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"signup", "form",
			"Personal Information", "first-name, last-name,#email",
			"Account Security", "password confirm-password password",
		},
		confirm:  []bool{true, true, false},
		multiIdx: [][]int{{0, 1, 4, 5}},
	}

	suite, err := Run(context.Background(), driver)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if suite.Name != "signup" {
		t.Fatalf("name: got %q", suite.Name)
	}

	root := suite.Groups[0]
	if len(root.Groups) != 2 {
		t.Fatalf("expected 2 fieldset groups, got %d", len(root.Groups))
	}
	security := root.Groups[1]
	if diff := cmp.Diff(&expect.Scope{Selector: "fieldset", Child: "legend", Contains: "Account Security"}, security.Scope); diff != "" {
		t.Fatalf("scope mismatch (-want +got):\n%s", diff)
	}
	// legend + two checks per distinct id
	if got := len(security.Checks); got != 5 {
		t.Fatalf("security checks: got %d want 5", got)
	}

	want := expect.Invariants{
		LabelsForControls: true,
		LabelAccesskeys:   true,
		Required:          []string{"first-name", "last-name", "email", "password", "confirm-password"},
		OutsideFieldset:   []string{`button[type="submit"]`, `button[type="reset"]`},
	}
	if diff := cmp.Diff(want, suite.Invariants); diff != "" {
		t.Fatalf("invariants mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_SuitePassesAgainstRegistrationPage(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"registration", "form",
			"Personal Information", "first-name,last-name,email",
			"Additional Information", "gender,country,address",
		},
		confirm:  []bool{true, true, false},
		multiIdx: [][]int{{0, 1, 2, 3, 4, 5}},
	}
	suite, err := Run(context.Background(), driver)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	doc := testsupport.LoadDocument(t, "../suites/testdata/registration.html")
	rep, err := check.New().Validate(context.Background(), doc, suite)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !rep.OK() {
		t.Fatalf("expected scaffolded suite to pass, summary %+v", rep.Summary)
	}
}

func TestRun_AcceptsIDsThatAreNotCSSIdentifiers(t *testing.T) {
	driver := &stubDriver{
		inputs:   []string{"odd-ids", "form", "Details", "1st-name, a.b"},
		confirm:  []bool{true, false},
		multiIdx: [][]int{{}},
	}
	suite, err := Run(context.Background(), driver)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	details := suite.Groups[0].Groups[0]
	var selectors []string
	for _, c := range details.Checks {
		selectors = append(selectors, c.Selector)
	}
	want := []string{"legend", `[id="1st-name"]`, `label[for="1st-name"]`, `[id="a.b"]`, `label[for="a.b"]`}
	if diff := cmp.Diff(want, selectors); diff != "" {
		t.Fatalf("selectors mismatch (-want +got):\n%s", diff)
	}

	doc, err := document.ParseString("odd", `<form><fieldset><legend>Details</legend>
<label for="1st-name" accesskey="f">First</label><input id="1st-name" name="first">
<label for="a.b" accesskey="b">AB</label><input id="a.b" name="ab">
</fieldset></form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rep, err := check.New().Validate(context.Background(), doc, suite)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !rep.OK() {
		t.Fatalf("expected suite to pass, failed: %+v", rep.Failed())
	}
}

func TestRun_PropagatesInterrupt(t *testing.T) {
	driver := &stubDriver{inputErr: prompt.ErrInterrupted}
	if _, err := Run(context.Background(), driver); !errors.Is(err, prompt.ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
}

func TestRun_NilDriver(t *testing.T) {
	if _, err := Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil driver")
	}
}

func TestSplitIDs(t *testing.T) {
	got := splitIDs(" a, #b  c,,a ")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}
