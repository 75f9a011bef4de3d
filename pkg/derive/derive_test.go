package derive

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/check"
	"github.com/goliatone/go-formcheck/pkg/document"
	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/openapi"
	"github.com/goliatone/go-formcheck/pkg/report"
)

func intPtr(n int) *int { return &n }

func registrationOperation() openapi.Operation {
	return openapi.Operation{
		ID:      "registerUser",
		Method:  "POST",
		Path:    "/register",
		Summary: "Create an account",
		RequestBody: openapi.Schema{
			Type:     "object",
			Required: []string{"email", "password"},
			Properties: map[string]openapi.Schema{
				"password":  {Type: "string", Format: "password", MinLength: intPtr(8)},
				"email":     {Type: "string", Format: "email"},
				"firstName": {Type: "string", MaxLength: intPtr(50)},
				"gender":    {Type: "string", Enum: []any{"male", "female"}},
				"phone":     {Type: "string", Pattern: "[0-9]{3}"},
			},
		},
	}
}

func TestFromOperation(t *testing.T) {
	suite := FromOperation(registrationOperation(), WithScope("form#signup"))

	want := expect.Suite{
		Name:        "registerUser",
		Description: "Derived from POST /register",
		Groups: []expect.Group{{
			Name:  "Create an account",
			Scope: &expect.Scope{Selector: "form#signup"},
			Checks: []expect.Check{
				{Name: "email", Selector: `[name="email"]`, Attrs: map[string]expect.Matcher{
					"required": expect.Present(),
					"type":     expect.Equals("email"),
				}},
				{Name: "firstName", Selector: `[name="firstName"]`, Attrs: map[string]expect.Matcher{
					"maxlength": expect.Equals("50"),
				}},
				{Name: "gender", Selector: `select[name="gender"]`, Tag: "select", Values: &expect.Values{
					Of: "option", Contains: []string{"male", "female"},
				}},
				{Name: "password", Selector: `[name="password"]`, Attrs: map[string]expect.Matcher{
					"minlength": expect.Equals("8"),
					"required":  expect.Present(),
					"type":      expect.Equals("password"),
				}},
				{Name: "phone", Selector: `[name="phone"]`, Attrs: map[string]expect.Matcher{
					"pattern": expect.Equals("[0-9]{3}"),
				}},
			},
		}},
		Invariants: expect.Invariants{LabelsForControls: true, LabelAccesskeys: true},
	}
	if diff := cmp.Diff(want, suite); diff != "" {
		t.Fatalf("derived suite mismatch (-want +got):\n%s", diff)
	}
	if err := suite.Validate(); err != nil {
		t.Fatalf("derived suite invalid: %v", err)
	}
}

func TestFromOperation_Options(t *testing.T) {
	suite := FromOperation(openapi.Operation{ID: "op"}, WithName("custom"), WithAccessibility(false))
	if suite.Name != "custom" {
		t.Fatalf("name: got %q", suite.Name)
	}
	if suite.Invariants.Any() {
		t.Fatalf("expected no invariants, got %+v", suite.Invariants)
	}
	if suite.Groups[0].Name != "op" {
		t.Fatalf("group name should fall back to operation id, got %q", suite.Groups[0].Name)
	}
}

func TestFromOperation_ValidatesMatchingForm(t *testing.T) {
	doc := document.MustParse(document.SourceFromString("signup", ""), []byte(`<!doctype html>
<form id="signup">
  <label for="first" accesskey="f">First</label>
  <input id="first" name="firstName" maxlength="50">
  <label for="email" accesskey="e">Email</label>
  <input id="email" name="email" type="email" required>
  <label for="password" accesskey="p">Password</label>
  <input id="password" name="password" type="password" minlength="8" required>
  <label for="phone" accesskey="t">Phone</label>
  <input id="phone" name="phone" pattern="[0-9]{3}">
  <label for="gender" accesskey="g">Gender</label>
  <select id="gender" name="gender"><option value="male">M</option><option value="female">F</option></select>
</form>`))

	suite := FromOperation(registrationOperation(), WithScope("form#signup"))
	rep, err := check.New().Validate(context.Background(), doc, suite)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !rep.OK() {
		var failures []report.Failure
		for _, result := range rep.Results {
			failures = append(failures, result.Failures...)
		}
		t.Fatalf("expected derived suite to pass, failures: %+v", failures)
	}
	if rep.Summary.Checks != 7 {
		t.Fatalf("checks: got %d want 7", rep.Summary.Checks)
	}
}
