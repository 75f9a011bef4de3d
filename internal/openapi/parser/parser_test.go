package parser

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-formcheck/pkg/openapi"
)

func loadFixture(t *testing.T) pkgopenapi.Document {
	t.Helper()
	raw, err := os.ReadFile("testdata/registration.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc, err := pkgopenapi.NewDocument("testdata/registration.yaml", raw)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestParser_Operations(t *testing.T) {
	p := New(pkgopenapi.NewParserOptions())
	ops, err := p.Operations(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}

	if _, ok := ops["get:/health"]; !ok {
		t.Fatalf("expected synthesized id for operation without operationId, got %v", keys(ops))
	}

	op, ok := ops["registerUser"]
	if !ok {
		t.Fatalf("registerUser missing, got %v", keys(ops))
	}
	if op.Method != "POST" || op.Path != "/register" {
		t.Fatalf("unexpected operation header: %s %s", op.Method, op.Path)
	}

	body := op.RequestBody
	if body.Ref != "#/components/schemas/Registration" {
		t.Fatalf("ref: got %q", body.Ref)
	}
	if diff := cmp.Diff([]string{"age", "email", "firstName", "gender", "password", "phone"}, body.PropertyNames()); diff != "" {
		t.Fatalf("property names mismatch (-want +got):\n%s", diff)
	}
	if !body.IsRequired("email") || body.IsRequired("phone") {
		t.Fatalf("required flags wrong: %v", body.Required)
	}

	email := body.Properties["email"]
	if email.Type != "string" || email.Format != "email" {
		t.Fatalf("email: got type=%q format=%q", email.Type, email.Format)
	}
	if got := body.Properties["phone"].Pattern; got != "^[0-9]{3}-[0-9]{3}-[0-9]{4}$" {
		t.Fatalf("phone pattern: got %q", got)
	}
	if max := body.Properties["firstName"].MaxLength; max == nil || *max != 50 {
		t.Fatalf("firstName maxLength: got %v", max)
	}
	if min := body.Properties["password"].MinLength; min == nil || *min != 8 {
		t.Fatalf("password minLength: got %v", min)
	}
	if diff := cmp.Diff([]any{"male", "female", "non-binary"}, body.Properties["gender"].Enum); diff != "" {
		t.Fatalf("gender enum mismatch (-want +got):\n%s", diff)
	}
	if min := body.Properties["age"].Minimum; min == nil || *min != 13 {
		t.Fatalf("age minimum: got %v", min)
	}
}

func TestParser_PrefersFormEncoding(t *testing.T) {
	raw := `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /x:
    post:
      operationId: submit
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                fromJSON: {type: string}
          application/x-www-form-urlencoded:
            schema:
              type: object
              properties:
                fromForm: {type: string}
      responses:
        '200': {description: ok}
`
	doc, err := pkgopenapi.NewDocument("inline", []byte(raw))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	ops, err := New(pkgopenapi.NewParserOptions()).Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if diff := cmp.Diff([]string{"fromForm"}, ops["submit"].RequestBody.PropertyNames()); diff != "" {
		t.Fatalf("media type preference mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_FallbackMediaTypeIsStable(t *testing.T) {
	raw := `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /x:
    post:
      operationId: submit
      requestBody:
        content:
          text/plain:
            schema:
              type: object
              properties:
                fromText: {type: string}
          application/xml:
            schema:
              type: object
              properties:
                fromXML: {type: string}
          text/csv:
            schema:
              type: object
              properties:
                fromCSV: {type: string}
      responses:
        '200': {description: ok}
`
	doc, err := pkgopenapi.NewDocument("inline", []byte(raw))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	p := New(pkgopenapi.NewParserOptions())
	for i := 0; i < 20; i++ {
		ops, err := p.Operations(context.Background(), doc)
		if err != nil {
			t.Fatalf("operations: %v", err)
		}
		if diff := cmp.Diff([]string{"fromXML"}, ops["submit"].RequestBody.PropertyNames()); diff != "" {
			t.Fatalf("run %d: fallback media type mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestParser_Errors(t *testing.T) {
	p := New(pkgopenapi.NewParserOptions())

	doc, err := pkgopenapi.NewDocument("bad", []byte("openapi: [not valid"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if _, err := p.Operations(context.Background(), doc); err == nil || !strings.Contains(err.Error(), "load document") {
		t.Fatalf("expected load error, got %v", err)
	}

	empty, err := pkgopenapi.NewDocument("empty", []byte("openapi: 3.0.3\ninfo: {title: t, version: '1'}\npaths: {}\n"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if _, err := p.Operations(context.Background(), empty); err == nil || !strings.Contains(err.Error(), "no operations") {
		t.Fatalf("expected no operations error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Operations(ctx, loadFixture(t)); err == nil {
		t.Fatal("expected cancelled context error")
	}
}

func keys(ops map[string]pkgopenapi.Operation) []string {
	out := make([]string, 0, len(ops))
	for id := range ops {
		out = append(out, id)
	}
	return out
}
