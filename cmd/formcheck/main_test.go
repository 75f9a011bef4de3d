package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formcheck/pkg/config"
	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/prompt"
)

const registrationPage = "../../pkg/suites/testdata/registration.html"

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) code() int {
	return exitCode(r.err)
}

func execute(t *testing.T, stdin string, configure func(*app), args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(stdin), &stdout, &stderr)
	a.configOptions = []config.LoaderOption{
		config.WithHomeDir(t.TempDir()),
		config.WithWorkDir(t.TempDir()),
	}
	if configure != nil {
		configure(a)
	}
	cmd := rootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func brokenPage(t *testing.T, dir string) string {
	t.Helper()
	raw, err := os.ReadFile(registrationPage)
	require.NoError(t, err)
	broken := strings.Replace(string(raw), `<label for="email" accesskey="e">`, `<label for="email">`, 1)
	require.NotEqual(t, string(raw), broken, "fixture must contain the email label")
	path := filepath.Join(dir, "broken.html")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	res := execute(t, "", nil, "version")
	require.NoError(t, res.err)
	assert.Equal(t, "formcheck version 0.1.0 (build: dev)\n", res.stdout)
}

func TestCheck_Passes(t *testing.T) {
	res := execute(t, "", nil, "check", registrationPage)
	require.NoError(t, res.err)
	assert.Equal(t, exitOK, res.code())
	assert.Contains(t, res.stdout, "39 checks, 39 passed, 0 failed (0 failures)")
	assert.NotContains(t, res.stdout, "FAIL")
}

func TestCheck_FailuresExitOne(t *testing.T) {
	path := brokenPage(t, t.TempDir())
	res := execute(t, "", nil, "check", path)
	require.ErrorIs(t, res.err, errChecksFailed)
	assert.Equal(t, exitFailed, res.code())
	assert.Contains(t, res.stdout, "FAIL Personal Information > email label")
	assert.Contains(t, res.stdout, "[attribute-missing]")
	assert.Contains(t, res.stdout, "FAIL Invariants > every label has an accesskey")
}

func TestCheck_GlobAndTotals(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "pages", "signup")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	raw, err := os.ReadFile(registrationPage)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "a.html"), raw, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "b.html"), raw, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "notes.txt"), []byte("x"), 0o644))

	res := execute(t, "", nil, "check", filepath.Join(dir, "**", "*.html"))
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "total: 2 documents, 78 checks, 78 passed, 0 failed (0 failures)")
}

func TestCheck_Stdin(t *testing.T) {
	raw, err := os.ReadFile(registrationPage)
	require.NoError(t, err)
	res := execute(t, string(raw), nil, "check", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "stdin (suite registration)")
}

func TestCheck_JSONToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")
	path := brokenPage(t, t.TempDir())
	res := execute(t, "", nil, "check", path, "--format", "json", "--output", out)
	require.ErrorIs(t, res.err, errChecksFailed)
	assert.Empty(t, res.stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var payload struct {
		Reports []struct {
			Document string `json:"document"`
		} `json:"reports"`
		Summary struct {
			Failed int `json:"failed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Len(t, payload.Reports, 1)
	assert.Equal(t, path, payload.Reports[0].Document)
	assert.Equal(t, 2, payload.Summary.Failed)
}

func TestCheck_HTMLAndMarkdown(t *testing.T) {
	res := execute(t, "", nil, "check", registrationPage, "--format", "html")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "<!DOCTYPE html>")

	res = execute(t, "", nil, "check", registrationPage, "--format", "markdown", "--verbose")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "# formcheck report")
	assert.Contains(t, res.stdout, "PASS")
}

func TestCheck_CustomSuiteFile(t *testing.T) {
	suite := filepath.Join(t.TempDir(), "login.yaml")
	require.NoError(t, os.WriteFile(suite, []byte(`name: login
groups:
  - name: Login
    checks:
      - name: has a password field
        selector: input[type="password"]
        count: {min: 1}
      - name: has a remember me box
        selector: '#remember'
`), 0o644))

	res := execute(t, "", nil, "check", registrationPage, "--suite", suite)
	require.ErrorIs(t, res.err, errChecksFailed)
	assert.Contains(t, res.stdout, "[missing-element]")
	assert.Contains(t, res.stdout, "2 checks, 1 passed, 1 failed (1 failures)")
}

func TestCheck_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "formcheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: json\nsnippets: false\n"), 0o644))

	path := brokenPage(t, t.TempDir())
	res := execute(t, "", nil, "check", path, "--config", cfgPath)
	require.ErrorIs(t, res.err, errChecksFailed)
	assert.True(t, strings.HasPrefix(res.stdout, "{"), "config format should select json")
	assert.NotContains(t, res.stdout, `"snippet"`)
}

func TestCheck_OpenAPI(t *testing.T) {
	spec := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(spec, []byte(`openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /register:
    post:
      operationId: registerUser
      requestBody:
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              required: [email]
              properties:
                email: {type: string, format: email}
      responses:
        '201': {description: created}
`), 0o644))

	res := execute(t, "", nil, "check", registrationPage, "--openapi", spec, "--operation", "registerUser", "--scope", "form")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "(suite registerUser)")
	assert.Contains(t, res.stdout, "3 checks, 3 passed")
}

func TestCheck_OperationalErrorsExitTwo(t *testing.T) {
	cases := map[string][]string{
		"missing file":    {"check", filepath.Join(t.TempDir(), "missing.html")},
		"no args":         {"check"},
		"url not allowed": {"check", "https://example.com/form"},
		"unknown suite":   {"check", registrationPage, "--suite", "nope"},
		"unknown format":  {"check", registrationPage, "--format", "pdf"},
		"bad log level":   {"check", registrationPage, "--log-level", "loud"},
		"empty glob":      {"check", filepath.Join(t.TempDir(), "*.html")},
		"derive no op":    {"check", registrationPage, "--openapi", "missing.yaml"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			res := execute(t, "", nil, args...)
			require.Error(t, res.err)
			assert.Equal(t, exitError, res.code(), "error: %v", res.err)
		})
	}
}

func TestSuites(t *testing.T) {
	res := execute(t, "", nil, "suites")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "registration")
	assert.Contains(t, res.stdout, "User registration form")

	res = execute(t, "", nil, "suites", "show", "registration")
	require.NoError(t, res.err)
	suite, err := expect.Parse([]byte(res.stdout))
	require.NoError(t, err)
	assert.Equal(t, "registration", suite.Name)

	res = execute(t, "", nil, "suites", "show", "login")
	assert.Equal(t, exitError, res.code())
}

func TestDerive(t *testing.T) {
	spec := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(spec, []byte(`openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /login:
    post:
      operationId: login
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [password]
              properties:
                password: {type: string, format: password}
      responses:
        '200': {description: ok}
`), 0o644))

	res := execute(t, "", nil, "derive", "--openapi", spec, "--operation", "login", "--name", "login-form")
	require.NoError(t, res.err)
	suite, err := expect.Parse([]byte(res.stdout))
	require.NoError(t, err)
	assert.Equal(t, "login-form", suite.Name)
	require.Len(t, suite.Groups, 1)
	require.Len(t, suite.Groups[0].Checks, 1)
	assert.Equal(t, `[name="password"]`, suite.Groups[0].Checks[0].Selector)

	res = execute(t, "", nil, "derive", "--openapi", spec)
	assert.Equal(t, exitError, res.code())
}

type scriptedDriver struct {
	inputs  []string
	confirm []bool
	multi   []int
	err     error
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	if len(d.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	v := d.confirm[0]
	d.confirm = d.confirm[1:]
	return v, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	return d.multi, nil
}

func TestInit(t *testing.T) {
	out := filepath.Join(t.TempDir(), "suite.yaml")
	driver := &scriptedDriver{
		inputs:  []string{"signup", "form", "Account Security", "password,confirm-password"},
		confirm: []bool{true, false},
		multi:   []int{0, 1},
	}
	withDriver := func(a *app) { a.newDriver = func() prompt.Driver { return driver } }

	res := execute(t, "", withDriver, "init", "--output", out)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Suite written to "+out)

	suite, err := expect.LoadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "signup", suite.Name)

	res = execute(t, "", withDriver, "init", "--output", out)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "already exists")

	interrupted := func(a *app) {
		a.newDriver = func() prompt.Driver { return &scriptedDriver{err: prompt.ErrInterrupted} }
	}
	res = execute(t, "", interrupted, "init", "--output", out, "--force")
	require.ErrorIs(t, res.err, prompt.ErrInterrupted)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitFailed, exitCode(errChecksFailed))
	assert.Equal(t, exitError, exitCode(errors.New("boom")))
}
