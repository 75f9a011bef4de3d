// Package expect describes the structural expectations a document must meet:
// suites of grouped checks, the scopes they run in, attribute and text
// matchers, and document-wide invariants. Suites are usually authored in YAML.
package expect
