// Package check evaluates expectation suites against parsed documents. A run
// is a single synchronous pass over an immutable tree: every unmet
// expectation becomes a report failure and no check aborts another.
package check
