// Package openapi wraps OpenAPI documents and the subset of operation and
// schema metadata needed to derive form expectations from a request body.
package openapi
