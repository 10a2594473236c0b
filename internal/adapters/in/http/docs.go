// Package http is the REST adapter of the laundry backend. It binds echo
// requests to commands and queries, authenticates bearer tokens, and maps
// the error taxonomy of internal/pkg/errs onto status codes.
package http
