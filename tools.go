//go:build tools

// Package tools tracks tool and library dependencies that are only imported
// from test files. This ensures go mod tidy retains them.
package tools

import (
	_ "pgregory.net/rapid"
)
