//go:build tools

package tools

// cmd/gendoc is built with "go run", so its man page dependency is pinned here.
import (
	_ "github.com/spf13/cobra/doc"
)
