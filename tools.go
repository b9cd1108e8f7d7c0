//go:build tools
// +build tools

// Package tools pins tool dependencies invoked through go generate (mockgen),
// so go.mod and go.sum track them on a fresh checkout.
package skillsync

import (
	_ "go.uber.org/mock/mockgen"
)
