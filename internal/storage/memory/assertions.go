package memory

import (
	"github.com/tinoosan/bookkeeper/internal/service/intake"
)

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	_ intake.Writer = (*Store)(nil)
	_ intake.Reader = (*Store)(nil)
)
