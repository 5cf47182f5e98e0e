package v1

import (
    "github.com/tinoosan/bookkeeper/internal/storage/postgres"
    "github.com/tinoosan/bookkeeper/internal/storage/sqlite"
)

// Compile-time interface assertions for the persistence adapters checked by /readyz.
var (
    _ ReadyChecker = (*postgres.Store)(nil)
    _ ReadyChecker = (*sqlite.Store)(nil)
)
