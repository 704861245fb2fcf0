// Package migrations provides embedded SQL migration files.
package migrations

import (
	_ "embed"
)

// HistorySQL creates the rename journal. It is idempotent.
//
//go:embed sql/001_history.sql
var HistorySQL string

// CacheSQL creates the provider response cache. It is idempotent.
//
//go:embed sql/002_metadata_cache.sql
var CacheSQL string
