// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cerrs defines constant error types using a custom Error string type.
// It centralizes the error values returned while building or lowering a
// grammar — undefined rules, duplicate rules, pattern compilation failures —
// so callers can compare against them with errors.Is().
package cerrs
