// Package model defines the disc golf entities shared by every other package.
//
// This package contains type definitions and input validation only. All other
// internal packages import model; model imports nothing internal.
//
// Key constraints:
//   - Identifiers are int64 values assigned by the store (0 means "not yet stored")
//   - Hole numbers are 1-based and contiguous within a course
//   - Optional hole attributes are pointers; nil means "not recorded"
//   - All JSON tags use snake_case
package model
