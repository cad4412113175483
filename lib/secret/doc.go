// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds login passwords in memory that the Go runtime
// never sees.
//
// A [Buffer] is an anonymous mmap region locked into RAM with mlock
// and excluded from core dumps with MADV_DONTDUMP. Close zeroes,
// unlocks and unmaps it. The garbage collector cannot copy the
// region, so the only heap copy of a password is the short-lived one
// made at the JSON encoding boundary ([Buffer.String]).
//
// Constructors:
//
//   - [New] allocates a zero-filled buffer
//   - [NewFromBytes] copies into protected memory and zeroes the source
//   - [NewFromReader] reads a bounded secret, such as a password file
//   - [ReadFromPath] reads a file path, or stdin for "-"
//
// After Close, any read panics. Close is idempotent.
package secret
