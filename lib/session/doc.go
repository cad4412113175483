// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session decides whether the client is logged in.
//
// [Gate] runs the who-am-I check at startup, performs login and
// logout, and tells subscribers when the identity changes so dependent
// state (loaded projects, boards) can be dropped. It fails closed: a
// 401, or any other failure to confirm the identity, leaves the gate
// anonymous.
//
// Logout always clears the local identity, even when the server cannot
// be reached. The network error is still returned so callers can log
// it.
//
// Consumers depend on the [AuthContext] interface rather than on the
// cookie jar, which stays private to the API client.
package session
