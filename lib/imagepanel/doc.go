// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package imagepanel stages image changes for one task: the images the
// server already has, and new local files waiting to be uploaded.
//
// A [Panel] never holds more than [Capacity] images across both lists.
// Files arrive from a picker ([Panel.AddFiles]), a drop
// ([Panel.AddDropped]) or the clipboard ([Panel.AddPasted]); all three
// sniff content, keep only images, drop exact duplicates by BLAKE3
// digest, and silently truncate to the remaining capacity.
//
// Every mutation recomputes a [Diff] and hands it to the registered
// listener. The save routine in lib/board consumes the Diff verbatim;
// the panel itself never talks to the server.
package imagepanel
