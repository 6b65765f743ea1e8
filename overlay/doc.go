// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

// Package overlay manages the persistent directories backing the
// sandboxed environment's writable storage: an upper layer for user
// data, a work directory for kernel scratch space, and an empty
// read-only lower layer. Provisioning is idempotent and re-entrant;
// data preservation (the upper layer is never erased outside an
// explicit user action) is the package's one invariant.
package overlay
