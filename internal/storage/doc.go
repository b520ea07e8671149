// Package storage reads and writes the todo.txt queue file.
//
// Every mutating operation is a single critical section: acquire a
// best-effort advisory lock on a sidecar <file>.lock, read the current
// lines (a missing file is an empty queue), apply the change, and replace
// the file atomically via a same-directory temp file and rename. An
// external reader therefore observes either the previous full content or
// the new full content, never a partial file.
//
// The lock is advisory and non-blocking. When it cannot be acquired the
// operation proceeds anyway; two processes that both slip past the lock
// both perform atomic writes and the last one wins. Read-only queries take
// no lock at all.
package storage
