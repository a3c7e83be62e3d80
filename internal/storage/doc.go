// Package storage keeps an audit trail of schedule lifecycle operations
// (create/enable/disable/delete and their OS-call outcomes).
//
// It is optional: with driver "none" nothing is recorded. The "file"
// driver appends JSON Lines; the "sqlite" driver needs the sqlite build
// tag and writes to a local database file.
package storage
