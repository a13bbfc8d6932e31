// Package storage provides the key/value backends the client keeps its
// session credentials in.
//
// Three kinds of backend exist:
//
//   - persistent: an SQLite database on disk (survives restarts),
//   - tab: a Redis namespace owned by one client instance ("tab"); instances
//     configured with the same tab id share it,
//   - memory: a process-local map.
//
// A Registry holds every configured backend and designates exactly one of
// them as active. Reads and writes go to the active backend; cleanup
// operations may target all of them.
package storage
