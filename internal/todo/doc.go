// Package todo holds the task records served by the API and the stores that
// own them.
//
// A Store is the authoritative, ordered collection plus its id counter. Two
// backends exist, both memory-only and living for the process lifetime:
//
//   - MemoryStore: an ordered slice guarded by a sync.RWMutex
//   - SQLiteStore: a shared-cache in-memory SQLite table (see migrations/)
//
// Registry fronts a Store for the HTTP layer: it logs mutations and fans
// change events out to Notifiers (WebSocket hub, MQTT publisher).
//
// Ids are assigned in strictly increasing order and never reused, even
// after deletion. Titles are trimmed and must not be empty.
package todo
