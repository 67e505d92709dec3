// Package singleton lazily constructs process-wide shared values.
//
// Two holders implement the same contract:
//
//   - NewOnce defers construction behind a run-once guard (sync.Once). Concurrent
//     first callers block until the constructor returns; later calls never block.
//   - NewChecked uses double-checked locking over an atomically published slot.
//     Only callers that observe an empty slot take the lock.
//
// Both construct at most one value, hand every caller the same value, and never
// expose a value whose constructor has not returned. Construction failures,
// including panics, are sticky and reported as *InitializationError.
//
// Types that must not be built outside their holder claim a Guard in their
// constructor; a second construction fails with ErrDuplicateConstruction.
package singleton
