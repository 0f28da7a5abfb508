// Package models defines the plain records the persona engine reads.
//
// # Records
//
// The following records are produced by the storage layer and consumed
// read-only by the persona engine:
//   - User: a person who can join groups
//   - Group: a set of members sharing events and expenses
//   - Event: a scheduled get-together inside a group
//   - Transaction: money moving inside a group (event, split or p2p)
//   - Split: one participant's paid/owed share of a split transaction
//
// # Design Principles
//
// 1. **IDs over pointers**: relationships are ID strings, never pointers
// 2. **Tolerant readers**: nothing here is validated on read; analysis code
// must cope with missing dates, splits and participants
// 3. **Unix timestamps** for creation times, time.Time for event schedules
// so the hour of day survives a round trip through storage
package models
