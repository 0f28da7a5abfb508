// Package persona turns a user's event and spending history into a
// behavioral fingerprint and matches it against a fixed catalog of
// archetypes.
//
// The pipeline is one-way and side-effect free:
//
//	Records -> Extract -> Fingerprint -> Match -> Profile / GroupResult
//
// Every entry point is a pure function of its inputs. Missing dates, splits
// or participants degrade to documented defaults instead of failing, and an
// unknown archetype key resolves to a placeholder. A Catalog is read-only
// after loading and safe for concurrent use.
package persona
