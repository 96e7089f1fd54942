// Package remote adapts schemaless document stores to the single
// DocumentStore contract the sync engine replicates through.
//
// # Backends
//
//   - MemoryStore: process-local map, used by tests and the "memory" kind.
//   - GRPCStore: the gophnotes document server (internal/docrpc), bearer
//     token sent in the access_token metadata key.
//   - SurrealStore: a SurrealDB namespace/database, one table per collection.
//   - S3Store: any S3-compatible bucket, one JSON object per document.
//
// # Error Handling
//
// Transport failures are mapped to the sentinels ErrUnavailable and
// ErrUnauthorized where the backend allows telling them apart; everything
// else is wrapped. Get returns (nil, nil) when a document does not exist.
package remote
