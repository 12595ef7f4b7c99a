// Package store defines the page-store contract the R-tree engine is built
// on, plus an in-memory reference implementation (MemStore) used by tests
// and examples.
//
// The page store is an external collaborator (spec §1): a page-oriented
// storage manager that hands out integer page identifiers and opaque byte
// pages. The R-tree never interprets page contents itself — serialization
// lives in package rtree, which calls StoreNode/LoadNode with already
// encoded bytes.
//
// Errors:
//
//	ErrPageNotFound - LoadNode/DeleteNode referenced an unknown page ID.
//	ErrIO           - the underlying storage failed for a reason other than
//	                  a missing page (closed store, write failure, ...).
package store
