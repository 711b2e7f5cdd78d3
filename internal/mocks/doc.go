// Package mocks provides centralized mock implementations for testing.
//
// Each mock keeps function fields for overriding behaviour, sensible default
// behaviour when they are nil, and call tracking guarded by a mutex so the
// mocks can be shared with background workers in the same test.
//
// Usage:
//
//	docs := mocks.NewMockDocumentStore()
//	docs.PutFn = func(ctx context.Context, key string, data []byte) error {
//	    return errors.New("disk full")
//	}
//
//	h, err := history.New(ctx, docs, logger)
package mocks
