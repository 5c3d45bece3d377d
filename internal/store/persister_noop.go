package store

import "context"

// NoopPersister keeps state in memory only. Used in tests and by
// read-mostly tooling that must never write the snapshot.
type NoopPersister struct{}

func (NoopPersister) Load(ctx context.Context) (*State, error) { return nil, nil }

func (NoopPersister) Save(ctx context.Context, st State) error { return nil }
