package store

import "context"

// ErrorLogger receives non-fatal persistent-scope write failures.
type ErrorLogger interface {
	CacheError(operation, key string, err error)
}

// Dual writes through to both scopes: session first, persistent second.
// Reads prefer the session scope and fall back to the persistent one, so a
// fresh process sees state from the previous run while a live process sees
// its own most recent writes first.
//
// The pair of writes is not atomic. A persistent-scope failure after a
// successful session-scope write is logged and swallowed: losing the durable
// copy degrades to a cold cache on next start, which every caller already
// tolerates.
type Dual struct {
	session    Store
	persistent Store
	log        ErrorLogger
}

// NewDual combines a session scope and a persistent scope.
func NewDual(session, persistent Store, log ErrorLogger) *Dual {
	return &Dual{session: session, persistent: persistent, log: log}
}

// Get implements Store.
func (d *Dual) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := d.session.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	return d.persistent.Get(ctx, key)
}

// Set implements Store.
func (d *Dual) Set(ctx context.Context, key string, value []byte) error {
	if err := d.session.Set(ctx, key, value); err != nil {
		return err
	}
	if err := d.persistent.Set(ctx, key, value); err != nil {
		d.log.CacheError("set", key, err)
	}
	return nil
}

// Delete implements Store.
func (d *Dual) Delete(ctx context.Context, key string) error {
	if err := d.session.Delete(ctx, key); err != nil {
		return err
	}
	if err := d.persistent.Delete(ctx, key); err != nil {
		d.log.CacheError("delete", key, err)
	}
	return nil
}

// Keys implements Store.
func (d *Dual) Keys(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string

	for _, scope := range []Store{d.session, d.persistent} {
		scopeKeys, err := scope.Keys(ctx)
		if err != nil {
			return nil, err
		}
		for _, key := range scopeKeys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

var _ Store = (*Dual)(nil)
