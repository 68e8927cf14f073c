package storage

import "errors"

// ErrKeyNotFound means the key is absent from the store, either because it
// was never written or because its expiry elapsed.
var ErrKeyNotFound = errors.New("key not found in storage")

// ErrSessionNotFound covers a missing, expired or unreadable session record.
var ErrSessionNotFound = errors.New("session not found in storage")

// ErrOptionNotFound means no lunch option with the given id exists.
var ErrOptionNotFound = errors.New("option not found in storage")

// ErrStoreUnavailable wraps transient backend failures, including bounded
// call timeouts. Callers may retry with backoff.
var ErrStoreUnavailable = errors.New("storage unavailable")
