// Package kvstore provides the key-value string storage behind the
// conversation memory: two logical keys per client, JSON strings as values,
// unreadable data treated as absent.
package kvstore

// Store is a flat key-value string store. Get reports absence instead of
// returning an error; anything that cannot be read counts as absent.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}
