package ragchat

// KV is a simple key-value persistence substrate with no business logic.
// Get returns ErrKeyNotFound for absent keys. Keys returns every stored key
// with the given prefix, in unspecified order.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}
