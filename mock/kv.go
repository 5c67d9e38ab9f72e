package mock

import (
	"strings"
	"sync"

	"github.com/fwojciec/ragchat"
)

// Interface compliance check.
var _ ragchat.KV = (*KV)(nil)

// KV is an in-memory test double for ragchat.KV. The zero value is not
// usable; create it with NewKV.
type KV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewKV creates an empty in-memory KV.
func NewKV() *KV {
	return &KV{data: make(map[string]string)}
}

// Get returns the stored value, or ragchat.ErrKeyNotFound.
func (kv *KV) Get(key string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	if !ok {
		return "", ragchat.ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key.
func (kv *KV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (kv *KV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

// Keys returns all keys with the given prefix.
func (kv *KV) Keys(prefix string) ([]string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	var keys []string
	for k := range kv.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Len returns the number of stored entries. Test helper.
func (kv *KV) Len() int {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return len(kv.data)
}
