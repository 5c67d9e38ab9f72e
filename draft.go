package ragchat

// DraftKeyNew is the draft key used when no session is active.
const DraftKeyNew = "new"

// Drafts retains unsent input text per session so switching sessions never
// loses a draft. Keys follow DraftKey: the current session's ID, or
// DraftKeyNew when composing outside any session.
type Drafts struct {
	byKey map[string]string
}

// NewDrafts creates an empty draft buffer.
func NewDrafts() *Drafts {
	return &Drafts{byKey: make(map[string]string)}
}

// DraftKey returns the buffer key for the given current session: the
// session's ID, or DraftKeyNew when current is nil. Callers must re-evaluate
// the key on every session change so the visible draft tracks the active
// session.
func DraftKey(current *Session) string {
	if current == nil {
		return DraftKeyNew
	}
	return current.ID
}

// Get returns the draft stored under key, or "" when absent.
func (d *Drafts) Get(key string) string {
	return d.byKey[key]
}

// Set replaces the draft stored under key.
func (d *Drafts) Set(key, value string) {
	d.byKey[key] = value
}

// Evict removes the draft stored under key. Deleting a session must evict
// its draft key.
func (d *Drafts) Evict(key string) {
	delete(d.byKey, key)
}
