package credentials

import "sync"

// Holder is the in-memory copy of the credentials the device is using,
// backed by a Store. Request handlers update it while the main loop reads
// it, so access is serialized.
type Holder struct {
	store *Store

	mu      sync.RWMutex
	current WifiCredentials
}

// NewHolder creates a holder initialized from store.Load.
func NewHolder(store *Store) *Holder {
	return &Holder{store: store, current: store.Load()}
}

// Current returns the credentials in use.
func (h *Holder) Current() WifiCredentials {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Set persists creds and, once written, makes them current.
func (h *Holder) Set(creds WifiCredentials) error {
	if err := h.store.Save(creds); err != nil {
		return err
	}
	h.mu.Lock()
	h.current = creds
	h.mu.Unlock()
	return nil
}

// Reload re-reads the store.
func (h *Holder) Reload() WifiCredentials {
	creds := h.store.Load()
	h.mu.Lock()
	h.current = creds
	h.mu.Unlock()
	return creds
}

// Store returns the backing store.
func (h *Holder) Store() *Store {
	return h.store
}
