package ingest

import "sync"

// Holder wraps the active dataset. The dataset is supplied once per run
// (built-in default or an upload) and swapped atomically: a failed upload
// never touches the previously loaded data.
type Holder struct {
	mu   sync.RWMutex
	data *AppData
}

func NewHolder(data *AppData) *Holder {
	return &Holder{data: data}
}

// Get returns the active dataset. Callers treat it as read-only.
func (h *Holder) Get() *AppData {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data
}

func (h *Holder) Replace(data *AppData) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = data
}
