package store

// Message roles. "system" is reserved for injected notices; the chat flow
// itself only produces user and model messages.
const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// Message is immutable once created. Editing a message never mutates it:
// the edit flow discards it (and everything after it) and appends a new one.
type Message struct {
	ID        string `json:"id"` // UUID
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Session is one titled conversation with its own ordered message log.
// Insertion order == chronological order == display order.
type Session struct {
	ID        string    `json:"id"` // UUID
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"created_at"` // epoch milliseconds
}
