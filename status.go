package camerastream

import "sync"

// Level is the severity of a status entry.
type Level int

const (
	// LevelOK indicates the channel is healthy.
	LevelOK Level = iota
	// LevelWarn indicates a transient condition, retried automatically.
	LevelWarn
	// LevelError indicates malformed input or a failed operation.
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelOK:
		return "OK"
	case LevelWarn:
		return "Warn"
	case LevelError:
		return "Error"
	default:
		return "unknown"
	}
}

// Status category names used by the component.
const (
	StatusCameraInfo = "Camera Info"
	StatusImage      = "Image"
	StatusTime       = "Time"
)

// Status is one category's current condition.
type Status struct {
	Level   Level
	Message string
}

// statusMap holds the per-category status slots consumed by an external
// status display.
type statusMap struct {
	mu    sync.RWMutex
	slots map[string]Status
}

func newStatusMap() *statusMap {
	return &statusMap{slots: make(map[string]Status)}
}

func (s *statusMap) set(category string, level Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[category] = Status{Level: level, Message: message}
}

func (s *statusMap) get(category string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.slots[category]
	return st, ok
}

func (s *statusMap) snapshot() map[string]Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Status, len(s.slots))
	for k, v := range s.slots {
		out[k] = v
	}
	return out
}

func (s *statusMap) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[string]Status)
}
