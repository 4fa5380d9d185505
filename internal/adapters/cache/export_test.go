package cache

import "time"

// SetClock replaces the store's time source.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }
