package store

import (
	"upkeep/internal/models"
)

// logHistory appends an entry to the in-memory log (newest first) and writes
// it through to the local cache. Cache failures are logged and swallowed:
// history logging never fails a mutation. Caller must hold the write lock.
func (s *Store) logHistory(
	action models.HistoryAction,
	itemType models.HistoryItemType,
	itemName string,
	photoURL string,
) models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:        newID(),
		Timestamp: s.now(),
		Action:    action,
		ItemType:  itemType,
		ItemName:  itemName,
		PhotoURL:  photoURL,
	}

	s.history = append([]models.HistoryEntry{entry}, s.history...)

	if s.cache != nil {
		if err := s.cache.AppendHistory(entry); err != nil {
			s.log.Warn("Failed to persist history entry", "error", err, "id", entry.ID)
		}
	}

	return entry
}

// History returns a copy of the history log, newest first.
func (s *Store) History() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.HistoryEntry, len(s.history))
	copy(entries, s.history)
	return entries
}
