package models

// KeywordChange is one membership edit made on an article, in the order it
// happened. Repositories replay these inside the write transaction.
type KeywordChange struct {
	KeywordID string
	Added     bool
}

// KeywordUsageTracker keeps Keyword.UsageCount equal to the number of live
// mappings. It adjusts the in-memory counter immediately and journals the
// change so storage can apply the same delta atomically.
type KeywordUsageTracker struct {
	changes []KeywordChange
}

func (t *KeywordUsageTracker) Added(k *Keyword) {
	k.UsageCount++
	t.changes = append(t.changes, KeywordChange{KeywordID: k.ID, Added: true})
}

// Removed decrements the counter, floored at zero. k may be nil when the
// mapping was loaded without its keyword row.
func (t *KeywordUsageTracker) Removed(keywordID string, k *Keyword) {
	if k != nil {
		k.UsageCount = decrementFloor(k.UsageCount)
	}
	t.changes = append(t.changes, KeywordChange{KeywordID: keywordID, Added: false})
}

func (t *KeywordUsageTracker) Changes() []KeywordChange {
	out := make([]KeywordChange, len(t.changes))
	copy(out, t.changes)
	return out
}

func (t *KeywordUsageTracker) Reset() {
	t.changes = nil
}

func decrementFloor(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
