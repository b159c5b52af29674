package entity

// Metadata is the open key/value document attached to every transaction.
// It accumulates gateway raw responses, bank details and error diagnostics
// over the lifetime of the transaction.
type Metadata map[string]any

// Merge returns a new Metadata containing the union of m and updates.
// Existing keys are kept unless updates supersedes them (last writer wins
// per key); the receiver is never modified. Whole-document replacement is
// a defect because it destroys the audit trail.
func (m Metadata) Merge(updates Metadata) Metadata {
	merged := make(Metadata, len(m)+len(updates))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}

// GetString returns the string stored under key, or "" when the key is
// absent or holds a non-string value.
func (m Metadata) GetString(key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetBool returns the bool stored under key, defaulting to false.
func (m Metadata) GetBool(key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
