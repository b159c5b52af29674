package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_Merge(t *testing.T) {
	t.Run("should union keys with last writer winning", func(t *testing.T) {
		original := Metadata{"a": "1", "b": "2"}
		merged := original.Merge(Metadata{"b": "3", "c": "4"})

		assert.Equal(t, "1", merged.GetString("a"))
		assert.Equal(t, "3", merged.GetString("b"))
		assert.Equal(t, "4", merged.GetString("c"))
	})

	t.Run("should never modify the receiver", func(t *testing.T) {
		original := Metadata{"a": "1"}
		_ = original.Merge(Metadata{"a": "changed", "b": "new"})

		assert.Equal(t, "1", original.GetString("a"))
		assert.Len(t, original, 1)
	})

	t.Run("should handle nil receiver and empty updates", func(t *testing.T) {
		var nilMeta Metadata
		merged := nilMeta.Merge(Metadata{"a": "1"})
		assert.Equal(t, "1", merged.GetString("a"))

		merged = Metadata{"a": "1"}.Merge(nil)
		assert.Equal(t, "1", merged.GetString("a"))
	})
}

func TestMetadata_Getters(t *testing.T) {
	meta := Metadata{"name": "deposit", "applied": true, "count": 3}

	assert.Equal(t, "deposit", meta.GetString("name"))
	assert.Equal(t, "", meta.GetString("missing"))
	assert.Equal(t, "", meta.GetString("count"))

	assert.True(t, meta.GetBool("applied"))
	assert.False(t, meta.GetBool("missing"))
	assert.False(t, meta.GetBool("name"))
}
