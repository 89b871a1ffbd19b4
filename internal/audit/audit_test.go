package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor_Archive(t *testing.T) {
	root := filepath.Join(t.TempDir(), "audit")
	auditor := NewAuditor(root)
	auditor.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC) }

	t.Run("writes JSON under the kind directory", func(t *testing.T) {
		proposal := map[string]any{
			"name":       "Dune",
			"author":     "Frank Herbert",
			"userRating": 4.5,
		}

		rel, err := auditor.Archive(ArchiveChat, proposal)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(rel, filepath.Join("chat", "20240309T140500Z-")), rel)
		assert.True(t, strings.HasSuffix(rel, ".json"))

		content, err := os.ReadFile(filepath.Join(root, rel))
		require.NoError(t, err)

		var saved map[string]any
		require.NoError(t, json.Unmarshal(content, &saved))
		assert.Equal(t, "Dune", saved["name"])
		assert.Equal(t, 4.5, saved["userRating"])
	})

	t.Run("names are unique within the same second", func(t *testing.T) {
		first, err := auditor.Archive(ArchiveChat, map[string]string{"k": "v"})
		require.NoError(t, err)
		second, err := auditor.Archive(ArchiveChat, map[string]string{"k": "v"})
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("empty kind goes to misc", func(t *testing.T) {
		rel, err := auditor.Archive("", []int{1})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(rel, "misc"+string(filepath.Separator)))
	})

	t.Run("unencodable data writes nothing", func(t *testing.T) {
		_, err := auditor.Archive("broken", map[string]any{"ch": make(chan int)})
		assert.Error(t, err)

		_, statErr := os.Stat(filepath.Join(root, "broken"))
		assert.True(t, os.IsNotExist(statErr))
	})
}
