package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfParts(t *testing.T) {
	t.Run("Expect: the same parts to always hash the same", func(t *testing.T) {
		assert.Equal(t,
			OfParts("FpML-tradeId", "FRA-2011-0042", "fra"),
			OfParts("FpML-tradeId", "FRA-2011-0042", "fra"))
	})

	t.Run("Expect: different parts to hash differently", func(t *testing.T) {
		a := OfParts("FRA-2011-0042", "fra")
		b := OfParts("FRA-2011-0043", "fra")
		assert.NotEqual(t, a, b)
	})

	t.Run("Expect: part order to matter", func(t *testing.T) {
		a := OfParts("a", "b")
		b := OfParts("b", "a")
		assert.NotEqual(t, a, b)
	})

	t.Run("Expect: part boundaries to matter", func(t *testing.T) {
		a := OfParts("ab", "c")
		b := OfParts("a", "bc")
		assert.NotEqual(t, a, b)
	})
}

func TestOfFile(t *testing.T) {
	t.Run("Expect: identical content to produce identical checksums", func(t *testing.T) {
		dir := t.TempDir()
		path1 := filepath.Join(dir, "a.xml")
		path2 := filepath.Join(dir, "b.xml")
		content := []byte("<dataDocument>content</dataDocument>")
		require.NoError(t, os.WriteFile(path1, content, 0o644))
		require.NoError(t, os.WriteFile(path2, content, 0o644))

		sum1, err := OfFile(path1)
		require.NoError(t, err)
		sum2, err := OfFile(path2)
		require.NoError(t, err)
		assert.Equal(t, sum1, sum2)
	})

	t.Run("Expect: different content to produce different checksums", func(t *testing.T) {
		dir := t.TempDir()
		path1 := filepath.Join(dir, "a.xml")
		path2 := filepath.Join(dir, "b.xml")
		require.NoError(t, os.WriteFile(path1, []byte("one"), 0o644))
		require.NoError(t, os.WriteFile(path2, []byte("two"), 0o644))

		sum1, err := OfFile(path1)
		require.NoError(t, err)
		sum2, err := OfFile(path2)
		require.NoError(t, err)
		assert.NotEqual(t, sum1, sum2)
	})

	t.Run("Expect: a missing file to return an error", func(t *testing.T) {
		_, err := OfFile(filepath.Join(t.TempDir(), "missing.xml"))
		assert.Error(t, err)
	})
}
