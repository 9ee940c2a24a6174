package files

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/feereceipt/internal/storage"
)

func TestFileStore_SaveOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdfs")
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("Asha_R_1.pdf", []byte("%PDF-1.3")))

	f, err := store.Open("Asha_R_1.pdf")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_NoOverwrite(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("a.pdf", []byte("first")))
	err = store.Save("a.pdf", []byte("second"))
	assert.ErrorIs(t, err, storage.ErrConflict)

	f, err := store.Open("a.pdf")
	require.NoError(t, err)
	defer f.Close()
	data, _ := io.ReadAll(f)
	assert.Equal(t, "first", string(data))
}

func TestFileStore_Missing(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("nope.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, store.Remove("nope.pdf"))
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"a.pdf", "Asha_R_1718000000000.pdf", "X.PDF"} {
		assert.NoError(t, ValidateName(name), name)
	}
	for _, name := range []string{"", "../a.pdf", "sub/a.pdf", `sub\a.pdf`, ".hidden.pdf", "a.txt", "pdf"} {
		err := ValidateName(name)
		assert.True(t, errors.Is(err, ErrInvalidName), "%q: %v", name, err)
	}
}
