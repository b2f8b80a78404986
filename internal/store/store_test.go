package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microsmart/mentorflow/internal/models"
)

func seedFolder(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("content of "+name), 0o644))
	}
	return root
}

func TestLocalStoreListsBusinessDocuments(t *testing.T) {
	root := seedFolder(t,
		"Ε3_2023.pdf",
		"οικονομικά/ισολογισμός.xlsx",
		"φωτογραφίες/κατάστημα.jpg",
		"βίντεο/παρουσίαση.mp4",
		"notes.txt",
		".DS_Store",
	)

	files, err := NewLocalStore(root).ListDocuments(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, files, 4, "only business document extensions are listed")

	byID := map[string]models.SourceFile{}
	for _, f := range files {
		byID[f.ID] = f
		assert.Equal(t, models.OriginLocal, f.Origin)
		assert.NotEmpty(t, f.Hash)
		assert.Positive(t, f.Size)
	}
	assert.Contains(t, byID, "Ε3_2023.pdf")
	assert.Contains(t, byID, "οικονομικά/ισολογισμός.xlsx")
	assert.NotContains(t, byID, "notes.txt")

	xlsx := byID["οικονομικά/ισολογισμός.xlsx"]
	assert.Equal(t, ".xlsx", xlsx.Extension)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsx.MIMEType)
}

func TestLocalStoreDeterministicOrderAndStableHashes(t *testing.T) {
	root := seedFolder(t, "b.pdf", "a.xlsx", "c.docx")
	s := NewLocalStore(root)

	first, err := s.ListDocuments(context.Background(), "")
	require.NoError(t, err)
	second, err := s.ListDocuments(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, "a.xlsx", first[0].ID)
	assert.Equal(t, "b.pdf", first[1].ID)
	assert.Equal(t, "c.docx", first[2].ID)
	for i := range first {
		assert.Equal(t, first[i].Hash, second[i].Hash)
	}
}

func TestLocalStoreMissingFolder(t *testing.T) {
	_, err := NewLocalStore(filepath.Join(t.TempDir(), "nope")).ListDocuments(context.Background(), "")
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestLocalStoreFetch(t *testing.T) {
	root := seedFolder(t, "a.pdf")
	s := NewLocalStore(root)

	files, err := s.ListDocuments(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, files, 1)

	r, err := s.Fetch(context.Background(), files[0])
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 64)
	n, _ := r.Read(buf)
	assert.Contains(t, string(buf[:n]), "content of a.pdf")
}
