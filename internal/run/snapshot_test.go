package run

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microsmart/mentorflow/internal/models"
)

func TestWorkspaceRunIDFormat(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), "123456789")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ws.RunID(), "123456789_"))
	assert.DirExists(t, ws.Dir())
}

func TestWorkspaceSectionRoundtrip(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root, "123456789")
	require.NoError(t, err)

	ok := &models.SectionResult{
		Number:   2,
		Title:    "Financial Health & Performance Optimization",
		Status:   models.JobSucceeded,
		Attempts: 2,
		Payload:  &models.SectionPayload{Number: 2, Title: "t", Content: "<div>x</div>"},
	}
	failed := &models.SectionResult{
		Number: 7, Status: models.JobFailed, Attempts: 3, Error: "engine unavailable",
	}
	require.NoError(t, ws.SaveSection(ok))
	require.NoError(t, ws.SaveSection(failed))

	reopened, err := OpenWorkspace(root, ws.RunID())
	require.NoError(t, err)

	seed, err := reopened.LoadSections()
	require.NoError(t, err)

	// Only successes seed a resumed run; the failure is regenerated.
	require.Len(t, seed, 1)
	require.NotNil(t, seed[2])
	assert.Equal(t, 2, seed[2].Attempts)
	assert.True(t, seed[2].Succeeded())
}

func TestOpenWorkspaceMissingRun(t *testing.T) {
	_, err := OpenWorkspace(t.TempDir(), "123456789_20260101T000000")
	assert.Error(t, err)
}

func TestLoadSectionsEmptyWorkspace(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), "123456789")
	require.NoError(t, err)

	seed, err := ws.LoadSections()
	require.NoError(t, err)
	assert.Empty(t, seed)
}
