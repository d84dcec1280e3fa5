package services

import (
	"context"
	"testing"

	"altesse/internal/common"
	"altesse/internal/models"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileService(t *testing.T) (*FileService, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewFileService(fs, "/tmp/altesse_dropped_files", 4, discardLogger()), fs
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func TestSaveDroppedFiles(t *testing.T) {
	svc, fs := newTestFileService(t)

	saved, err := svc.SaveDroppedFiles([]*models.FileData{
		{Name: "a.png", Content: []byte("aaa")},
		nil,
		{Name: "../../etc/b.jpg", Content: []byte("bbb")},
		{Name: ""},
		{Name: "..", Content: []byte("parent")},
		{Name: "../.."},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/altesse_dropped_files/a.png", "/tmp/altesse_dropped_files/b.jpg"}, saved)

	data, err := afero.ReadFile(fs, "/tmp/altesse_dropped_files/b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "bbb", string(data))

	require.NoError(t, svc.CleanupTempFiles())
	exists, err := afero.DirExists(fs, "/tmp/altesse_dropped_files")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRenamedPath(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		index int
		total int
		opts  models.OptionRename
		want  string
	}{
		{"new name numbered", "/p/x.png", 1, 3, models.OptionRename{NewName: "trip", StartNumber: 1}, "/p/trip_002.png"},
		{"new name custom padding", "/p/x.png", 0, 2, models.OptionRename{NewName: "trip", Padding: 1}, "/p/trip_0.png"},
		{"new name single file", "/p/x.png", 0, 1, models.OptionRename{NewName: "cover"}, "/p/cover.png"},
		{"prefix numbering", "/p/x.png", 2, 3, models.OptionRename{Prefix: "img_", Padding: 2, StartNumber: 10}, "/p/img_12.png"},
		{"prefix and suffix", "/p/x.png", 0, 1, models.OptionRename{Prefix: "a_", Suffix: "_z", StartNumber: -1}, "/p/a_x_z.png"},
		{"replace", "/p/old_pic.png", 0, 1, models.OptionRename{Replace: "old", With: "new", StartNumber: -1}, "/p/new_pic.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renamedPath(tt.path, tt.index, tt.total, &tt.opts))
		})
	}
}

func TestRename(t *testing.T) {
	svc, fs := newTestFileService(t)
	writeFiles(t, fs, map[string]string{"/p/a.png": "1", "/p/b.png": "2"})

	require.NoError(t, svc.Rename([]string{"/p/a.png", "/p/b.png"}, &models.OptionRename{NewName: "shot"}))

	for _, path := range []string{"/p/shot_000.png", "/p/shot_001.png"} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.True(t, exists, path)
	}
}

func TestRenameRefusesToOverwrite(t *testing.T) {
	svc, fs := newTestFileService(t)
	writeFiles(t, fs, map[string]string{"/p/a.png": "1", "/p/cover.png": "2"})

	err := svc.Rename([]string{"/p/a.png"}, &models.OptionRename{NewName: "cover"})
	assert.ErrorIs(t, err, common.ErrDestinationExists)

	data, err := afero.ReadFile(fs, "/p/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestFindAndDeleteDuplicates(t *testing.T) {
	svc, fs := newTestFileService(t)
	writeFiles(t, fs, map[string]string{
		"/photos/a.jpg":        "same",
		"/photos/sub/b.jpg":    "same",
		"/photos/sub/c.jpg":    "same",
		"/photos/unique.jpg":   "other",
		"/photos/x/pair-1.png": "pair",
		"/photos/x/pair-2.png": "pair",
	})
	ctx := context.Background()

	groups, err := svc.FindDuplicates(ctx, "/photos")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	var triple, pair []string
	for _, paths := range groups {
		switch len(paths) {
		case 3:
			triple = paths
		case 2:
			pair = paths
		}
	}
	assert.Equal(t, []string{"/photos/a.jpg", "/photos/sub/b.jpg", "/photos/sub/c.jpg"}, triple)
	assert.Equal(t, []string{"/photos/x/pair-1.png", "/photos/x/pair-2.png"}, pair)

	deleted, err := svc.DeleteDuplicates(ctx, groups)
	require.NoError(t, err)
	assert.Equal(t, []string{"/photos/sub/b.jpg", "/photos/sub/c.jpg", "/photos/x/pair-2.png"}, deleted)

	for _, kept := range []string{"/photos/a.jpg", "/photos/unique.jpg", "/photos/x/pair-1.png"} {
		exists, err := afero.Exists(fs, kept)
		require.NoError(t, err)
		assert.True(t, exists, kept)
	}

	again, err := svc.FindDuplicates(ctx, "/photos")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestFindDuplicatesMissingRoot(t *testing.T) {
	svc, _ := newTestFileService(t)

	_, err := svc.FindDuplicates(context.Background(), "/nowhere")
	assert.Error(t, err)
}

func TestDeleteDuplicatesReportsFailures(t *testing.T) {
	svc, fs := newTestFileService(t)
	writeFiles(t, fs, map[string]string{"/d/a": "x", "/d/b": "x"})

	_, err := svc.DeleteDuplicates(context.Background(), models.DuplicateGroups{
		"h1": {"/d/a", "/d/b"},
		"h2": {"/d/keep", "/d/missing"},
	})
	assert.ErrorContains(t, err, "/d/missing")
}
