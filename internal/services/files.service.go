package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"altesse/internal/common"
	"altesse/internal/models"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// FileService handles dropped files, batch renames and duplicate cleanup
type FileService struct {
	fs      afero.Fs
	tempDir string
	workers int
	log     *slog.Logger
}

func NewFileService(fs afero.Fs, tempDir string, workers int, log *slog.Logger) *FileService {
	if workers <= 0 {
		workers = 1
	}
	return &FileService{
		fs:      fs,
		tempDir: tempDir,
		workers: workers,
		log:     log.With(slog.String("item", "FileService")),
	}
}

// SaveDroppedFiles writes each file into the temp directory and returns the
// paths written. Files that cannot be written are logged and skipped.
func (s *FileService) SaveDroppedFiles(files []*models.FileData) ([]string, error) {
	if err := s.fs.MkdirAll(s.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create temp directory: %w", err)
	}

	saved := make([]string, 0, len(files))
	for _, file := range files {
		if file == nil {
			continue
		}

		name := filepath.Base(file.Name)
		if name == "." || name == ".." || name == string(filepath.Separator) {
			s.log.Warn("Skipping dropped file without a name")
			continue
		}

		path := filepath.Join(s.tempDir, name)
		if err := afero.WriteFile(s.fs, path, file.Content, 0o644); err != nil {
			s.log.Error("Cannot save dropped file", slog.String("name", name), slog.Any("error", err))
			continue
		}

		saved = append(saved, path)
	}

	return saved, nil
}

// CleanupTempFiles removes the temp directory
func (s *FileService) CleanupTempFiles() error {
	return s.fs.RemoveAll(s.tempDir)
}

// Rename renames every path according to opts, keeping extensions. It stops
// at the first destination that already exists.
func (s *FileService) Rename(paths []string, opts *models.OptionRename) error {
	if opts == nil {
		opts = &models.OptionRename{}
	}

	for i, oldPath := range paths {
		newPath := renamedPath(oldPath, i, len(paths), opts)

		if newPath != oldPath {
			if _, err := s.fs.Stat(newPath); err == nil {
				return fmt.Errorf("%w: %s", common.ErrDestinationExists, newPath)
			}
		}

		if err := s.fs.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("cannot rename %s: %w", oldPath, err)
		}
	}

	return nil
}

func renamedPath(oldPath string, i, total int, opts *models.OptionRename) string {
	dir := filepath.Dir(oldPath)
	base := filepath.Base(oldPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	switch {
	case opts.NewName != "" && total > 1:
		padding := opts.Padding
		if padding == 0 {
			padding = 3
		}
		name = fmt.Sprintf("%s_%0*d", opts.NewName, padding, opts.StartNumber+i)
	case opts.NewName != "":
		name = opts.NewName
	default:
		if opts.Replace != "" {
			name = strings.ReplaceAll(name, opts.Replace, opts.With)
		}
		// a negative start number turns numbering off
		if opts.StartNumber >= 0 {
			name = fmt.Sprintf("%s%0*d", opts.Prefix, opts.Padding, opts.StartNumber+i)
		} else {
			name = opts.Prefix + name + opts.Suffix
		}
	}

	return filepath.Join(dir, name+ext)
}

type fileHash struct {
	path string
	hash string
}

// FindDuplicates hashes every regular file below root and returns the groups
// of paths sharing a hash. Paths in a group are sorted.
func (s *FileService) FindDuplicates(ctx context.Context, root string) (models.DuplicateGroups, error) {
	g, ctx := errgroup.WithContext(ctx)
	paths := make(chan string, 100)
	results := make(chan fileHash, 100)

	g.Go(func() error {
		defer close(paths)
		return afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			select {
			case paths <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for path := range paths {
				hash, err := s.hashFile(path)
				if err != nil {
					return err
				}
				select {
				case results <- fileHash{path: path, hash: hash}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	hashes := make(map[string][]string)
	for fh := range results {
		hashes[fh.hash] = append(hashes[fh.hash], fh.path)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	duplicates := make(models.DuplicateGroups)
	for hash, files := range hashes {
		if len(files) > 1 {
			sort.Strings(files)
			duplicates[hash] = files
		}
	}
	return duplicates, nil
}

// DeleteDuplicates removes every path of each group except the first one
// and returns the deleted paths, sorted.
func (s *FileService) DeleteDuplicates(ctx context.Context, groups models.DuplicateGroups) ([]string, error) {
	var targets []string
	for _, paths := range groups {
		if len(paths) > 1 {
			targets = append(targets, paths[1:]...)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var mu sync.Mutex
	deleted := make([]string, 0, len(targets))
	for _, path := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.fs.Remove(path); err != nil {
				return fmt.Errorf("cannot remove %s: %w", path, err)
			}
			mu.Lock()
			deleted = append(deleted, path)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	sort.Strings(deleted)
	return deleted, err
}

func (s *FileService) hashFile(path string) (string, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
