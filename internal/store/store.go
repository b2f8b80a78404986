package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/microsmart/mentorflow/internal/models"
)

// Terminal retrieval errors. No partial report is meaningful without
// source documents, so callers surface these immediately instead of
// retrying.
var (
	ErrSubjectNotFound     = errors.New("subject folder not found")
	ErrIntakeFolderMissing = errors.New("required 'mentoring' sub-folder missing")
	ErrAuth                = errors.New("authentication to document store failed")
)

// Store abstracts a directory of files belonging to one subject, whether
// populated locally or downloaded from a remote drive.
type Store interface {
	ListDocuments(ctx context.Context, subjectID string) ([]models.SourceFile, error)
	Fetch(ctx context.Context, f models.SourceFile) (io.ReadCloser, error)
}

// businessExtensions are the document types considered part of a subject's
// intake folder. Video is accepted but passed through unprocessed.
var businessExtensions = map[string]bool{
	".pdf":  true,
	".xlsx": true,
	".xls":  true,
	".docx": true,
	".doc":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".mp4":  true,
	".mov":  true,
}

// LocalStore serves documents from a directory tree on disk.
type LocalStore struct {
	Root string
}

// NewLocalStore returns a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Root: dir}
}

// ListDocuments walks the root directory and returns one SourceFile per
// business document, sorted by path for deterministic ordering. The
// subjectID argument is ignored; a local store is already scoped to one
// subject.
func (s *LocalStore) ListDocuments(ctx context.Context, _ string) ([]models.SourceFile, error) {
	info, err := os.Stat(s.Root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSubjectNotFound, s.Root)
	}

	var files []models.SourceFile
	err = filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !businessExtensions[ext] {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		hash, err := hashFile(path)
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", path, err)
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		files = append(files, models.SourceFile{
			ID:         filepath.ToSlash(rel),
			Path:       path,
			Name:       d.Name(),
			Size:       fi.Size(),
			MIMEType:   mimeByExtension(ext),
			Extension:  ext,
			Origin:     models.OriginLocal,
			Hash:       hash,
			IngestedAt: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// Fetch opens the file for reading.
func (s *LocalStore) Fetch(_ context.Context, f models.SourceFile) (io.ReadCloser, error) {
	r, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	return r, nil
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func mimeByExtension(ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	switch ext {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	default:
		return "application/octet-stream"
	}
}
