package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/microsmart/mentorflow/internal/models"
)

// intakeFolder is the sub-folder inside a subject's drive folder that
// holds the documents for report generation.
const intakeFolder = "mentoring"

// SubjectStore serves documents from a GCS bucket mirroring the company
// drive: one top-level folder per subject (folder name contains the ΑΦΜ),
// with the intake documents under its "mentoring/" sub-folder.
type SubjectStore struct {
	client *storage.Client
	bucket string
}

// NewSubjectStore creates a store backed by the given bucket.
func NewSubjectStore(ctx context.Context, bucket string) (*SubjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("subject bucket must be provided")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &SubjectStore{client: client, bucket: bucket}, nil
}

// ListDocuments locates the subject's folder by ΑΦΜ substring match,
// requires its mentoring sub-folder, and returns one SourceFile per
// business document beneath it. Subject-not-found, missing sub-folder and
// authentication failures are terminal for the run.
func (s *SubjectStore) ListDocuments(ctx context.Context, subjectID string) ([]models.SourceFile, error) {
	folder, err := s.findSubjectFolder(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	prefix := folder + intakeFolder + "/"
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var files []models.SourceFile
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapAuth(fmt.Errorf("failed to list %s: %w", prefix, err))
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		ext := strings.ToLower(path.Ext(attrs.Name))
		if !businessExtensions[ext] {
			continue
		}
		rel := strings.TrimPrefix(attrs.Name, prefix)
		files = append(files, models.SourceFile{
			ID:         rel,
			Path:       fmt.Sprintf("gs://%s/%s", s.bucket, attrs.Name),
			Name:       path.Base(attrs.Name),
			Size:       attrs.Size,
			MIMEType:   mimeByExtension(ext),
			Extension:  ext,
			Origin:     models.OriginRemote,
			Hash:       fmt.Sprintf("%x", attrs.MD5),
			IngestedAt: time.Now().UTC(),
		})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no documents under %s in bucket %s", ErrIntakeFolderMissing, prefix, s.bucket)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// Fetch streams one remote document.
func (s *SubjectStore) Fetch(ctx context.Context, f models.SourceFile) (io.ReadCloser, error) {
	object := strings.TrimPrefix(f.Path, fmt.Sprintf("gs://%s/", s.bucket))
	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, wrapAuth(fmt.Errorf("failed to open reader for %s: %w", f.Path, err))
	}
	return r, nil
}

// DownloadAll materializes every document into destDir, preserving the
// relative layout, so the rest of the pipeline can operate on local files.
// Downloads run concurrently with per-file retries.
func (s *SubjectStore) DownloadAll(ctx context.Context, logCtx *slog.Logger, files []models.SourceFile, destDir string) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)

	for _, f := range files {
		eg.Go(func() error {
			dest := filepath.Join(destDir, filepath.FromSlash(f.ID))
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
			}
			if err := s.downloadFile(gctx, f, dest); err != nil {
				return fmt.Errorf("%s: %w", f.ID, err)
			}
			logCtx.Info("Downloaded document.", "file", f.ID, "bytes", f.Size)
			return nil
		})
	}
	return eg.Wait()
}

func (s *SubjectStore) downloadFile(ctx context.Context, f models.SourceFile, dest string) error {
	const maxRetries = 4
	backoff := 1 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := func() error {
			r, err := s.Fetch(ctx, f)
			if err != nil {
				return err
			}
			defer r.Close()
			local, err := os.Create(dest)
			if err != nil {
				return fmt.Errorf("failed to create local file: %w", err)
			}
			defer local.Close()
			if _, err := io.Copy(local, r); err != nil {
				return fmt.Errorf("failed to copy object: %w", err)
			}
			return nil
		}()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrAuth) {
			return err
		}
		lastErr = err

		slog.Warn("Download failed, will retry.", "file", f.ID, "attempt", i+1, "backoff", backoff.String(), "error", err)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("download failed after all retries: %w", lastErr)
}

// findSubjectFolder lists top-level folders and returns the first whose
// name contains the subject id. Drive folders are conventionally named
// "COMPANY - ΑΦΜ - notes", so a substring match on the ΑΦΜ is sufficient.
func (s *SubjectStore) findSubjectFolder(ctx context.Context, subjectID string) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("%w: empty subject id", ErrSubjectNotFound)
	}
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Delimiter: "/"})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", wrapAuth(fmt.Errorf("failed to list subject folders: %w", err))
		}
		if attrs.Prefix != "" && strings.Contains(attrs.Prefix, subjectID) {
			return attrs.Prefix, nil
		}
	}
	return "", fmt.Errorf("%w: no folder matching %q in bucket %s", ErrSubjectNotFound, subjectID, s.bucket)
}

// wrapAuth converts GCS permission failures into the terminal ErrAuth so
// the caller can distinguish them from transient transport errors.
func wrapAuth(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden) {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return err
}
