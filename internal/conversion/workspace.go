package conversion

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const imagesDir = "images"

// Workspace owns the on-disk layout for request-scoped files:
//
//	<root>/<id>.pdf          uploaded document
//	<root>/images/<id>/      rendered pages
type Workspace struct {
	root       string
	keepImages bool
}

// NewWorkspace creates the uploads root and its images subdirectory.
// With keepImages set, Upload.Remove leaves rendered pages in place.
func NewWorkspace(root string, keepImages bool) (*Workspace, error) {
	if err := os.MkdirAll(filepath.Join(root, imagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrWorkspace, root, err)
	}
	return &Workspace{root: root, keepImages: keepImages}, nil
}

// Root returns the uploads directory.
func (w *Workspace) Root() string {
	return w.root
}

// Upload is a request-scoped uploaded PDF and the directory reserved for its pages.
type Upload struct {
	ID       uuid.UUID
	PDFPath  string
	ImageDir string

	keepImages bool
}

// Save writes r to a new uniquely named PDF under the workspace root and
// creates the upload's image directory. On failure nothing is left behind.
func (w *Workspace) Save(r io.Reader) (*Upload, error) {
	id := uuid.New()
	u := &Upload{
		ID:         id,
		PDFPath:    filepath.Join(w.root, id.String()+".pdf"),
		ImageDir:   filepath.Join(w.root, imagesDir, id.String()),
		keepImages: w.keepImages,
	}

	f, err := os.OpenFile(u.PDFPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: create upload: %w", ErrWorkspace, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(u.PDFPath)
		return nil, fmt.Errorf("%w: write upload: %w", ErrWorkspace, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(u.PDFPath)
		return nil, fmt.Errorf("%w: close upload: %w", ErrWorkspace, err)
	}

	if err := os.MkdirAll(u.ImageDir, 0o755); err != nil {
		os.Remove(u.PDFPath)
		return nil, fmt.Errorf("%w: create image dir: %w", ErrWorkspace, err)
	}

	return u, nil
}

// Remove deletes the uploaded PDF and, unless images are kept, its rendered
// pages. Missing files are not an error.
func (u *Upload) Remove() error {
	var errs []error

	if err := os.Remove(u.PDFPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}

	if !u.keepImages {
		if err := os.RemoveAll(u.ImageDir); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
