package document

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

// Load reads and parses the document at path.
//
// A missing file is a not_found error; malformed content is a parse error.
// Both carry the path in their context.
func Load(path string) (*Object, error) {
	// #nosec G304 - the input path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapError(err, errors.CategoryNotFound, "input document not found").
				Fatal().
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read input document").
			Fatal().
			WithContext("path", path).
			Build()
	}

	doc, err := Parse(data)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return doc, nil
}

// WriteFile encodes doc and atomically replaces path with the result.
//
// The data is written to a temporary file in the destination directory and
// renamed over path, so readers never observe a partial document. It returns
// the number of bytes written.
func WriteFile(path string, doc *Object, opts EncodeOptions) (int, error) {
	data, err := Encode(doc, opts)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryInternal, "cannot encode document").
			Fatal().
			Build()
	}

	writeErr := func(err error, msg string) error {
		return errors.WriteError(msg).
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, writeErr(err, "cannot create output document")
	}
	tmpPath := tmp.Name()
	defer func() {
		// Removing after a successful rename fails harmlessly.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return 0, writeErr(err, "cannot write output document")
	}
	if err := tmp.Close(); err != nil {
		return 0, writeErr(err, "cannot write output document")
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return 0, writeErr(err, "cannot set output document permissions")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, writeErr(err, "cannot replace output document")
	}
	return len(data), nil
}
