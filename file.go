package mpack

import (
	"bufio"
	"fmt"
	"os"
)

// CreateWriter opens path for writing, truncating it, and returns a Writer that
// owns the file: Close flushes it and closes it.
func CreateWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, resourceError("open", path, err)
	}
	w := newWriter(&bufioWriterAdapter{bufio.NewWriterSize(f, BUFFER_SIZE)})
	w.owned, w.name = f, path
	log.Debugf("opened %s for writing", path)
	return w, nil
}

// OpenReader opens path for reading and returns a Reader that owns the file.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, resourceError("open", path, err)
	}
	r := newReader(&bufioReaderAdapter{bufio.NewReaderSize(f, BUFFER_SIZE)})
	r.owned, r.name = f, path
	log.Debugf("opened %s for reading", path)
	return r, nil
}

// WithFileWriter creates path, hands the Writer to fn and always closes it,
// whether fn returns normally, returns an error or panics. The first failure
// wins: fn's error, then the Writer's status, then the close error.
func WithFileWriter(path string, fn func(w *Writer) error) (err error) {
	w, err := CreateWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	if err = fn(w); err != nil {
		return err
	}
	return w.Err()
}

// WithFileReader opens path, hands the Reader to fn and always closes it.
func WithFileReader(path string, fn func(r *Reader) error) (err error) {
	r, err := OpenReader(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		} else if cerr != nil {
			log.Warningf("close %s after failed read: %v", path, cerr)
		}
	}()
	if err = fn(r); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
