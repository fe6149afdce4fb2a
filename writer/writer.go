package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/datasource"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/compress"
	"github.com/go-sif/tabula/internal/util"
	"github.com/go-sif/tabula/logging"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
)

// SuccessMarker is the name of the empty file marking a completed write
const SuccessMarker = "_SUCCESS"

const partPrefix = "part-"

// WriteTo encodes a Table in the given format, compressing it if configured to
func WriteTo(w io.Writer, t tabula.Table, format datasource.Format, opts Options) error {
	codec, err := opts.codec(format)
	if err != nil {
		return err
	}
	dw, err := opts.writer(format)
	if err != nil {
		return err
	}
	cw, err := compress.NewWriter(w, codec)
	if err != nil {
		return err
	}
	if err := dw.Write(cw, t); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// Write saves a Table as a new part file within the destination directory,
// which is created if necessary
func Write(t tabula.Table, format datasource.Format, dest string, mode Mode, opts Options) error {
	logger := logging.OrDiscard(opts.Logger)
	codec, err := opts.codec(format)
	if err != nil {
		return err
	}
	proceed, err := prepare(dest, mode)
	if err != nil || !proceed {
		if err == nil {
			logger.Info("destination exists, skipping write", "destination", dest)
		}
		return err
	}
	parts, err := partFiles(dest)
	if err != nil {
		return err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s%05d-%s%s%s", partPrefix, len(parts), id.String(), format.Extension(), codec.Extension())
	if err := writePart(t, format, filepath.Join(dest, name), opts); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dest, SuccessMarker), nil, 0644); err != nil {
		return err
	}
	logger.Info("wrote table", "destination", dest, "file", name, "format", string(format), "mode", mode.String(), "rows", t.NumRows())
	return nil
}

// prepare readies a destination according to the mode, returning false if
// nothing should be written
func prepare(dest string, mode Mode) (bool, error) {
	info, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return true, os.MkdirAll(dest, 0755)
	} else if err != nil {
		return false, err
	}
	if !info.IsDir() {
		switch mode {
		case ModeIgnore:
			return false, nil
		case ModeOverwrite:
			if err := os.Remove(dest); err != nil {
				return false, err
			}
			return true, os.MkdirAll(dest, 0755)
		case ModeAppend:
			return false, errors.InvalidArgumentError{Argument: "destination", Reason: dest + " is a file, not a directory"}
		}
		return false, errors.DestinationExistsError{Path: dest}
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return true, nil
	}
	switch mode {
	case ModeErrorIfExists:
		return false, errors.DestinationExistsError{Path: dest}
	case ModeIgnore:
		return false, nil
	case ModeOverwrite:
		var merr *multierror.Error
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), partPrefix) || entry.Name() == SuccessMarker {
				merr = multierror.Append(merr, os.Remove(filepath.Join(dest, entry.Name())))
			}
		}
		if merr != nil {
			merr.ErrorFormat = util.FormatMultiError
		}
		return true, merr.ErrorOrNil()
	}
	return true, nil
}

func partFiles(dest string) ([]string, error) {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return nil, err
	}
	var parts []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), partPrefix) {
			parts = append(parts, entry.Name())
		}
	}
	return parts, nil
}

// writePart writes under a hidden name, then renames the file into place
func writePart(t tabula.Table, format datasource.Format, path string, opts Options) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = WriteTo(f, t, format, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		var merr *multierror.Error
		merr = multierror.Append(merr, err)
		if rerr := os.Remove(tmp); rerr != nil && !os.IsNotExist(rerr) {
			merr = multierror.Append(merr, rerr)
		}
		if len(merr.Errors) == 1 {
			return err
		}
		merr.ErrorFormat = util.FormatMultiError
		return merr
	}
	return nil
}
