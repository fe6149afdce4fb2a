// Package compress wraps streams in the lz4 and zstd codecs, which tabula
// selects by file extension when loading and by option when writing.
package compress

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/tabula/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Codec is a stream compression algorithm
type Codec string

const (
	// None leaves streams uncompressed
	None Codec = "none"
	// LZ4 compresses streams with the lz4 frame format
	LZ4 Codec = "lz4"
	// Zstd compresses streams with zstandard
	Zstd Codec = "zstd"
)

// ParseCodec parses a codec name. The empty string means None.
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "uncompressed":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return Zstd, nil
	}
	return None, errors.InvalidArgumentError{Argument: "compression", Reason: fmt.Sprintf("unknown compression codec %q", name)}
}

// Extension returns the file extension, including the leading dot, for files compressed with a Codec
func (c Codec) Extension() string {
	switch c {
	case LZ4:
		return ".lz4"
	case Zstd:
		return ".zst"
	}
	return ""
}

// FromPath returns the Codec implied by a file's extension
func FromPath(path string) Codec {
	switch {
	case strings.HasSuffix(path, LZ4.Extension()):
		return LZ4
	case strings.HasSuffix(path, Zstd.Extension()):
		return Zstd
	}
	return None
}

// TrimExtension removes a compression extension from a path, if present
func TrimExtension(path string) string {
	return strings.TrimSuffix(path, FromPath(path).Extension())
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// NewWriter wraps w such that bytes written are compressed with a Codec.
// Closing the returned writer flushes it, but does not close w.
func NewWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case None, "":
		return nopWriteCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	}
	return nil, errors.InvalidArgumentError{Argument: "compression", Reason: fmt.Sprintf("unknown compression codec %q", c)}
}

// NewReader wraps r such that bytes read are decompressed with a Codec
func NewReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case None, "":
		return io.NopCloser(r), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	}
	return nil, errors.InvalidArgumentError{Argument: "compression", Reason: fmt.Sprintf("unknown compression codec %q", c)}
}
