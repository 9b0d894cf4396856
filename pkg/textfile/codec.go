package textfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Codec identifies the on-disk encoding of a text file.
type Codec string

const (
	CodecPlain Codec = "plain"
	CodecGzip  Codec = "gzip"
	CodecZstd  Codec = "zstd"
	CodecXz    Codec = "xz"
)

// CodecFor selects a codec from the file extension. Anything without a known
// compression suffix is plain text.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CodecGzip
	case ".zst", ".zstd":
		return CodecZstd
	case ".xz":
		return CodecXz
	default:
		return CodecPlain
	}
}

// newDecoder wraps r so reads yield decoded text. Closing the returned reader
// never closes r.
func newDecoder(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case CodecPlain:
		return io.NopCloser(r), nil
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CodecXz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	default:
		return nil, fmt.Errorf("unsupported codec: %s", c)
	}
}

// newEncoder wraps w so writes are encoded. Close flushes the encoder but
// never closes w.
func newEncoder(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case CodecPlain:
		return nopWriteCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CodecXz:
		return xz.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
