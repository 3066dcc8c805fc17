package httpx

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// DefaultCompressionLevel is a speed-leaning level shared by every encoder.
const DefaultCompressionLevel = 5

// compressibleTypes are the response content types worth compressing.
var compressibleTypes = []string{
	"application/json",
	"text/plain",
	"text/html",
	"text/css",
	"application/javascript",
}

// Compress returns middleware that negotiates response compression from the
// client's Accept-Encoding header. The klauspost encoders replace the stdlib
// ones chi registers by default, and zstd is preferred when offered.
// A client that accepts none of them gets the identity encoding.
func Compress(level int) func(http.Handler) http.Handler {
	c := middleware.NewCompressor(level, compressibleTypes...)
	c.SetEncoder("deflate", encoderDeflate)
	c.SetEncoder("gzip", encoderGzip)
	c.SetEncoder("zstd", encoderZstd)
	return c.Handler
}

// The constructors below only fail on an out-of-range level, and
// DefaultCompressionLevel is valid for all three.

func encoderGzip(w io.Writer, level int) io.Writer {
	gw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return nil
	}
	return gw
}

func encoderDeflate(w io.Writer, level int) io.Writer {
	dw, err := flate.NewWriter(w, level)
	if err != nil {
		return nil
	}
	return dw
}

func encoderZstd(w io.Writer, level int) io.Writer {
	zw, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil
	}
	return zw
}
