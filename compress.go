package telnet

import (
	"bytes"
	"compress/zlib"
	"io"
)

// outboundCompressor wraps the writer's transport in a zlib deflate
// stream once MCCP2 activates. Writes are synced (flushed) per spec
// §4.F's writer loop so every queued message reaches the peer promptly.
type outboundCompressor struct {
	zw *zlib.Writer
}

func newOutboundCompressor(w io.Writer) *outboundCompressor {
	zw, _ := zlib.NewWriterLevel(w, zlib.BestCompression)
	return &outboundCompressor{zw: zw}
}

func (c *outboundCompressor) Write(b []byte) (int, error) {
	n, err := c.zw.Write(b)
	if err != nil {
		return n, err
	}
	return n, c.zw.Flush()
}

func (c *outboundCompressor) Close() error {
	return c.zw.Close()
}

// inboundDecompressor wraps the connection's raw stream in a zlib inflate
// stream once MCCP3 activates. remainder is whatever bytes were already
// sitting in the read buffer past the activation SB's terminator — they
// arrived compressed and must be decompressed retroactively (spec §4.D,
// §9 Design Note).
type inboundDecompressor struct {
	zr io.ReadCloser
}

func newInboundDecompressor(remainder []byte, conn io.Reader) (*inboundDecompressor, error) {
	var source io.Reader = conn
	if len(remainder) > 0 {
		source = io.MultiReader(bytes.NewReader(remainder), conn)
	}

	zr, err := zlib.NewReader(source)
	if err != nil {
		return nil, err
	}
	return &inboundDecompressor{zr: zr}, nil
}

func (d *inboundDecompressor) Read(b []byte) (int, error) {
	return d.zr.Read(b)
}

func (d *inboundDecompressor) Close() error {
	return d.zr.Close()
}
