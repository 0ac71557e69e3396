package content

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"

	"github.com/webtop-os/webtop/internal/shared/types"
)

const encodingZstd = "zstd"

// record is the stored form of an entry. Content above the compression
// threshold is zstd-encoded and flagged, so uncompressed rows written by
// older builds stay readable.
type record struct {
	Name     string `json:"name"`
	Content  []byte `json:"content"`
	Encoding string `json:"encoding,omitempty"`
}

type codec struct {
	min int
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCodec(compressMin int) (*codec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &codec{min: compressMin, enc: enc, dec: dec}, nil
}

func (c *codec) encode(e types.Entry) ([]byte, error) {
	rec := record{Name: e.Name, Content: e.Content}
	if c.min > 0 && len(e.Content) >= c.min {
		rec.Content = c.enc.EncodeAll(e.Content, nil)
		rec.Encoding = encodingZstd
	}
	return sonic.Marshal(rec)
}

func (c *codec) decode(data []byte) (types.Entry, error) {
	var rec record
	if err := sonic.Unmarshal(data, &rec); err != nil {
		return types.Entry{}, fmt.Errorf("decode record: %w", err)
	}

	content := rec.Content
	if rec.Encoding == encodingZstd {
		out, err := c.dec.DecodeAll(rec.Content, nil)
		if err != nil {
			return types.Entry{}, fmt.Errorf("decompress record: %w", err)
		}
		content = out
	}
	return types.Entry{Name: rec.Name, Content: content}, nil
}
