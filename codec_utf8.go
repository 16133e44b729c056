package sourcechain

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf8Codec decodes a byte stream as UTF-8, buffering a trailing partial
// rune across calls the way a chunked reader (factory.go's FromReader, or
// ByLine) delivers bytes that don't end on a character boundary. Encode
// is close to identity since the wire format already is UTF-8; it still
// runs through the x/text UTF-8 encoder. In both directions ill-formed
// byte sequences are replaced with U+FFFD rather than rejected.
type utf8Codec struct {
	dec     transform.Transformer
	enc     transform.Transformer
	residue []byte
}

func newUTF8Codec() *utf8Codec {
	return &utf8Codec{
		dec: unicode.UTF8.NewDecoder(),
		enc: unicode.UTF8.NewEncoder(),
	}
}

// Encode runs s through the UTF-8 encoder transformer and returns the
// resulting bytes, with any ill-formed sequence replaced by U+FFFD.
func (c *utf8Codec) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		if b, ok := v.([]byte); ok {
			s = string(b)
		} else {
			return nil, ErrInvalidArgument
		}
	}
	out, _, err := transform.Bytes(c.enc, []byte(s))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decode appends data to any buffered residue from a previous call, then
// decodes as much as forms complete runes. The undecoded tail (a
// multi-byte sequence cut mid-character) is kept as the new residue and
// folded into the next call; consumed is len(data) minus the bytes now
// held back as residue, floored at zero, so it is 0 when data only
// extends a partial rune.
func (c *utf8Codec) Decode(data []byte) (any, int, bool, error) {
	src := append(c.residue, data...) //nolint:gocritic // residue is owned by this codec instance
	if len(src) == 0 {
		return "", 0, false, nil
	}

	dst := make([]byte, len(src)*3+4)
	nDst, nSrc, err := c.dec.Transform(dst, src, false)
	if err != nil && err != transform.ErrShortSrc {
		return nil, 0, false, err
	}

	remaining := len(src) - nSrc
	c.residue = append(c.residue[:0], src[nSrc:]...)
	consumed := len(data) - remaining
	if consumed < 0 {
		consumed = 0
	}

	if nDst == 0 {
		return "", consumed, false, nil
	}
	return string(dst[:nDst]), consumed, true, nil
}
