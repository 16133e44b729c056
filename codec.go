package sourcechain

import (
	"encoding/base64"

	json "github.com/goccy/go-json"
)

// Codec converts between a byte representation and a decoded value for one
// named kind ("utf8", "json", "base64", ...). encode_<kind>/decode_<kind>
// in the source material become CodecFactory-registered Encode/Decode
// pairs here; §6's "additional kinds discovered by method lookup" becomes
// registering a CodecFactory against Engine rather than reflecting over
// method names, which has no idiomatic Go analogue.
type Codec interface {
	// Encode renders v as bytes for this codec's kind.
	Encode(v any) ([]byte, error)
	// Decode consumes as much of data as forms a complete value and
	// returns the decoded value, the number of bytes consumed, and
	// whether a complete value was available. Streaming codecs (utf8)
	// return ok=false and consumed=0 when data holds only a partial
	// unit; ByLine/ChunkSize-style operators loop, buffering remainder
	// until ok is true.
	Decode(data []byte) (value any, consumed int, ok bool, err error)
}

// CodecFactory builds a fresh Codec instance. Codecs that carry decode
// state (utf8's residue buffer) must not be shared across sources, so the
// registry stores factories, not instances.
type CodecFactory func() Codec

// RegisterEncoder and RegisterDecoder install a named codec factory on an
// Engine, overriding any built-in of the same name.
func (e *Engine) RegisterEncoder(kind string, factory CodecFactory) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.encoders[kind] = factory
}

func (e *Engine) RegisterDecoder(kind string, factory CodecFactory) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.decoders[kind] = factory
}

func (e *Engine) encoder(kind string) (Codec, error) {
	e.mu.RLock()
	factory, ok := e.encoders[kind]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownCodec
	}
	return factory(), nil
}

func (e *Engine) decoder(kind string) (Codec, error) {
	e.mu.RLock()
	factory, ok := e.decoders[kind]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownCodec
	}
	return factory(), nil
}

func registerBuiltinCodecs(e *Engine) {
	e.encoders["json"] = func() Codec { return jsonCodec{} }
	e.decoders["json"] = func() Codec { return jsonCodec{} }

	e.encoders["base64"] = func() Codec { return base64Codec{} }
	e.decoders["base64"] = func() Codec { return base64Codec{} }

	e.encoders["utf8"] = func() Codec { return newUTF8Codec() }
	e.decoders["utf8"] = func() Codec { return newUTF8Codec() }
}

// jsonCodec marshals/unmarshals whole values with goccy/go-json, a
// drop-in, allocation-lighter substitute for encoding/json. Decode always
// consumes the entire buffer: JSON values aren't framed, so partial-input
// buffering is the caller's responsibility (see ByLine for the framed
// text case).
type jsonCodec struct{}

func (jsonCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Decode(data []byte) (any, int, bool, error) {
	if len(data) == 0 {
		return nil, 0, false, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, 0, false, err
	}
	return v, len(data), true, nil
}

// base64Codec has no ecosystem alternative in the retrieved pack, so it
// is built directly on the standard library's encoding/base64 (see
// DESIGN.md).
type base64Codec struct{}

func (base64Codec) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		if s, ok := v.(string); ok {
			b = []byte(s)
		} else {
			return nil, ErrInvalidArgument
		}
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out, nil
}

func (base64Codec) Decode(data []byte) (any, int, bool, error) {
	if len(data) == 0 {
		return nil, 0, false, nil
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(out, data)
	if err != nil {
		return nil, 0, false, err
	}
	return out[:n], len(data), true, nil
}
