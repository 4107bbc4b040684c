package relay

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Codec converts between Go values and one family of media types. The parsed
// media type is passed so codecs can honour parameters such as charset.
type Codec interface {
	Encode(mt MediaType, v any) ([]byte, error)
	Decode(mt MediaType, data []byte, v any) error
}

// Codecs is a registry of codecs keyed by media type essence. Lookups fall
// back from "type/prefix+suffix" to "application/suffix", so
// application/problem+json is handled by the JSON codec.
type Codecs struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewCodecs creates an empty registry
func NewCodecs() *Codecs {
	return &Codecs{codecs: make(map[string]Codec)}
}

// DefaultCodecs returns a registry with every built-in codec
func DefaultCodecs() *Codecs {
	c := NewCodecs()
	c.Register(JSONCodec{}, ApplicationJSON, ApplicationJavascript)
	c.Register(XMLCodec{}, ApplicationXML, TextXML)
	c.Register(NewFormCodec(), ApplicationForm)
	c.Register(NewMsgpackCodec(), ApplicationMsgpack, ApplicationXMsgpack)
	c.Register(ProtobufCodec{}, ApplicationProtobuf, ApplicationXProtobuf)
	c.Register(YAMLCodec{}, ApplicationYAML, ApplicationXYAML, TextYAML)
	c.Register(HTMLCodec{}, TextHTML)
	c.Register(TextCodec{}, TextPlain)
	c.Register(OctetCodec{}, ApplicationOctetStream)
	return c
}

// Register binds codec to the given media types, replacing earlier bindings
func (c *Codecs) Register(codec Codec, mediaTypes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, mt := range mediaTypes {
		c.codecs[strings.ToLower(mt)] = codec
	}
}

// Clone returns an independent copy of the registry
func (c *Codecs) Clone() *Codecs {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := NewCodecs()
	for k, v := range c.codecs {
		clone.codecs[k] = v
	}
	return clone
}

// Lookup finds the codec for a Content-Type value
func (c *Codecs) Lookup(contentType string) (Codec, MediaType, error) {
	mt, err := ParseMediaType(contentType)
	if err != nil {
		return nil, MediaType{}, fmt.Errorf("%w: %q: %v", ErrUnsupportedContentType, contentType, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if codec, ok := c.codecs[mt.Essence()]; ok {
		return codec, mt, nil
	}
	if suffix := mt.Suffix(); suffix != "" {
		if codec, ok := c.codecs[mt.Type+"/"+suffix]; ok {
			return codec, mt, nil
		}
		if codec, ok := c.codecs["application/"+suffix]; ok {
			return codec, mt, nil
		}
	}
	return nil, mt, fmt.Errorf("%w: %s", ErrUnsupportedContentType, mt.Essence())
}

// Encode serializes v for the given Content-Type
func (c *Codecs) Encode(contentType string, v any) ([]byte, error) {
	codec, mt, err := c.Lookup(contentType)
	if err != nil {
		return nil, err
	}
	return codec.Encode(mt, v)
}

// Decode deserializes data of the given Content-Type into v
func (c *Codecs) Decode(contentType string, data []byte, v any) error {
	codec, mt, err := c.Lookup(contentType)
	if err != nil {
		return err
	}
	return codec.Decode(mt, data, v)
}

// charsetEncoding returns the encoding named by the media type's charset, or
// nil when the data is already UTF-8.
func charsetEncoding(mt MediaType) (encoding.Encoding, error) {
	cs := mt.Charset()
	if cs == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", cs, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// toUTF8 transcodes data received in mt's charset
func toUTF8(mt MediaType, data []byte) ([]byte, error) {
	enc, err := charsetEncoding(mt)
	if err != nil || enc == nil {
		return data, err
	}
	return enc.NewDecoder().Bytes(data)
}

// fromUTF8 transcodes UTF-8 data into mt's charset
func fromUTF8(mt MediaType, data []byte) ([]byte, error) {
	enc, err := charsetEncoding(mt)
	if err != nil || enc == nil {
		return data, err
	}
	return enc.NewEncoder().Bytes(data)
}
