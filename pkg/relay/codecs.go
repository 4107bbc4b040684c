package relay

import (
	"bytes"
	"encoding"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/gorilla/schema"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

// JSONCodec handles application/json and +json media types
type JSONCodec struct{}

func (JSONCodec) Encode(mt MediaType, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return fromUTF8(mt, data)
}

func (JSONCodec) Decode(mt MediaType, data []byte, v any) error {
	data, err := toUTF8(mt, data)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// XMLCodec handles application/xml and text/xml. Without a charset parameter
// the document's own encoding declaration is honoured.
type XMLCodec struct{}

func (XMLCodec) Encode(mt MediaType, v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return fromUTF8(mt, data)
}

func (XMLCodec) Decode(mt MediaType, data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	if mt.Charset() != "" {
		utf8, err := toUTF8(mt, data)
		if err != nil {
			return err
		}
		dec = xml.NewDecoder(bytes.NewReader(utf8))
		dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}
	}
	return dec.Decode(v)
}

// FormCodec handles application/x-www-form-urlencoded using gorilla/schema
// struct tags. url.Values and map[string][]string pass through untouched.
type FormCodec struct {
	encoder *schema.Encoder
	decoder *schema.Decoder
}

// NewFormCodec creates a form codec that ignores unknown keys when decoding
func NewFormCodec() *FormCodec {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &FormCodec{encoder: schema.NewEncoder(), decoder: decoder}
}

func (c *FormCodec) Encode(mt MediaType, v any) ([]byte, error) {
	var values url.Values
	switch t := v.(type) {
	case url.Values:
		values = t
	case map[string][]string:
		values = t
	default:
		values = url.Values{}
		if err := c.encoder.Encode(v, values); err != nil {
			return nil, err
		}
	}
	return fromUTF8(mt, []byte(values.Encode()))
}

func (c *FormCodec) Decode(mt MediaType, data []byte, v any) error {
	data, err := toUTF8(mt, data)
	if err != nil {
		return err
	}
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case *url.Values:
		*t = values
		return nil
	case *map[string][]string:
		*t = values
		return nil
	}
	return c.decoder.Decode(allocate(v), values)
}

// ProtobufCodec handles application/protobuf for proto.Message values
type ProtobufCodec struct{}

func (ProtobufCodec) Encode(_ MediaType, v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("protobuf: %T is not a proto.Message", v)
	}
	return proto.Marshal(m)
}

func (ProtobufCodec) Decode(_ MediaType, data []byte, v any) error {
	m, ok := allocate(v).(proto.Message)
	if !ok {
		return fmt.Errorf("protobuf: %T is not a proto.Message", v)
	}
	return proto.Unmarshal(data, m)
}

// YAMLCodec handles application/yaml and friends
type YAMLCodec struct{}

func (YAMLCodec) Encode(mt MediaType, v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return fromUTF8(mt, data)
}

func (YAMLCodec) Decode(mt MediaType, data []byte, v any) error {
	data, err := toUTF8(mt, data)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

// HTMLCodec handles text/html. Bodies decode into *html.Node, string or
// []byte; the charset is sniffed from the Content-Type and the document.
type HTMLCodec struct{}

func (HTMLCodec) Encode(mt MediaType, v any) ([]byte, error) {
	var buf bytes.Buffer
	switch t := v.(type) {
	case *html.Node:
		if err := html.Render(&buf, t); err != nil {
			return nil, err
		}
	case string:
		buf.WriteString(t)
	case []byte:
		buf.Write(t)
	default:
		return nil, fmt.Errorf("html: cannot encode %T", v)
	}
	return fromUTF8(mt, buf.Bytes())
}

func (HTMLCodec) Decode(mt MediaType, data []byte, v any) error {
	r, err := charset.NewReader(bytes.NewReader(data), mt.String())
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case **html.Node:
		doc, err := html.Parse(r)
		if err != nil {
			return err
		}
		*t = doc
		return nil
	case *string:
		b, err := io.ReadAll(r)
		*t = string(b)
		return err
	case *[]byte:
		b, err := io.ReadAll(r)
		*t = b
		return err
	default:
		return fmt.Errorf("html: cannot decode into %T", v)
	}
}

// TextCodec handles text/plain for strings, byte slices and text (un)marshalers
type TextCodec struct{}

func (TextCodec) Encode(mt MediaType, v any) ([]byte, error) {
	var data []byte
	switch t := v.(type) {
	case string:
		data = []byte(t)
	case []byte:
		data = t
	case encoding.TextMarshaler:
		b, err := t.MarshalText()
		if err != nil {
			return nil, err
		}
		data = b
	default:
		data = []byte(FormatValue(v))
	}
	return fromUTF8(mt, data)
}

func (TextCodec) Decode(mt MediaType, data []byte, v any) error {
	data, err := toUTF8(mt, data)
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case *string:
		*t = string(data)
	case *[]byte:
		*t = data
	case encoding.TextUnmarshaler:
		return t.UnmarshalText(data)
	default:
		if u, ok := allocate(v).(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText(data)
		}
		return fmt.Errorf("text: cannot decode into %T", v)
	}
	return nil
}

// OctetCodec handles application/octet-stream as raw bytes
type OctetCodec struct{}

func (OctetCodec) Encode(_ MediaType, v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	case io.Reader:
		return io.ReadAll(t)
	default:
		return nil, fmt.Errorf("octet-stream: cannot encode %T", v)
	}
}

func (OctetCodec) Decode(_ MediaType, data []byte, v any) error {
	switch t := v.(type) {
	case *[]byte:
		*t = data
	case *string:
		*t = string(data)
	default:
		return fmt.Errorf("octet-stream: cannot decode into %T", v)
	}
	return nil
}

// allocate turns a **T whose *T is nil into a fresh *T so libraries that need
// a pointer to a value can fill it. Any other v is returned unchanged.
func allocate(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return v
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Pointer {
		return v
	}
	if elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}
	return elem.Interface()
}
