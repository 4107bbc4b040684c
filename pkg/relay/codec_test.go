package relay

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type item struct {
	Name  string `json:"name" xml:"name" yaml:"name" schema:"name" codec:"name"`
	Count int    `json:"count" xml:"count" yaml:"count" schema:"count" codec:"count"`
}

func TestCodecsRoundTrip(t *testing.T) {
	codecs := DefaultCodecs()
	in := item{Name: "café", Count: 3}

	for _, ct := range []string{
		ApplicationJSON,
		"application/json; charset=iso-8859-1",
		ApplicationXML,
		"text/xml; charset=windows-1252",
		ApplicationForm,
		ApplicationMsgpack,
		ApplicationYAML,
		"application/vnd.api+json",
	} {
		t.Run(ct, func(t *testing.T) {
			data, err := codecs.Encode(ct, in)
			require.NoError(t, err)

			var out item
			require.NoError(t, codecs.Decode(ct, data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestJSONCodecTranscodesCharset(t *testing.T) {
	codecs := DefaultCodecs()

	data, err := codecs.Encode("application/json; charset=iso-8859-1", map[string]string{"v": "é"})
	require.NoError(t, err)
	assert.Equal(t, []byte("{\"v\":\"\xe9\"}"), data)

	var out map[string]string
	require.NoError(t, codecs.Decode("application/json; charset=iso-8859-1", data, &out))
	assert.Equal(t, "é", out["v"])
}

func TestXMLCodecHonoursDocumentEncoding(t *testing.T) {
	doc := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><item><name>caf\xe9</name><count>1</count></item>")

	var out item
	require.NoError(t, DefaultCodecs().Decode(ApplicationXML, doc, &out))
	assert.Equal(t, item{Name: "café", Count: 1}, out)
}

func TestFormCodec(t *testing.T) {
	codecs := DefaultCodecs()

	data, err := codecs.Encode(ApplicationForm, url.Values{"b": {"2"}, "a": {"1", "x"}})
	require.NoError(t, err)
	assert.Equal(t, "a=1&a=x&b=2", string(data))

	var values url.Values
	require.NoError(t, codecs.Decode(ApplicationForm, []byte("name=z&extra=1"), &values))
	assert.Equal(t, "1", values.Get("extra"))

	var out *item
	require.NoError(t, codecs.Decode(ApplicationForm, []byte("name=z&count=4&extra=1"), &out))
	assert.Equal(t, &item{Name: "z", Count: 4}, out)
}

func TestProtobufCodec(t *testing.T) {
	codecs := DefaultCodecs()

	data, err := codecs.Encode(ApplicationProtobuf, wrapperspb.String("hello"))
	require.NoError(t, err)

	var out *wrapperspb.StringValue
	require.NoError(t, codecs.Decode(ApplicationXProtobuf, data, &out))
	assert.True(t, proto.Equal(wrapperspb.String("hello"), out))

	into := &wrapperspb.StringValue{}
	require.NoError(t, codecs.Decode(ApplicationProtobuf, data, into))
	assert.Equal(t, "hello", into.GetValue())

	_, err = codecs.Encode(ApplicationProtobuf, item{})
	assert.Error(t, err)
	assert.Error(t, codecs.Decode(ApplicationProtobuf, data, &item{}))
}

func TestMsgpackCodecGenericMap(t *testing.T) {
	codecs := DefaultCodecs()

	data, err := codecs.Encode(ApplicationXMsgpack, map[string]any{"name": "x"})
	require.NoError(t, err)

	var out any
	require.NoError(t, codecs.Decode(ApplicationMsgpack, data, &out))
	assert.Equal(t, map[string]any{"name": "x"}, out)
}

func TestHTMLCodec(t *testing.T) {
	codecs := DefaultCodecs()
	page := []byte("<html><head><meta charset=\"iso-8859-1\"></head><body><p>caf\xe9</p></body></html>")

	var text string
	require.NoError(t, codecs.Decode(TextHTML, page, &text))
	assert.Contains(t, text, "<p>café</p>")

	var doc *html.Node
	require.NoError(t, codecs.Decode("text/html; charset=iso-8859-1", page, &doc))
	require.NotNil(t, doc)
	assert.Equal(t, html.DocumentNode, doc.Type)

	data, err := codecs.Encode(TextHTML, doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<p>café</p>")

	assert.Error(t, codecs.Decode(TextHTML, page, &item{}))
}

type level int

func (l *level) UnmarshalText(b []byte) error {
	*l = level(len(b))
	return nil
}

func TestTextAndOctetCodecs(t *testing.T) {
	codecs := DefaultCodecs()

	data, err := codecs.Encode("text/plain; charset=utf-16le", "hi")
	require.NoError(t, err)
	assert.Equal(t, []byte{'h', 0, 'i', 0}, data)

	var s string
	require.NoError(t, codecs.Decode("text/plain; charset=utf-16le", data, &s))
	assert.Equal(t, "hi", s)

	data, err = codecs.Encode(TextPlain, 42)
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	var l level
	require.NoError(t, codecs.Decode(TextPlain, []byte("four"), &l))
	assert.Equal(t, level(4), l)

	var raw []byte
	require.NoError(t, codecs.Decode(ApplicationOctetStream, []byte{1, 2}, &raw))
	assert.Equal(t, []byte{1, 2}, raw)

	_, err = codecs.Encode(ApplicationOctetStream, 1)
	assert.Error(t, err)
}

func TestCodecsLookup(t *testing.T) {
	codecs := DefaultCodecs()

	tests := []struct {
		contentType string
		want        Codec
	}{
		{"application/json", JSONCodec{}},
		{"APPLICATION/JSON; charset=utf-8", JSONCodec{}},
		{"application/problem+json", JSONCodec{}},
		{"text/vnd.custom+xml", XMLCodec{}},
		{"application/atom+xml", XMLCodec{}},
		{"text/yaml", YAMLCodec{}},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			codec, _, err := codecs.Lookup(tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codec)
		})
	}

	_, _, err := codecs.Lookup("image/png")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)

	_, _, err = codecs.Lookup("not a type")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)

	_, err = codecs.Encode("application/json; charset=klingon", item{})
	assert.ErrorContains(t, err, "unsupported charset")
}

func TestCodecsCloneIsIndependent(t *testing.T) {
	base := NewCodecs()
	base.Register(TextCodec{}, TextPlain)

	clone := base.Clone()
	clone.Register(OctetCodec{}, "Image/PNG")

	_, _, err := clone.Lookup("image/png")
	assert.NoError(t, err)
	_, _, err = base.Lookup("image/png")
	assert.Error(t, err)
	_, _, err = clone.Lookup(TextPlain)
	assert.NoError(t, err)
}
