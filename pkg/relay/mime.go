package relay

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Media types understood by the built-in codecs
const (
	ApplicationJSON        = "application/json"
	ApplicationJavascript  = "application/javascript"
	ApplicationXML         = "application/xml"
	TextXML                = "text/xml"
	ApplicationForm        = "application/x-www-form-urlencoded"
	ApplicationMsgpack     = "application/msgpack"
	ApplicationXMsgpack    = "application/x-msgpack"
	ApplicationProtobuf    = "application/protobuf"
	ApplicationXProtobuf   = "application/x-protobuf"
	ApplicationYAML        = "application/yaml"
	ApplicationXYAML       = "application/x-yaml"
	TextYAML               = "text/yaml"
	TextHTML               = "text/html"
	TextPlain              = "text/plain"
	ApplicationOctetStream = "application/octet-stream"
)

// Header names used by generated clients
const (
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderRequestID     = "X-Request-Id"
)

// MediaType is a parsed Content-Type value
type MediaType struct {
	Type    string            // lower-case top-level type, e.g. "application"
	Subtype string            // lower-case subtype including any suffix, e.g. "problem+json"
	Params  map[string]string // parameter names are lower-case
}

// ParseMediaType parses a Content-Type value such as "application/json; charset=utf-8"
func ParseMediaType(s string) (MediaType, error) {
	full, params, err := mime.ParseMediaType(s)
	if err != nil {
		return MediaType{}, err
	}
	typ, subtype, ok := strings.Cut(full, "/")
	if !ok || subtype == "" {
		return MediaType{}, fmt.Errorf("mime: missing subtype in %q", s)
	}
	return MediaType{Type: typ, Subtype: subtype, Params: params}, nil
}

// Essence returns type/subtype without parameters
func (m MediaType) Essence() string {
	return m.Type + "/" + m.Subtype
}

// Suffix returns the structured syntax suffix, "json" for "problem+json"
func (m MediaType) Suffix() string {
	if i := strings.LastIndexByte(m.Subtype, '+'); i >= 0 {
		return m.Subtype[i+1:]
	}
	return ""
}

// Charset returns the charset parameter, or "" when absent
func (m MediaType) Charset() string {
	return m.Params["charset"]
}

// String renders the media type with its charset, the only parameter codecs care about
func (m MediaType) String() string {
	if cs := m.Charset(); cs != "" {
		return mime.FormatMediaType(m.Essence(), map[string]string{"charset": cs})
	}
	return m.Essence()
}

// MimeMatcher decides whether an actual Content-Type satisfies the expected one
type MimeMatcher func(expected, actual string) bool

// DefaultMimeMatcher compares type and subtype (suffix included)
// case-insensitively, with "*" matching anything on the expected side. The
// charset is compared only when both sides carry one; other parameters are
// ignored.
func DefaultMimeMatcher(expected, actual string) bool {
	e, err := ParseMediaType(expected)
	if err != nil {
		return false
	}
	a, err := ParseMediaType(actual)
	if err != nil {
		return false
	}

	if e.Type != "*" && e.Type != a.Type {
		return false
	}
	if e.Subtype != "*" && e.Subtype != a.Subtype {
		return false
	}

	ec, ac := e.Charset(), a.Charset()
	if ec == "" || ac == "" {
		return true
	}
	return sameCharset(ec, ac)
}

// sameCharset compares charset labels, treating aliases such as "utf8" and
// "UTF-8" as equal.
func sameCharset(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	ea, err := htmlindex.Get(a)
	if err != nil {
		return false
	}
	eb, err := htmlindex.Get(b)
	if err != nil {
		return false
	}
	na, _ := htmlindex.Name(ea)
	nb, _ := htmlindex.Name(eb)
	return na != "" && na == nb
}
