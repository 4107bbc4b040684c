package relay

import (
	"math/big"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type color int

func (c color) String() string { return [...]string{"red", "green"}[c] }

func TestFormatValue(t *testing.T) {
	name := "ann"
	var nilName *string
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	link := &url.URL{Scheme: "https", Host: "example.com", Path: "/x"}
	var nilLink *url.URL

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "a b/c", "a b/c"},
		{"bytes", []byte("raw"), "raw"},
		{"bool", true, "true"},
		{"int", -42, "-42"},
		{"int8", int8(8), "8"},
		{"int64", int64(1) << 40, "1099511627776"},
		{"uint16", uint16(16), "16"},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"float32", float32(1.5), "1.5"},
		{"float64", 0.1, "0.1"},
		{"time", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), "2024-05-01T12:00:00Z"},
		{"text marshaler", net.IPv4(10, 0, 0, 1), "10.0.0.1"},
		{"uuid", id, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"stringer", color(1), "green"},
		{"pointer", &name, "ann"},
		{"nil pointer", nilName, ""},
		{"pointer stringer", link, "https://example.com/x"},
		{"pointer text marshaler", big.NewInt(42), "42"},
		{"nil pointer stringer", nilLink, ""},
		{"time pointer", &when, "2024-05-01T12:00:00Z"},
		{"fallback", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}
