package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.57:4242":          "203.0.113.0",
		"198.51.100.7":               "198.51.100.0",
		"127.0.0.1:8080":             "127.0.0.1",
		"[2001:db8:85a3:8d3::1]:443": "2001:db8:85a3:8d3::",
		"not-an-ip":                  "unknown_ip",
	}

	for in, want := range cases {
		assert.Equal(t, want, anonymizeIP(in), in)
	}
}
