package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  plain text  ", "plain text"},
		{"<b>bold</b> move", "bold move"},
		{"<script>alert(1)</script>Hello", "Hello"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"Tom &amp; Jerry's", "Tom & Jerry's"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Hello", "Hello"},
		{"&lt;b onclick=&quot;x()&quot;&gt;hi&lt;/b&gt;", "hi"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), tt.in)
	}
}
