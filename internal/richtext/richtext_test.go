package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "plain body", "plain body"},
		{"comparison operators", "if x<y and y>z then ok", "if x<y and y>z then ok"},
		{"ampersand and double space", "Tom & Jerry  rock", "Tom & Jerry  rock"},
		{"unknown tag", "wrap it in <custom>tags</custom>", "wrap it in <custom>tags</custom>"},
		{"padding kept", "  spaced  ", "  spaced  "},
		{"paragraphs", "<p>Hello <b>world</b></p><p>again</p>", "Hello world\nagain"},
		{"line break", "line one<br>line two", "line one\nline two"},
		{"entities decoded", "Tom &amp; Jerry <em>rock</em>", "Tom & Jerry rock"},
		{"script dropped", "<script>alert(1)</script><div>visible</div>", "visible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}
