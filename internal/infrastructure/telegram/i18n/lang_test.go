package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLang(t *testing.T) {
	tests := []struct {
		code string
		want Lang
	}{
		{"", RU},
		{"ru", RU},
		{"en", EN},
		{"en-US", EN},
		{"uk", RU},
		{"de", RU},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLang(tt.code), "language code %q", tt.code)
	}
}

func TestParseLang(t *testing.T) {
	assert.Equal(t, EN, ParseLang("en"))
	assert.Equal(t, RU, ParseLang("ru"))
	assert.Equal(t, RU, ParseLang(""))
	assert.Equal(t, RU, ParseLang("fr"))
}
