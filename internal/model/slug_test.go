package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Test Company", "test-company"},
		{"diacritics", "Café Münster", "cafe-munster"},
		{"punctuation", "Acme, Inc. (EU)", "acme-inc-eu"},
		{"digits", "42 Robotics", "42-robotics"},
		{"collapsed separators", "a  --  b", "a-b"},
		{"trailing junk", "Acme!!!", "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyUnderscore(t *testing.T) {
	assert.Equal(t, "acme_ai", SlugifyUnderscore("Acme AI"))
	assert.Equal(t, "cafe_munster", SlugifyUnderscore("Café Münster"))
}
