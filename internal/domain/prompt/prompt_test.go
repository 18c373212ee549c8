package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sample = "Lang: {{lang}} Tone: {{tone}} {{extra_instructions}}."

func TestBuild_EmptyExtraCollapses(t *testing.T) {
	assert.Equal(t, "Lang: en Tone: Funny .", New(sample).Build("en", "Funny", ""))
}

func TestBuild_ExtraWrapped(t *testing.T) {
	out := New(sample).Build("en", "Funny", "make it spicy")
	assert.Contains(t, out, "Additional instructions: make it spicy")
	assert.Equal(t, "Lang: en Tone: Funny Additional instructions: make it spicy.", out)
}

func TestBuild_Idempotent(t *testing.T) {
	tmpl := New(sample)
	inputs := [][3]string{
		{"en", "Funny", ""},
		{"中文", "Poetic", "short please"},
		{"", "", "   "},
	}
	for _, in := range inputs {
		assert.Equal(t, tmpl.Build(in[0], in[1], in[2]), tmpl.Build(in[0], in[1], in[2]))
	}
	assert.Equal(t, sample, tmpl.String(), "template must not change")
}

func TestBuild_FirstOccurrenceOnly(t *testing.T) {
	tmpl := New("{{lang}} and {{lang}} / {{tone}}")
	assert.Equal(t, "fr and {{lang}} / Witty", tmpl.Build("fr", "Witty", ""))
	assert.Equal(t, []string{PlaceholderLang}, tmpl.Repeated())
	assert.Equal(t, []string{PlaceholderExtra}, tmpl.Missing())
}

func TestExtraInstructions(t *testing.T) {
	assert.Equal(t, "", ExtraInstructions(""))
	assert.Equal(t, "Additional instructions: x", ExtraInstructions("x  "))
	assert.Equal(t, "Additional instructions:", ExtraInstructions("   "))
}

func TestFallback(t *testing.T) {
	tmpl := Fallback()
	assert.False(t, tmpl.Empty())
	assert.Empty(t, tmpl.Missing())
	assert.Empty(t, tmpl.Repeated())
	assert.Contains(t, tmpl.Build("ja", "Professional", ""), "Language: ja. Tone: Professional. .")
	assert.True(t, New("").Empty())
}
