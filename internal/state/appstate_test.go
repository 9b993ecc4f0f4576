package state

import (
	"testing"

	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestAppStateDefaults(t *testing.T) {
	test.NewTempApp(t)
	s := NewAppState()

	assert.Equal(t, ModelFlash, s.Model())
	assert.Equal(t, "#000000", s.InkColor())
	assert.Equal(t, DefaultPrompt, s.Prompt())
	assert.Equal(t, FormatMarkdown, s.ResponseFormat())
	assert.False(t, s.PromptVisible())
	assert.False(t, s.Generating())
	assert.Empty(t, s.Response())
	assert.Equal(t, Hover{Kind: HoverNone}, s.Hover())
	assert.Nil(t, s.Surface())
}

func TestAppStateSetters(t *testing.T) {
	test.NewTempApp(t)
	s := NewAppState()

	s.SetModel(ModelPro)
	s.SetInkColor("#ff0000")
	s.SetPrompt("describe")
	s.SetPromptVisible(true)
	s.SetResponse("A red line.")
	s.SetResponseFormat(FormatRaw)
	s.SetGenerating(true)

	assert.Equal(t, ModelPro, s.Model())
	assert.Equal(t, "#ff0000", s.InkColor())
	assert.Equal(t, "describe", s.Prompt())
	assert.True(t, s.PromptVisible())
	assert.Equal(t, "A red line.", s.Response())
	assert.Equal(t, FormatRaw, s.ResponseFormat())
	assert.True(t, s.Generating())

	v, err := s.ResponseBinding().Get()
	assert.NoError(t, err)
	assert.Equal(t, "A red line.", v)
}

func TestAppStateHover(t *testing.T) {
	test.NewTempApp(t)
	s := NewAppState()

	s.SetHover(Hover{Kind: HoverInside})
	assert.Equal(t, Hover{Kind: HoverInside}, s.Hover())

	s.SetHover(Hover{Kind: HoverRegion, Region: "bb-3"})
	assert.Equal(t, Hover{Kind: HoverRegion, Region: "bb-3"}, s.Hover())

	s.SetHover(Hover{Kind: HoverInside, Region: "ignored"})
	assert.Equal(t, Hover{Kind: HoverInside}, s.Hover())

	s.SetHover(Hover{Kind: HoverNone})
	assert.Equal(t, Hover{Kind: HoverNone}, s.Hover())
}

func TestAppStateHoverListenersSeeWholeUpdates(t *testing.T) {
	test.NewTempApp(t)
	s := NewAppState()

	var seen []Hover
	s.HoverBinding().AddListener(binding.NewDataListener(func() {
		seen = append(seen, s.Hover())
	}))

	steps := []Hover{
		{Kind: HoverInside},
		{Kind: HoverRegion, Region: "bb-1"},
		{Kind: HoverNone},
		{Kind: HoverRegion, Region: "bb-2"},
		{Kind: HoverInside},
	}
	for _, h := range steps {
		s.SetHover(h)
	}
	s.SetHover(Hover{Kind: HoverInside, Region: "bb-9"})

	assert.Equal(t, append([]Hover{{Kind: HoverNone}}, steps...), seen,
		"one notification per change, never a half-applied hover")
}
