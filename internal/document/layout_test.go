package document

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// titleStyle fits 10 characters per line and 2 lines per 100x46 frame.
var titleStyle = Style{
	Font:        "Comic Sans MS Regular",
	Size:        20,
	Alignment:   AlignCenter,
	LineSpacing: 23,
	LineMode:    LineSpacingFixed,
}

func newTitleLayout(t *testing.T) *Layout {
	t.Helper()
	l, err := NewLayout(Spec{
		Name:     "titles",
		Fonts:    []string{"Comic Sans MS Regular", "Arial Regular"},
		Defaults: titleStyle,
		Frames: []Frame{
			{Name: "TitleFrame", Width: 100, Height: 46, Next: "TitleFrame2"},
			{Name: "TitleFrame2", Width: 100, Height: 46},
			{Name: "Caption", Width: 200, Height: 20},
		},
	})
	require.NoError(t, err)
	return l
}

func TestNewLayout_Validation(t *testing.T) {
	tests := []struct {
		name   string
		frames []Frame
	}{
		{"unnamed frame", []Frame{{Width: 1, Height: 1}}},
		{"duplicate name", []Frame{{Name: "A", Width: 1, Height: 1}, {Name: "A", Width: 1, Height: 1}}},
		{"zero width", []Frame{{Name: "A", Height: 1}}},
		{"unknown next", []Frame{{Name: "A", Width: 1, Height: 1, Next: "B"}}},
		{"two predecessors", []Frame{
			{Name: "A", Width: 1, Height: 1, Next: "C"},
			{Name: "B", Width: 1, Height: 1, Next: "C"},
			{Name: "C", Width: 1, Height: 1},
		}},
		{"cycle", []Frame{
			{Name: "A", Width: 1, Height: 1, Next: "B"},
			{Name: "B", Width: 1, Height: 1, Next: "A"},
		}},
		{"self link", []Frame{{Name: "A", Width: 1, Height: 1, Next: "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(Spec{Frames: tt.frames})
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestLayout_ChainSharesStory(t *testing.T) {
	l := newTitleLayout(t)

	require.NoError(t, l.InsertText("TitleFrame2", "Title A\nTitle B", 0))

	text, err := l.Text("TitleFrame")
	require.NoError(t, err)
	assert.Equal(t, "Title A\nTitle B", text)

	n, err := l.TextLength("TitleFrame")
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	caption, err := l.TextLength("Caption")
	require.NoError(t, err)
	assert.Zero(t, caption)

	chains, err := l.Chains()
	require.NoError(t, err)
	require.Len(t, chains, 2)
	assert.Equal(t, []string{"TitleFrame", "TitleFrame2"}, chains[0].Frames)
	assert.Equal(t, 15, chains[0].TextLength)
	assert.Equal(t, "Caption", chains[1].Head)
}

func TestLayout_InsertAndDelete(t *testing.T) {
	l := newTitleLayout(t)

	require.NoError(t, l.InsertText("TitleFrame", "héllo", 0))
	require.NoError(t, l.InsertText("TitleFrame", " wörld", 5))
	require.NoError(t, l.InsertText("TitleFrame", ">", 0))

	text, err := l.Text("TitleFrame")
	require.NoError(t, err)
	assert.Equal(t, ">héllo wörld", text)

	n, err := l.TextLength("TitleFrame")
	require.NoError(t, err)
	assert.Equal(t, 12, n, "length counts characters, not bytes")

	err = l.InsertText("TitleFrame", "x", 13)
	assert.ErrorIs(t, err, ErrInvalidRange)
	err = l.InsertText("TitleFrame", "x", -1)
	assert.ErrorIs(t, err, ErrInvalidRange)

	require.NoError(t, l.DeleteText("TitleFrame2"))
	n, err = l.TextLength("TitleFrame")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLayout_Styling(t *testing.T) {
	l := newTitleLayout(t)
	require.NoError(t, l.InsertText("TitleFrame", "abcdef", 0))

	require.NoError(t, l.SetFont("TitleFrame", Range{Start: 2, Length: 2}, "Arial Regular"))
	require.NoError(t, l.SetFontSize("TitleFrame", All(6), 14))
	require.NoError(t, l.SetAlignment("TitleFrame", All(6), AlignRight))
	require.NoError(t, l.SetLineSpacingMode("TitleFrame", All(6), LineSpacingAutomatic))
	require.NoError(t, l.SetLineSpacing("TitleFrame", All(6), 30))

	first, err := l.StyleAt("TitleFrame", 0)
	require.NoError(t, err)
	assert.Equal(t, Style{Font: "Comic Sans MS Regular", Size: 14, Alignment: AlignRight, LineSpacing: 30, LineMode: LineSpacingAutomatic}, first)

	third, err := l.StyleAt("TitleFrame", 2)
	require.NoError(t, err)
	assert.Equal(t, "Arial Regular", third.Font)

	// Inserted text inherits the style before the offset.
	require.NoError(t, l.InsertText("TitleFrame", "Z", 3))
	inserted, err := l.StyleAt("TitleFrame", 3)
	require.NoError(t, err)
	assert.Equal(t, "Arial Regular", inserted.Font)
}

func TestLayout_StylingErrors(t *testing.T) {
	l := newTitleLayout(t)
	require.NoError(t, l.InsertText("TitleFrame", "abc", 0))

	err := l.SetFont("TitleFrame", All(3), "Comic Sans")
	assert.ErrorIs(t, err, ErrFontNotFound)

	err = l.SetFontSize("TitleFrame", Range{Start: 1, Length: 3}, 10)
	assert.ErrorIs(t, err, ErrInvalidRange)

	err = l.SetFontSize("TitleFrame", All(3), 0)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	err = l.SetAlignment("TitleFrame", All(3), Alignment(7))
	assert.Error(t, err)

	err = l.SetLineSpacing("Missing", All(0), 10)
	assert.ErrorIs(t, err, ErrFrameNotFound)
}

func TestLayout_AnyFontWithoutFontList(t *testing.T) {
	l, err := NewLayout(Spec{Frames: []Frame{{Name: "A", Width: 10, Height: 10}}})
	require.NoError(t, err)
	require.NoError(t, l.InsertText("A", "x", 0))
	assert.NoError(t, l.SetFont("A", All(1), "Anything Goes"))
}

func TestLayout_TextOverflows(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty story", "", false},
		{"two short lines", "Title A\nTitle B", false},
		{"exactly four lines", "one\ntwo\nthree\nfour", false},
		{"five lines", "one\ntwo\nthree\nfour\nfive", true},
		{"wrapped words", "alpha beta gamma\nalpha beta gamma", false},
		{"wrapped words overflow", "alpha beta gamma\nalpha beta gamma\nx", true},
		{"long word breaks hard", strings.Repeat("x", 40), false},
		{"long word overflows", strings.Repeat("x", 41), true},
		{"empty paragraphs take lines", "\n\n\n\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTitleLayout(t)
			require.NoError(t, l.InsertText("TitleFrame", tt.text, 0))

			got, err := l.TextOverflows("TitleFrame2")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayout_AutomaticLineSpacing(t *testing.T) {
	l := newTitleLayout(t)
	require.NoError(t, l.InsertText("TitleFrame", "one\ntwo", 0))

	over, err := l.TextOverflows("TitleFrame")
	require.NoError(t, err)
	assert.False(t, over)

	// 20pt * 1.2 = 24pt lines leave room for one line per 46pt frame.
	require.NoError(t, l.SetLineSpacingMode("TitleFrame", All(7), LineSpacingAutomatic))
	over, err = l.TextOverflows("TitleFrame")
	require.NoError(t, err)
	assert.False(t, over)

	require.NoError(t, l.InsertText("TitleFrame", "\nthree", 7))
	over, err = l.TextOverflows("TitleFrame")
	require.NoError(t, err)
	assert.True(t, over)
}

func TestLayout_Closed(t *testing.T) {
	l := newTitleLayout(t)
	assert.True(t, l.HasDocument())

	l.Close()
	assert.False(t, l.HasDocument())
	assert.False(t, l.FrameExists("TitleFrame"))

	_, err := l.TextLength("TitleFrame")
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.ErrorIs(t, l.InsertText("TitleFrame", "x", 0), ErrNoDocument)

	var nilLayout *Layout
	assert.False(t, nilLayout.HasDocument())
}

func TestLayout_SaveAndLoad(t *testing.T) {
	l := newTitleLayout(t)
	require.NoError(t, l.InsertText("TitleFrame", "Title A\nTitle B", 0))
	require.NoError(t, l.SetFont("TitleFrame", Range{Start: 8, Length: 7}, "Arial Regular"))

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, l.Save(path))

	loaded, err := LoadLayout(path)
	require.NoError(t, err)

	text, err := loaded.Text("TitleFrame2")
	require.NoError(t, err)
	assert.Equal(t, "Title A\nTitle B", text)

	first, err := loaded.StyleAt("TitleFrame", 0)
	require.NoError(t, err)
	assert.Equal(t, titleStyle, first)

	last, err := loaded.StyleAt("TitleFrame", 14)
	require.NoError(t, err)
	assert.Equal(t, "Arial Regular", last.Font)
	assert.Equal(t, AlignCenter, last.Alignment)

	want, err := l.Chains()
	require.NoError(t, err)
	got, err := loaded.Chains()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseLayout(t *testing.T) {
	data := []byte(`
name: flyer
fonts: ["Comic Sans MS Regular"]
defaults:
  font: Comic Sans MS Regular
  size: 20
  alignment: center
  line_spacing: 23
  line_mode: fixed
frames:
  - name: TitleFrame
    width: 100
    height: 46
    next: TitleFrame2
    story:
      text: "Hello"
  - name: TitleFrame2
    width: 100
    height: 46
`)
	l, err := ParseLayout(data)
	require.NoError(t, err)
	assert.Equal(t, "flyer", l.Name())
	assert.Equal(t, titleStyle, l.Defaults())

	text, err := l.Text("TitleFrame2")
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)

	_, err = ParseLayout([]byte(`
frames:
  - name: A
    width: 10
    height: 10
    next: B
  - name: B
    width: 10
    height: 10
    story:
      text: misplaced
`))
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = ParseLayout([]byte("frames: ["))
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		in   string
		want Alignment
	}{
		{"left", AlignLeft},
		{"1", AlignCenter},
		{"Center", AlignCenter},
		{"right", AlignRight},
		{"justify", AlignBlock},
		{"3", AlignBlock},
	}
	for _, tt := range tests {
		got, err := ParseAlignment(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAlignment("diagonal")
	assert.Error(t, err)
}

func TestParseLineSpacingMode(t *testing.T) {
	m, err := ParseLineSpacingMode("auto")
	require.NoError(t, err)
	assert.Equal(t, LineSpacingAutomatic, m)

	m, err = ParseLineSpacingMode("0")
	require.NoError(t, err)
	assert.Equal(t, LineSpacingFixed, m)

	_, err = ParseLineSpacingMode("double")
	assert.Error(t, err)
}
