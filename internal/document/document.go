// Package document defines the capabilities framefill needs from a page
// layout and provides Layout, an in-memory implementation with a simple
// text-flow engine.
//
// A layout is made of text frames. Frames may be linked into a chain with
// the Next field; a chain holds one story which flows from the first frame
// into the following ones. Any frame of a chain can be used to address the
// chain's story, mirroring how desktop publishing hosts behave.
package document

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoDocument is returned when no document is open.
	ErrNoDocument = errors.New("no document open")

	// ErrFrameNotFound is returned when a frame name does not exist.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrFontNotFound is returned when a font is not installed in the layout.
	ErrFontNotFound = errors.New("font not found")

	// ErrInvalidRange is returned for text ranges or offsets outside the story.
	ErrInvalidRange = errors.New("text range out of bounds")

	// ErrInvalidLayout is returned when frames or styles fail validation.
	ErrInvalidLayout = errors.New("invalid layout")
)

// Document is the set of host operations used to replace and format the
// text of a frame chain.
type Document interface {
	HasDocument() bool
	FrameExists(frame string) bool
	TextLength(frame string) (int, error)
	DeleteText(frame string) error
	InsertText(frame, text string, offset int) error
	SetFont(frame string, r Range, font string) error
	SetFontSize(frame string, r Range, size float64) error
	SetAlignment(frame string, r Range, a Alignment) error
	SetLineSpacingMode(frame string, r Range, m LineSpacingMode) error
	SetLineSpacing(frame string, r Range, spacing float64) error
	TextOverflows(frame string) (bool, error)
}

// Range addresses characters of a story, counted in runes.
type Range struct {
	Start  int
	Length int
}

// All returns the range covering n characters from the start.
func All(n int) Range {
	return Range{Start: 0, Length: n}
}

// Alignment is the paragraph alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignBlock
)

var alignmentNames = []string{"left", "center", "right", "block"}

func (a Alignment) String() string {
	if a < 0 || int(a) >= len(alignmentNames) {
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
	return alignmentNames[a]
}

// ParseAlignment accepts a name (left, center, right, block, justify) or the
// numeric host mode 0-3.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "0":
		return AlignLeft, nil
	case "center", "centre", "1":
		return AlignCenter, nil
	case "right", "2":
		return AlignRight, nil
	case "block", "justify", "justified", "3":
		return AlignBlock, nil
	}
	return 0, fmt.Errorf("unknown alignment %q", s)
}

func (a Alignment) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(alignmentNames) {
		return nil, fmt.Errorf("unknown alignment %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(b []byte) error {
	v, err := ParseAlignment(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// LineSpacingMode selects how line height is computed.
type LineSpacingMode int

const (
	// LineSpacingFixed uses the style's LineSpacing in points.
	LineSpacingFixed LineSpacingMode = iota
	// LineSpacingAutomatic derives line height from the font size.
	LineSpacingAutomatic
)

func (m LineSpacingMode) String() string {
	switch m {
	case LineSpacingFixed:
		return "fixed"
	case LineSpacingAutomatic:
		return "automatic"
	}
	return fmt.Sprintf("LineSpacingMode(%d)", int(m))
}

// ParseLineSpacingMode accepts fixed/automatic (or auto) and the host modes 0/1.
func ParseLineSpacingMode(s string) (LineSpacingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "0":
		return LineSpacingFixed, nil
	case "automatic", "auto", "1":
		return LineSpacingAutomatic, nil
	}
	return 0, fmt.Errorf("unknown line spacing mode %q", s)
}

func (m LineSpacingMode) MarshalText() ([]byte, error) {
	if m != LineSpacingFixed && m != LineSpacingAutomatic {
		return nil, fmt.Errorf("unknown line spacing mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *LineSpacingMode) UnmarshalText(b []byte) error {
	v, err := ParseLineSpacingMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Style holds the character and paragraph attributes of a run of text.
type Style struct {
	Font        string          `yaml:"font" json:"font"`
	Size        float64         `yaml:"size" json:"size"`
	Alignment   Alignment       `yaml:"alignment" json:"alignment"`
	LineSpacing float64         `yaml:"line_spacing" json:"lineSpacing"`
	LineMode    LineSpacingMode `yaml:"line_mode" json:"lineMode"`
}

// DefaultStyle is used for text that was never styled.
func DefaultStyle() Style {
	return Style{
		Font:        "Arial Regular",
		Size:        12,
		Alignment:   AlignLeft,
		LineSpacing: 15,
		LineMode:    LineSpacingFixed,
	}
}

// LineHeight returns the vertical space one line of this style occupies.
func (s Style) LineHeight() float64 {
	if s.LineMode == LineSpacingFixed && s.LineSpacing > 0 {
		return s.LineSpacing
	}
	return s.Size * AutoLeading
}

func (s Style) validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("%w: font size must be positive", ErrInvalidLayout)
	}
	if s.LineMode == LineSpacingFixed && s.LineSpacing <= 0 {
		return fmt.Errorf("%w: fixed line spacing must be positive", ErrInvalidLayout)
	}
	return nil
}
