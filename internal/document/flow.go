package document

// Flow metrics. Glyph widths are approximated as a fraction of the em size.
const (
	GlyphWidth  = 0.5
	AutoLeading = 1.2
)

// paragraph is one "\n"-separated block of a story with the style of its
// first character.
type paragraph struct {
	text  []rune
	style Style
}

// paragraphs splits a story into paragraphs. An empty story has none.
func (s *story) paragraphs(defaults Style) []paragraph {
	if len(s.text) == 0 {
		return nil
	}

	var out []paragraph
	start := 0
	for i := 0; i <= len(s.text); i++ {
		if i < len(s.text) && s.text[i] != '\n' {
			continue
		}
		out = append(out, paragraph{
			text:  s.text[start:i],
			style: s.styleAt(start, defaults),
		})
		start = i + 1
	}
	return out
}

// charsPerLine is how many characters of style fit on one line of f.
func (f Frame) charsPerLine(style Style) int {
	if style.Size <= 0 {
		return 0
	}
	return int(f.Width / (style.Size * GlyphWidth))
}

// overflows lays the story out over the chain and reports whether any line
// is left without room.
func overflows(chain []Frame, st *story, defaults Style) bool {
	frame := 0
	used := 0.0

	for _, p := range st.paragraphs(defaults) {
		rest := p.text
		height := p.style.LineHeight()

		for {
			if frame >= len(chain) {
				return true
			}
			f := chain[frame]
			width := f.charsPerLine(p.style)
			if width < 1 || used+height > f.Height {
				frame++
				used = 0
				continue
			}

			rest = rest[breakLine(rest, width):]
			used += height
			if len(rest) == 0 {
				break
			}
		}
	}
	return false
}

// breakLine returns how many runes of text go on a line of width characters.
// Lines break after the last space that fits; words longer than the line are
// split.
func breakLine(text []rune, width int) int {
	if len(text) <= width {
		return len(text)
	}
	for i := width; i > 0; i-- {
		if text[i] == ' ' {
			return i + 1
		}
	}
	return width
}
