package document

import (
	"fmt"
	"sync"
)

// Frame is a positioned text container. Width and Height are in points.
type Frame struct {
	Name   string  `yaml:"name" json:"name"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Next   string  `yaml:"next,omitempty" json:"next,omitempty"`
}

// Spec describes a layout to build with NewLayout.
type Spec struct {
	Name     string
	Fonts    []string
	Defaults Style
	Frames   []Frame
}

// ChainInfo summarizes one frame chain.
type ChainInfo struct {
	Head       string   `json:"head"`
	Frames     []string `json:"frames"`
	TextLength int      `json:"textLength"`
	Overflow   bool     `json:"overflow"`
}

// story is the text flowing through one chain with a style per character.
type story struct {
	text   []rune
	styles []Style
}

func (s *story) styleAt(i int, defaults Style) Style {
	switch {
	case i < len(s.styles):
		return s.styles[i]
	case len(s.styles) > 0:
		return s.styles[len(s.styles)-1]
	default:
		return defaults
	}
}

// Layout is an in-memory Document. It is safe for concurrent use.
type Layout struct {
	mu sync.RWMutex

	name     string
	fonts    map[string]bool
	defaults Style
	frames   map[string]Frame
	order    []string
	prev     map[string]string
	stories  map[string]*story
	closed   bool
}

var _ Document = (*Layout)(nil)

// NewLayout validates spec and returns an open layout with empty stories.
//
// An empty font list accepts any font name.
func NewLayout(spec Spec) (*Layout, error) {
	defaults := spec.Defaults
	if defaults == (Style{}) {
		defaults = DefaultStyle()
	}
	if err := defaults.validate(); err != nil {
		return nil, err
	}

	l := &Layout{
		name:     spec.Name,
		fonts:    make(map[string]bool, len(spec.Fonts)),
		defaults: defaults,
		frames:   make(map[string]Frame, len(spec.Frames)),
		prev:     make(map[string]string),
		stories:  make(map[string]*story),
	}
	for _, f := range spec.Fonts {
		l.fonts[f] = true
	}

	for _, f := range spec.Frames {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: frame without a name", ErrInvalidLayout)
		}
		if _, dup := l.frames[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate frame %q", ErrInvalidLayout, f.Name)
		}
		if f.Width <= 0 || f.Height <= 0 {
			return nil, fmt.Errorf("%w: frame %q must have positive width and height", ErrInvalidLayout, f.Name)
		}
		l.frames[f.Name] = f
		l.order = append(l.order, f.Name)
	}

	for _, name := range l.order {
		next := l.frames[name].Next
		if next == "" {
			continue
		}
		if _, ok := l.frames[next]; !ok {
			return nil, fmt.Errorf("%w: frame %q links to unknown frame %q", ErrInvalidLayout, name, next)
		}
		if p, taken := l.prev[next]; taken {
			return nil, fmt.Errorf("%w: frame %q is linked from both %q and %q", ErrInvalidLayout, next, p, name)
		}
		l.prev[next] = name
	}

	for _, name := range l.order {
		if _, linked := l.prev[name]; linked {
			continue
		}
		l.stories[name] = &story{}
	}

	// Every frame must be reachable from a head; anything left is a cycle.
	reached := 0
	for head := range l.stories {
		reached += len(l.chainLocked(head))
	}
	if reached != len(l.order) {
		return nil, fmt.Errorf("%w: frame links form a cycle", ErrInvalidLayout)
	}

	return l, nil
}

// Name returns the layout name.
func (l *Layout) Name() string {
	return l.name
}

// Defaults returns the style used for unstyled text.
func (l *Layout) Defaults() Style {
	return l.defaults
}

// Close marks the document as closed. Subsequent operations fail with
// ErrNoDocument.
func (l *Layout) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

func (l *Layout) HasDocument() bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.closed
}

func (l *Layout) FrameExists(frame string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	_, ok := l.frames[frame]
	return ok
}

func (l *Layout) TextLength(frame string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st, _, err := l.storyLocked(frame)
	if err != nil {
		return 0, err
	}
	return len(st.text), nil
}

// Text returns the story flowing through frame's chain.
func (l *Layout) Text(frame string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st, _, err := l.storyLocked(frame)
	if err != nil {
		return "", err
	}
	return string(st.text), nil
}

// StyleAt returns the style of the character at index i of frame's story.
func (l *Layout) StyleAt(frame string, i int) (Style, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st, _, err := l.storyLocked(frame)
	if err != nil {
		return Style{}, err
	}
	if i < 0 || i >= len(st.text) {
		return Style{}, fmt.Errorf("%w: index %d of %d", ErrInvalidRange, i, len(st.text))
	}
	return st.styles[i], nil
}

func (l *Layout) DeleteText(frame string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, _, err := l.storyLocked(frame)
	if err != nil {
		return err
	}
	st.text = nil
	st.styles = nil
	return nil
}

// InsertText inserts text at a rune offset. New characters take the style of
// the character before the offset.
func (l *Layout) InsertText(frame, text string, offset int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, _, err := l.storyLocked(frame)
	if err != nil {
		return err
	}
	if offset < 0 || offset > len(st.text) {
		return fmt.Errorf("%w: offset %d of %d", ErrInvalidRange, offset, len(st.text))
	}

	runes := []rune(text)
	style := l.defaults
	if offset > 0 {
		style = st.styles[offset-1]
	} else if len(st.styles) > 0 {
		style = st.styles[0]
	}
	styles := make([]Style, len(runes))
	for i := range styles {
		styles[i] = style
	}

	st.text = splice(st.text, offset, runes)
	st.styles = splice(st.styles, offset, styles)
	return nil
}

func splice[T any](dst []T, at int, src []T) []T {
	out := make([]T, 0, len(dst)+len(src))
	out = append(out, dst[:at]...)
	out = append(out, src...)
	return append(out, dst[at:]...)
}

func (l *Layout) SetFont(frame string, r Range, font string) error {
	l.mu.RLock()
	known := len(l.fonts) == 0 || l.fonts[font]
	l.mu.RUnlock()
	if !known {
		return fmt.Errorf("%w: %q", ErrFontNotFound, font)
	}
	return l.restyle(frame, r, func(s *Style) { s.Font = font })
}

func (l *Layout) SetFontSize(frame string, r Range, size float64) error {
	if size <= 0 {
		return fmt.Errorf("%w: font size must be positive", ErrInvalidLayout)
	}
	return l.restyle(frame, r, func(s *Style) { s.Size = size })
}

func (l *Layout) SetAlignment(frame string, r Range, a Alignment) error {
	if _, err := a.MarshalText(); err != nil {
		return err
	}
	return l.restyle(frame, r, func(s *Style) { s.Alignment = a })
}

func (l *Layout) SetLineSpacingMode(frame string, r Range, m LineSpacingMode) error {
	if _, err := m.MarshalText(); err != nil {
		return err
	}
	return l.restyle(frame, r, func(s *Style) { s.LineMode = m })
}

func (l *Layout) SetLineSpacing(frame string, r Range, spacing float64) error {
	if spacing <= 0 {
		return fmt.Errorf("%w: line spacing must be positive", ErrInvalidLayout)
	}
	return l.restyle(frame, r, func(s *Style) { s.LineSpacing = spacing })
}

func (l *Layout) restyle(frame string, r Range, apply func(*Style)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, _, err := l.storyLocked(frame)
	if err != nil {
		return err
	}
	if r.Start < 0 || r.Length < 0 || r.Start+r.Length > len(st.text) {
		return fmt.Errorf("%w: [%d,+%d) of %d", ErrInvalidRange, r.Start, r.Length, len(st.text))
	}
	for i := r.Start; i < r.Start+r.Length; i++ {
		apply(&st.styles[i])
	}
	return nil
}

func (l *Layout) TextOverflows(frame string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	st, head, err := l.storyLocked(frame)
	if err != nil {
		return false, err
	}
	return overflows(l.chainLocked(head), st, l.defaults), nil
}

// Chains lists every frame chain in declaration order of its first frame.
func (l *Layout) Chains() ([]ChainInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrNoDocument
	}

	var out []ChainInfo
	for _, name := range l.order {
		st, ok := l.stories[name]
		if !ok {
			continue
		}
		chain := l.chainLocked(name)
		names := make([]string, len(chain))
		for i, f := range chain {
			names[i] = f.Name
		}
		out = append(out, ChainInfo{
			Head:       name,
			Frames:     names,
			TextLength: len(st.text),
			Overflow:   overflows(chain, st, l.defaults),
		})
	}
	return out, nil
}

// storyLocked resolves frame to its chain head and story.
func (l *Layout) storyLocked(frame string) (*story, string, error) {
	if l.closed {
		return nil, "", ErrNoDocument
	}
	if _, ok := l.frames[frame]; !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrFrameNotFound, frame)
	}
	head := frame
	for {
		p, ok := l.prev[head]
		if !ok {
			break
		}
		head = p
	}
	return l.stories[head], head, nil
}

// chainLocked returns the frames linked from head, stopping on a revisit.
func (l *Layout) chainLocked(head string) []Frame {
	var chain []Frame
	seen := make(map[string]bool)
	for name := head; name != "" && !seen[name]; name = l.frames[name].Next {
		seen[name] = true
		chain = append(chain, l.frames[name])
	}
	return chain
}
