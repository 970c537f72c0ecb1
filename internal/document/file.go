package document

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// layoutFile is the on-disk YAML form of a Layout.
type layoutFile struct {
	Name     string      `yaml:"name"`
	Fonts    []string    `yaml:"fonts,omitempty"`
	Defaults *Style      `yaml:"defaults,omitempty"`
	Frames   []frameFile `yaml:"frames"`
}

type frameFile struct {
	Frame `yaml:",inline"`
	Story *storyFile `yaml:"story,omitempty"`
}

// storyFile stores text with run-length style spans.
type storyFile struct {
	Text  string     `yaml:"text"`
	Spans []spanFile `yaml:"spans,omitempty"`
}

type spanFile struct {
	Start  int `yaml:"start"`
	Length int `yaml:"length"`
	Style  `yaml:",inline"`
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout builds a Layout from YAML.
func ParseLayout(data []byte) (*Layout, error) {
	var lf layoutFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	spec := Spec{Name: lf.Name, Fonts: lf.Fonts}
	if lf.Defaults != nil {
		spec.Defaults = *lf.Defaults
	}
	for _, f := range lf.Frames {
		spec.Frames = append(spec.Frames, f.Frame)
	}

	l, err := NewLayout(spec)
	if err != nil {
		return nil, err
	}

	for _, f := range lf.Frames {
		if f.Story == nil {
			continue
		}
		st, ok := l.stories[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: story stored on frame %q which is not the first of its chain", ErrInvalidLayout, f.Name)
		}
		if err := st.load(f.Story, l.defaults); err != nil {
			return nil, fmt.Errorf("%w: frame %q: %v", ErrInvalidLayout, f.Name, err)
		}
	}
	return l, nil
}

func (s *story) load(sf *storyFile, defaults Style) error {
	s.text = []rune(sf.Text)
	s.styles = make([]Style, len(s.text))
	for i := range s.styles {
		s.styles[i] = defaults
	}
	for _, sp := range sf.Spans {
		if sp.Start < 0 || sp.Length < 0 || sp.Start+sp.Length > len(s.text) {
			return fmt.Errorf("span [%d,+%d) outside text of length %d", sp.Start, sp.Length, len(s.text))
		}
		for i := sp.Start; i < sp.Start+sp.Length; i++ {
			s.styles[i] = sp.Style
		}
	}
	return nil
}

// spans compresses per-character styles into runs.
func (s *story) spans() []spanFile {
	var out []spanFile
	for i := 0; i < len(s.styles); {
		j := i + 1
		for j < len(s.styles) && s.styles[j] == s.styles[i] {
			j++
		}
		out = append(out, spanFile{Start: i, Length: j - i, Style: s.styles[i]})
		i = j
	}
	return out
}

// Marshal renders the layout, including stories, as YAML.
func (l *Layout) Marshal() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrNoDocument
	}

	defaults := l.defaults
	lf := layoutFile{Name: l.name, Defaults: &defaults}
	for font := range l.fonts {
		lf.Fonts = append(lf.Fonts, font)
	}
	slices.Sort(lf.Fonts)

	for _, name := range l.order {
		ff := frameFile{Frame: l.frames[name]}
		if st, ok := l.stories[name]; ok && len(st.text) > 0 {
			ff.Story = &storyFile{Text: string(st.text), Spans: st.spans()}
		}
		lf.Frames = append(lf.Frames, ff)
	}
	return yaml.Marshal(&lf)
}

// Save writes the layout to path, replacing the file atomically.
func (l *Layout) Save(path string) error {
	data, err := l.Marshal()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".layout-*.yaml")
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}
