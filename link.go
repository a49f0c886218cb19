package xlgrid

// Link is a cell value holding a hyperlink. Hosts render it as a clickable
// link; copy and formulas see its display text.
type Link struct {
	URL  string
	Text string
}

// String returns the display text, the URL when there is none.
func (l Link) String() string {
	if l.Text != "" {
		return l.Text
	}
	return l.URL
}

// NewLink creates a Link value. Formulas build one with HYPERLINK(url, text).
func NewLink(url, text string) Link {
	return Link{URL: url, Text: text}
}

func fnHyperlink(args ...any) (any, error) {
	if err := arity("HYPERLINK", args, 1, 2); err != nil {
		return nil, err
	}
	text := ""
	if len(args) == 2 {
		text = toText(args[1])
	}
	return NewLink(toText(args[0]), text), nil
}
