package theme

// Palette is the set of colors the heatmap needs for one theme.
type Palette struct {
	Empty     string // in-year day, not completed
	OutOfYear string // spillover days of the neighbouring years
	Text      string
	Muted     string
	Border    string
	Accent    string
}

var palettes = map[Theme]Palette{
	Light: {
		Empty:     "#ebedf0",
		OutOfYear: "#fafbfc",
		Text:      "#24292f",
		Muted:     "#6e7781",
		Border:    "#d0d7de",
		Accent:    "#6C63FF",
	},
	Dark: {
		Empty:     "#323232",
		OutOfYear: "#141414",
		Text:      "#C0CAF5",
		Muted:     "#666666",
		Border:    "#414868",
		Accent:    "#7AA2F7",
	},
}

func PaletteFor(t Theme) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Light]
}
