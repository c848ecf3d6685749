package entity

// Theme holds the cosmetic values used by the rendering layer.
type Theme struct {
	PrimaryColor             string `toml:"primaryColor"`
	BackgroundColor          string `toml:"backgroundColor"`
	SecondaryBackgroundColor string `toml:"secondaryBackgroundColor"`
	TextColor                string `toml:"textColor"`
	Font                     string `toml:"font"`
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:             "#3b82f6",
		BackgroundColor:          "#0f172a",
		SecondaryBackgroundColor: "#1e293b",
		TextColor:                "#f1f5f9",
		Font:                     "Inter, -apple-system, BlinkMacSystemFont, Segoe UI, Roboto, sans-serif",
	}
}

// Merge fills empty fields from fallback.
func (t Theme) Merge(fallback Theme) Theme {
	if t.PrimaryColor == "" {
		t.PrimaryColor = fallback.PrimaryColor
	}
	if t.BackgroundColor == "" {
		t.BackgroundColor = fallback.BackgroundColor
	}
	if t.SecondaryBackgroundColor == "" {
		t.SecondaryBackgroundColor = fallback.SecondaryBackgroundColor
	}
	if t.TextColor == "" {
		t.TextColor = fallback.TextColor
	}
	if t.Font == "" {
		t.Font = fallback.Font
	}
	return t
}
