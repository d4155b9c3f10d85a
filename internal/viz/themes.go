package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the terminal view. Branch colours the
// drawing itself.
type Theme struct {
	Name      string
	Branch    lipgloss.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeMinimal = Theme{
		Name:      "minimal",
		Branch:    lipgloss.Color("#d0d0d0"),
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemePlum = Theme{
		Name:      "plum",
		Branch:    lipgloss.Color("#8e4585"),
		Primary:   lipgloss.Color("#dda0dd"),
		Secondary: lipgloss.Color("#c27ba0"),
		Accent:    lipgloss.Color("#ffb7c5"),
		Text:      lipgloss.Color("#fbeff7"),
		Muted:     lipgloss.Color("#7d5a73"),
		Success:   lipgloss.Color("#9ad99a"),
		Warning:   lipgloss.Color("#f5c26b"),
		Error:     lipgloss.Color("#e0607e"),
	}

	ThemeInk = Theme{
		Name:      "ink",
		Branch:    lipgloss.Color("#5c5c5c"),
		Primary:   lipgloss.Color("#e8e4d9"),
		Secondary: lipgloss.Color("#b8b2a1"),
		Accent:    lipgloss.Color("#c0392b"),
		Text:      lipgloss.Color("#f4f1ea"),
		Muted:     lipgloss.Color("#6e6a60"),
		Success:   lipgloss.Color("#7fb77e"),
		Warning:   lipgloss.Color("#d9a441"),
		Error:     lipgloss.Color("#c0392b"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Branch:    lipgloss.Color("#00a8cc"),
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Branch:    lipgloss.Color("#00cc00"),
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeMinimal

	Themes = []Theme{
		ThemeMinimal,
		ThemePlum,
		ThemeInk,
		ThemeOcean,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name, falling back to minimal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one and returns its name.
func NextTheme() string {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return CurrentTheme.Name
		}
	}
	SetTheme(names[0])
	return CurrentTheme.Name
}
