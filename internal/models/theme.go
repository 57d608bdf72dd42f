package models

import "math/rand"

var (
	themeColors  = []string{"#3B82F6", "#8B5CF6", "#EC4899", "#10B981", "#F59E0B", "#EF4444", "#6366F1", "#14B8A6", "#F97316"}
	themeFonts   = []string{"Inter", "Roboto", "Poppins", "Montserrat", "Open Sans"}
	themeLayouts = []string{"grid", "list"}
)

// DefaultFontFamily is the font new stores start with; the v2 template
// switches it to Montserrat.
const DefaultFontFamily = "Inter"

// RandomTheme picks a theme from the standard pools. Missing fields in
// the base are filled, present ones kept.
func RandomTheme(base Theme) Theme {
	if base.PrimaryColor == "" {
		base.PrimaryColor = themeColors[rand.Intn(len(themeColors))]
	}
	if base.SecondaryColor == "" {
		base.SecondaryColor = themeColors[rand.Intn(len(themeColors))]
	}
	if base.FontFamily == "" {
		base.FontFamily = themeFonts[rand.Intn(len(themeFonts))]
	}
	if base.Layout == "" {
		base.Layout = themeLayouts[rand.Intn(len(themeLayouts))]
	}
	return base
}
