// Package ui provides the PolyBoard desktop shell.
//
// This file defines a compact Fyne theme so both zones get as much of the
// window as possible.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// BoardTheme wraps the default Fyne theme with compact sizing overrides.
type BoardTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	forced  bool
}

// NewBoardTheme creates a theme following the system variant.
func NewBoardTheme() *BoardTheme {
	return &BoardTheme{base: theme.DefaultTheme()}
}

// ThemeForName maps a config theme name ("light", "dark", "system") to a
// BoardTheme.
func ThemeForName(name string) *BoardTheme {
	t := NewBoardTheme()
	switch name {
	case "light":
		t.SetVariant(theme.VariantLight)
	case "dark":
		t.SetVariant(theme.VariantDark)
	}
	return t
}

// SetVariant pins the theme to a light or dark variant.
func (t *BoardTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
	t.forced = true
}

func (t *BoardTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *BoardTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *BoardTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *BoardTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
