// Package icon renders the status symbols printed next to episodes and messages.
//
// The variant is chosen with icons.variant: emoji, nerd, plain, kaomoji or squares.
package icon

import (
	"github.com/jutdl/jutdl/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// variant returns the symbol for the configured variant, or "" for an unknown one.
func (d *iconDef) variant(name string) string {
	switch name {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the symbol of i in the configured variant.
func Get(i Icon) string {
	return icons[i].variant(viper.GetString(key.IconsVariant))
}
