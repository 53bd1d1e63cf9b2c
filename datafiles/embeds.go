// Package datafiles embeds the static assets shipped with the module.
package datafiles

import _ "embed"

//go:embed frametable.html
var frameTableHTMLEmbed string

// FrameTableHTML returns the HTML template for the web index page listing
// an archive's frames and animations.
func FrameTableHTML() string {
	return frameTableHTMLEmbed
}
