package welcome

import (
	"github.com/abhisek/screenwell/internal/ui/theme"
)

const bannerArt = `
 ┌─┐┌─┐┬─┐┌─┐┌─┐┌┐┌┬ ┬┌─┐┬  ┬
 └─┐│  ├┬┘├┤ ├┤ │││││││├┤ │  │
 └─┘└─┘┴└─└─┘└─┘┘└┘└┴┘└─┘┴─┘┴─┘`

const bannerCompact = "S C R E E N W E L L"

// RenderBanner returns the app banner in the theme's title style, falling
// back to a single line below 40 columns.
func RenderBanner(th theme.Theme, width int) string {
	if width < 40 {
		return th.Title.Render(bannerCompact)
	}
	return th.Title.Render(bannerArt)
}
