package globe

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsCounter draws the current FPS and TPS in the top-left corner. The
// text is re-rendered into its own image about twice a second.
type fpsCounter struct {
	img        *ebiten.Image
	lastUpdate time.Time
}

func (c *fpsCounter) draw(screen *ebiten.Image) {
	if c.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		c.img = ebiten.NewImage(100, 32)
	}
	if now := time.Now(); now.Sub(c.lastUpdate) >= 500*time.Millisecond {
		c.lastUpdate = now
		c.img.Clear()
		c.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(c.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(c.img, nil)
}
