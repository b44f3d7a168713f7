//go:build ebiten

package app

import (
	"math"

	"chooch-fx/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
)

const spriteSize = 128

// spriteCache renders each distinct gradient once into a texture that blobs scale and
// tint. Recompiled styles reuse the textures of their unchanged palettes.
type spriteCache struct {
	sprites map[string]*ebiten.Image
}

func newSpriteCache() *spriteCache {
	return &spriteCache{sprites: map[string]*ebiten.Image{}}
}

func (c *spriteCache) get(g render.Gradient) *ebiten.Image {
	key := g.Key()
	if img, ok := c.sprites[key]; ok {
		return img
	}
	img := c.build(g)
	c.sprites[key] = img
	return img
}

func (c *spriteCache) build(g render.Gradient) *ebiten.Image {
	buf := make([]byte, spriteSize*spriteSize*4)
	half := float64(spriteSize) / 2
	for y := 0; y < spriteSize; y++ {
		for x := 0; x < spriteSize; x++ {
			t := math.Hypot(float64(x)+0.5-half, float64(y)+0.5-half) / half
			col, a := g.At(t)
			i := (y*spriteSize + x) * 4
			buf[i+0] = toByte(col.R * a)
			buf[i+1] = toByte(col.G * a)
			buf[i+2] = toByte(col.B * a)
			buf[i+3] = toByte(a)
		}
	}
	img := ebiten.NewImage(spriteSize, spriteSize)
	img.WritePixels(buf)
	return img
}

func toByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
