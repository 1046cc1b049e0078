package game

import (
	"image"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// fieldTexture mirrors the rendered field on the GPU. It is recreated when
// the render size changes.
type fieldTexture struct {
	tex         rl.Texture2D
	texW, texH  int
	initialized bool
}

func (t *fieldTexture) init(w, h int) {
	img := rl.GenImageColor(w, h, rl.Black)
	t.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(t.tex, rl.FilterBilinear)
	rl.SetTextureWrap(t.tex, rl.WrapClamp)
	rl.UnloadImage(img)
	t.texW, t.texH = w, h
	t.initialized = true
}

// Upload copies img into the texture.
func (t *fieldTexture) Upload(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	if !t.initialized || w != t.texW || h != t.texH {
		t.Unload()
		t.init(w, h)
	}
	rl.UpdateTexture(t.tex, rgbaPixels(img))
}

// Draw stretches the texture over the screen.
func (t *fieldTexture) Draw(screenW, screenH float32) {
	if !t.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(t.texW), Height: float32(t.texH)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: screenW, Height: screenH}
	rl.DrawTexturePro(t.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees the texture.
func (t *fieldTexture) Unload() {
	if !t.initialized {
		return
	}
	rl.UnloadTexture(t.tex)
	t.initialized = false
}

// rgbaPixels views the image's bytes as colors without copying.
// color.RGBA is four uint8 fields, the same layout as Pix.
func rgbaPixels(img *image.RGBA) []color.RGBA {
	n := img.Rect.Dx() * img.Rect.Dy()
	if n == 0 || len(img.Pix) < n*4 {
		return nil
	}
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), n)
}
