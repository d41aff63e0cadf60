package peekaboo

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// textureFor returns img as an ebiten image, converting and caching it in
// *cached on first use.
func textureFor(img image.Image, cached **ebiten.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	if *cached == nil {
		*cached = ebiten.NewImageFromImage(img)
	}
	return *cached
}

// affineGeoM converts a [6]float64 transform into an ebiten.GeoM.
func affineGeoM(t [6]float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	return m
}

// markerTransform places a sprite of size (w, h) so its bottom-center sits
// on the marker anchor, scaled to the region height.
func markerTransform(m *Marker, w, h float64) [6]float64 {
	s := m.SpriteScale()
	local := multiplyAffine(
		translateAffine(m.Anchor.X, m.Anchor.Y),
		multiplyAffine(scaleAffine(s), translateAffine(-w/2, -h)),
	)
	return local
}

// draw renders the background and markers through the camera into the
// viewport area of screen. Nothing is drawn until the camera is interactive.
func (s *Stage) draw(screen *ebiten.Image) {
	if s.cam.State() != StateInteractive || s.background == nil || s.session == nil {
		return
	}
	vp := s.cam.Viewport()
	target := screen.SubImage(image.Rect(
		int(vp.X), int(vp.Y),
		int(vp.X+vp.Width), int(vp.Y+vp.Height),
	)).(*ebiten.Image)

	view := s.cam.ViewMatrix()

	var op ebiten.DrawImageOptions
	op.GeoM = affineGeoM(view)
	target.DrawImage(textureFor(s.background, &s.bgTex), &op)

	// Painter order: ascending DrawOrder, so the last drawn is the first hit.
	layer := s.session.layer
	for i := len(layer.hitOrder) - 1; i >= 0; i-- {
		m := layer.hitOrder[i]
		if m.sprite == nil {
			continue
		}
		tex := textureFor(m.sprite, &m.tex)
		b := tex.Bounds()
		op.GeoM.Reset()
		op.GeoM.Concat(affineGeoM(multiplyAffine(view, markerTransform(m, float64(b.Dx()), float64(b.Dy())))))
		op.ColorScale.Reset()
		op.ColorScale.ScaleAlpha(float32(m.alpha))
		target.DrawImage(tex, &op)
	}
}
