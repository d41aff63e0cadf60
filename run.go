package peekaboo

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	zoomStep     = 2.0
	zoomDuration = 0.25 // seconds
)

var (
	clearColor   = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	sidebarColor = color.RGBA{R: 36, G: 38, B: 46, A: 255}
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// SidebarWidth reserves a strip on the left for the HUD; the viewport
	// fills the rest of the window.
	SidebarWidth int
	// ShowHUD draws progress and HUDText into the sidebar.
	ShowHUD bool
	// ShowFPS appends FPS and TPS to the HUD.
	ShowFPS bool
	// HUDText, when set, supplies extra HUD lines each frame (a countdown,
	// an error message).
	HUDText func() string
	// OnUpdate, when set, runs at the start of every tick. Returning a
	// non-nil error ends the game loop with that error; return
	// ebiten.Termination for a clean exit.
	OnUpdate func() error
}

// Game implements ebiten.Game around a Stage.
type Game struct {
	stage *Stage
	cfg   RunConfig
}

// NewGame wraps stage for use with ebiten.RunGame.
func NewGame(stage *Stage, cfg RunConfig) *Game {
	return &Game{stage: stage, cfg: cfg}
}

// Viewport returns the stage viewport for a window of the given size.
func (cfg RunConfig) Viewport(w, h int) Rect {
	side := min(max(cfg.SidebarWidth, 0), w)
	return Rect{X: float64(side), Y: 0, Width: float64(w - side), Height: float64(h)}
}

// Update runs the OnUpdate hook, handles the zoom and screenshot keys and
// ticks the stage.
func (g *Game) Update() error {
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(); err != nil {
			return err
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		g.stage.AnimateZoom(zoomStep, zoomDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		g.stage.AnimateZoom(1/zoomStep, zoomDuration)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.stage.Screenshot("manual")
	}
	g.stage.Update()
	return nil
}

// Draw renders the stage and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)
	g.stage.Draw(screen)
	if g.cfg.ShowHUD {
		g.drawHUD(screen)
	}
	g.stage.FlushScreenshots(screen)
}

// Layout keeps the stage viewport in sync with the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := g.cfg.Viewport(outsideWidth, outsideHeight)
	if vp != g.stage.Viewport() {
		g.stage.Resize(vp)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	b := screen.Bounds()
	side := min(max(g.cfg.SidebarWidth, 0), b.Dx())
	if side > 0 {
		screen.SubImage(image.Rect(0, 0, side, b.Dy())).(*ebiten.Image).Fill(sidebarColor)
	}
	ebitenutil.DebugPrintAt(screen, g.hudText(), 8, 8)
}

func (g *Game) hudText() string {
	var sb strings.Builder
	if sess := g.stage.Session(); sess != nil {
		found, total := sess.layer.Progress()
		fmt.Fprintf(&sb, "Found %d/%d\n\n", found, total)
		for _, st := range sess.layer.Status() {
			mark := " "
			if st.Found {
				mark = "x"
			}
			fmt.Fprintf(&sb, "[%s] %s\n", mark, st.Name)
		}
		sb.WriteString("\n")
		if v := g.stage.View(); v.State == StateInteractive && v.MinScale > 0 {
			fmt.Fprintf(&sb, "Zoom %.1fx\n\n", v.Scale/v.MinScale)
		}
	}
	if g.cfg.HUDText != nil {
		if extra := g.cfg.HUDText(); extra != "" {
			sb.WriteString(extra)
			sb.WriteString("\n")
		}
	}
	if g.cfg.ShowFPS {
		fmt.Fprintf(&sb, "FPS: %.1f\nTPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	}
	return sb.String()
}

// Run opens a resizable window and runs stage until the window closes or
// OnUpdate returns an error. ebiten.Termination is not reported as an error.
func Run(stage *Stage, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Title == "" {
		cfg.Title = "peekaboo"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(NewGame(stage, cfg))
	if err == ebiten.Termination {
		return nil
	}
	return err
}
