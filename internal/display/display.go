// Package display implements the SDL2-backed presentation sink: an
// external collaborator that owns the window, maps the PPU's 2-bit
// palette-index frame through an RGBA palette, and blits it at an
// integer scale with vsync.
package display

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"boycore-dx/internal/joypad"
	"boycore-dx/internal/ppu"
)

// defaultPalette maps the four Game Boy gray-index shades to RGB, light
// to dark.
var defaultPalette = [4][3]byte{
	{224, 255, 200},
	{152, 178, 144},
	{80, 101, 88},
	{0, 0, 0},
}

// Window owns the SDL2 video surface. It implements scheduler.DisplaySink.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	scale    int
	Joypad   *joypad.Joypad
	running  bool
}

// New creates and shows an SDL2 window sized for the 160x144 frame at
// the given integer scale (1-6).
func New(scale int, pad *joypad.Joypad) (*Window, error) {
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("display: sdl init failed: %w", err)
	}

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	width := int32(ppu.ScreenWidth * scale)
	height := int32(ppu.ScreenHeight * scale)

	window, err := sdl.CreateWindow(
		"boycore-dx",
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		width, height,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("display: create window failed: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("display: create renderer failed: %w", err)
	}

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGB24,
		sdl.TEXTUREACCESS_STREAMING,
		ppu.ScreenWidth, ppu.ScreenHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("display: create texture failed: %w", err)
	}

	return &Window{
		window:   window,
		renderer: renderer,
		texture:  texture,
		scale:    scale,
		Joypad:   pad,
		running:  true,
	}, nil
}

// Present draws one frame and pumps the SDL event queue; it returns
// false when the window has been closed or Escape has been pressed
// (DisplaySinkClosed, per the
// error taxonomy — a clean shutdown signal, not an error).
func (w *Window) Present(frame [ppu.ScreenHeight][ppu.ScreenWidth]uint8) bool {
	w.pollEvents()
	if !w.running {
		return false
	}

	pixels := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*3)
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			rgb := defaultPalette[frame[y][x]&0x3]
			i := (y*ppu.ScreenWidth + x) * 3
			pixels[i] = rgb[0]
			pixels[i+1] = rgb[1]
			pixels[i+2] = rgb[2]
		}
	}

	pitch := ppu.ScreenWidth * 3
	if err := w.texture.Update(nil, unsafe.Pointer(&pixels[0]), pitch); err != nil {
		return false
	}

	w.renderer.Clear()
	w.renderer.Copy(w.texture, nil, nil)
	w.renderer.Present()

	return w.running
}

func (w *Window) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.running = false
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE {
				if e.Type == sdl.KEYDOWN {
					w.running = false
				}
				continue
			}
			if w.Joypad == nil {
				continue
			}
			pressed := e.Type == sdl.KEYDOWN
			if button, ok := keyToButton(e.Keysym.Sym); ok {
				w.Joypad.SetButton(button, pressed)
			}
		}
	}
}

func keyToButton(key sdl.Keycode) (uint8, bool) {
	switch key {
	case sdl.K_UP:
		return joypad.ButtonUp, true
	case sdl.K_DOWN:
		return joypad.ButtonDown, true
	case sdl.K_LEFT:
		return joypad.ButtonLeft, true
	case sdl.K_RIGHT:
		return joypad.ButtonRight, true
	case sdl.K_z:
		return joypad.ButtonA, true
	case sdl.K_x:
		return joypad.ButtonB, true
	case sdl.K_RETURN:
		return joypad.ButtonStart, true
	case sdl.K_RSHIFT, sdl.K_LSHIFT:
		return joypad.ButtonSelect, true
	default:
		return 0, false
	}
}

// Close tears down the SDL2 resources.
func (w *Window) Close() {
	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.window != nil {
		w.window.Destroy()
	}
	sdl.Quit()
}
