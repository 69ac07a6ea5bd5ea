package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/rincewound/ricones/nes"
)

// displayWindow is an SDL2 window streaming the orchestrator's frame buffer
// to a texture each Present call. Event pumping and quit detection happen
// here too, since SDL requires both to run on the thread that called
// sdl.Init.
type displayWindow struct {
	orch     *nes.Orchestrator
	window   *sdl.Window
	renderer *sdl.Renderer
	tex      *sdl.Texture
	quit     bool
}

func newDisplayWindow(orch *nes.Orchestrator, scale int) (*displayWindow, error) {
	if scale < 1 {
		scale = 1
	}

	window, renderer, err := sdl.CreateWindowAndRenderer(
		int32(nes.FrameWidth*scale), int32(nes.FrameHeight*scale),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		return nil, fmt.Errorf("ricones: unable to create window: %s", err)
	}
	window.SetTitle("ricones")

	tex, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, nes.FrameWidth, nes.FrameHeight)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("ricones: unable to create texture: %s", err)
	}

	return &displayWindow{orch: orch, window: window, renderer: renderer, tex: tex}, nil
}

func (w *displayWindow) Free() error {
	w.tex.Destroy()
	w.renderer.Destroy()
	return w.window.Destroy()
}

func (w *displayWindow) shouldQuit() bool {
	return w.quit
}

// Present implements nes.FrameSink. It pumps the SDL event queue (updating
// controller port 0 and the quit flag) before blitting the frame, so both
// input and display stay on the thread SDL was initialized on.
func (w *displayWindow) Present(frame *[nes.FrameWidth * nes.FrameHeight]uint32) error {
	w.pumpEvents()

	pixels, _, err := w.tex.Lock(nil)
	if err != nil {
		return fmt.Errorf("ricones: unable to lock texture: %s", err)
	}
	packABGR(pixels, frame)
	w.tex.Unlock()

	if err := w.renderer.Clear(); err != nil {
		return fmt.Errorf("ricones: unable to clear renderer: %s", err)
	}
	if err := w.renderer.Copy(w.tex, nil, nil); err != nil {
		return fmt.Errorf("ricones: unable to copy frame: %s", err)
	}
	w.renderer.Present()
	return nil
}

func (w *displayWindow) pumpEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch evt := event.(type) {
		case *sdl.QuitEvent:
			w.quit = true
		case *sdl.KeyboardEvent:
			w.handleKey(evt)
		}
	}
}

func (w *displayWindow) handleKey(evt *sdl.KeyboardEvent) {
	button, ok := keymap[evt.Keysym.Sym]
	if !ok {
		return
	}
	switch evt.Type {
	case sdl.KEYDOWN:
		w.orch.Press(0, button)
	case sdl.KEYUP:
		w.orch.Release(0, button)
	}
}

var keymap = map[sdl.Keycode]nes.Button{
	sdl.K_z:      nes.A,
	sdl.K_x:      nes.B,
	sdl.K_RSHIFT: nes.Select,
	sdl.K_RETURN: nes.Start,
	sdl.K_UP:     nes.Up,
	sdl.K_DOWN:   nes.Down,
	sdl.K_LEFT:   nes.Left,
	sdl.K_RIGHT:  nes.Right,
}

// packABGR converts the core's 0x00RRGGBB frame buffer into the byte order
// SDL_PIXELFORMAT_ABGR8888 expects (bytes R, G, B, A low to high).
func packABGR(dst []byte, frame *[nes.FrameWidth * nes.FrameHeight]uint32) {
	for i, px := range frame {
		o := i * 4
		dst[o+0] = byte(px >> 16) // R
		dst[o+1] = byte(px >> 8)  // G
		dst[o+2] = byte(px)       // B
		dst[o+3] = 0xFF           // A
	}
}
