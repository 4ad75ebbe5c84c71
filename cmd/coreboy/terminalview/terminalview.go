// Package terminalview renders a running emulator's frame buffer to a
// tcell terminal screen, pairing two pixel rows per text row with Unicode
// half-block characters. It talks to the core exclusively through the
// public gameboy.Handle API, demonstrating the embedding boundary spec.md
// §6 describes: it never imports an internal/ package.
package terminalview

import (
	"fmt"
	"time"

	"github.com/adtennant/gameboy"
	"github.com/gdamore/tcell/v2"
)

var shadeStyle = [4]tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorWhite),
	tcell.StyleDefault.Foreground(tcell.ColorSilver),
	tcell.StyleDefault.Foreground(tcell.ColorGray),
	tcell.StyleDefault.Foreground(tcell.ColorBlack),
}

// View drives a tcell screen from a gameboy.Handle until the user presses
// Escape or Ctrl-C, or the handle returns an error from RunFrame.
type View struct {
	screen tcell.Screen
	handle *gameboy.Handle
	frame  []byte
}

// New initializes a tcell screen bound to handle.
func New(handle *gameboy.Handle) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	return &View{
		screen: screen,
		handle: handle,
		frame:  make([]byte, gameboy.FrameWidth*gameboy.FrameHeight),
	}, nil
}

// Run advances the emulator and redraws the screen at 60Hz until the user
// presses Escape or the emulator halts with an error.
func (v *View) Run() error {
	defer v.screen.Fini()

	events := make(chan tcell.Event, 4)
	go v.screen.ChannelEvents(events, nil)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if key, ok := ev.(*tcell.EventKey); ok {
				if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC {
					return nil
				}
			}
		case <-ticker.C:
			if err := v.handle.RunFrame(); err != nil {
				return err
			}
			v.draw()
		}
	}
}

func (v *View) draw() {
	v.handle.GetFrameBuffer(v.frame)
	v.screen.Clear()

	width, height := gameboy.FrameWidth, gameboy.FrameHeight
	for row := 0; row < height/2; row++ {
		top := row * 2
		bottom := top + 1
		for x := 0; x < width; x++ {
			topShade := v.frame[top*width+x]
			bottomShade := v.frame[bottom*width+x]

			ch, style := halfBlock(topShade, bottomShade)
			v.screen.SetContent(x, row, ch, nil, style)
		}
	}

	v.screen.Show()
}

// halfBlock picks a single glyph and style approximating two stacked
// monochrome pixels.
func halfBlock(top, bottom byte) (rune, tcell.Style) {
	switch {
	case top == bottom:
		return '█', shadeStyle[top]
	case top == 0:
		return '▄', shadeStyle[bottom]
	case bottom == 0:
		return '▀', shadeStyle[top]
	default:
		return '▀', shadeStyle[top]
	}
}
