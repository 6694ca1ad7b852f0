// Package devkit implements the optional Fyne debug overlay: a window
// showing the live register/flag/opcode snapshot plus the current
// frame, refreshed alongside the SDL2 display.
package devkit

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"boycore-dx/internal/cpu"
	"boycore-dx/internal/ppu"
)

var grayscale = [4]color.RGBA{
	{224, 255, 200, 255},
	{152, 178, 144, 255},
	{80, 101, 88, 255},
	{0, 0, 0, 255},
}

// Overlay is the live register/flags/opcode snapshot plus a raster view
// of the last composited frame.
type Overlay struct {
	app    fyne.App
	window fyne.Window

	registerText *widget.Label
	frame        [ppu.ScreenHeight][ppu.ScreenWidth]uint8
	raster       *canvas.Raster
}

// New creates (but does not show) a devkit overlay window.
func New() *Overlay {
	o := &Overlay{app: app.New()}
	o.window = o.app.NewWindow("boycore-dx devkit")

	o.registerText = widget.NewLabel("")
	o.registerText.TextStyle = fyne.TextStyle{Monospace: true}

	o.raster = canvas.NewRaster(o.drawFrame)
	o.raster.SetMinSize(fyne.NewSize(ppu.ScreenWidth*2, ppu.ScreenHeight*2))

	o.window.SetContent(container.NewVBox(
		widget.NewLabel("Registers"),
		o.registerText,
		widget.NewLabel("Frame"),
		o.raster,
	))
	o.window.Resize(fyne.NewSize(420, 420))

	return o
}

// Show displays the overlay window without blocking; the caller drives
// its own frame loop and calls Update per frame.
func (o *Overlay) Show() { o.window.Show() }

// Snapshot formats the textual register/flag/opcode snapshot string
// described by the external-interfaces contract: "AF BC DE HL SP PC"
// values plus flag bits and the current opcode byte.
func Snapshot(c *cpu.CPU, opcode uint8) string {
	r := &c.Regs
	return fmt.Sprintf(
		"AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X\nZ=%d N=%d H=%d C=%d  IME=%v  OP=%02X",
		r.AF(), r.BC(), r.DE(), r.HL(), r.SP, r.PC,
		boolBit(r.HasFlag(cpu.FlagZ)), boolBit(r.HasFlag(cpu.FlagN)),
		boolBit(r.HasFlag(cpu.FlagH)), boolBit(r.HasFlag(cpu.FlagC)),
		r.IME, opcode,
	)
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Update refreshes the register panel and the frame raster; call once
// per scheduler frame.
func (o *Overlay) Update(snapshot string, frame [ppu.ScreenHeight][ppu.ScreenWidth]uint8) {
	o.registerText.SetText(snapshot)
	o.frame = frame
	o.raster.Refresh()
}

func (o *Overlay) drawFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			img.Set(x, y, grayscale[o.frame[y][x]&0x3])
		}
	}
	return img
}
