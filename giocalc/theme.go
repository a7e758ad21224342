package main

import (
	"image/color"

	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// calcTheme defines the calculator style.
type calcTheme struct {
	*material.Theme
	Color struct {
		Background color.NRGBA
		Digit      color.NRGBA
		Special    color.NRGBA
		Memory     color.NRGBA
		Op         color.NRGBA
		ActiveOp   color.NRGBA
		Result     color.NRGBA
		ResultBG   color.NRGBA
		Status     color.NRGBA
		Error      color.NRGBA
	}
	Size struct {
		Width        unit.Dp
		Height       unit.Dp
		Inset        unit.Dp
		CornerRadius unit.Dp
		StatusText   unit.Sp
		StackText    unit.Sp
	}
}

func newCalcTheme() *calcTheme {
	th := &calcTheme{Theme: material.NewTheme()}
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	// Colors.
	th.Color.Background = color.NRGBA{50, 50, 50, 255}
	th.Color.Digit = color.NRGBA{90, 90, 90, 255}
	th.Color.Special = color.NRGBA{70, 70, 70, 255}
	th.Color.Memory = color.NRGBA{70, 90, 110, 255}
	th.Color.Op = color.NRGBA{122, 90, 90, 255}
	th.Color.ActiveOp = color.NRGBA{160, 90, 90, 255}
	th.Color.Result = color.NRGBA{255, 255, 255, 255}
	th.Color.ResultBG = color.NRGBA{35, 35, 35, 255}
	th.Color.Status = color.NRGBA{160, 160, 160, 255}
	th.Color.Error = color.NRGBA{255, 119, 119, 255}

	// Sizes.
	th.Size.Width = 270
	th.Size.Height = 420
	th.Size.Inset = 6
	th.Size.CornerRadius = 3.5
	th.Size.StatusText = 12
	th.Size.StackText = 10

	return th
}
