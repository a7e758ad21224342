package main

import (
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gioui.org/app"
	"gioui.org/io/clipboard"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/fjl/gio-calc/internal/engine"
	"github.com/fjl/gio-calc/internal/keycalc"
	"github.com/fjl/gio-calc/internal/memstore"
)

// calcUI is the user interface of the calculator.
type calcUI struct {
	calc    *calculator
	theme   *calcTheme
	buttons [len(keypad)][len(keypad[0])]*button

	cornerRadius int
	gridSpacing  int
}

func newUI(theme *calcTheme, calc *calculator) *calcUI {
	ui := &calcUI{theme: theme, calc: calc}
	for row := range keypad {
		for col, spec := range keypad[row] {
			ui.buttons[row][col] = &button{buttonSpec: spec}
		}
	}
	return ui
}

// Layout draws the UI.
func (ui *calcUI) Layout(gtx layout.Context) layout.Dimensions {
	// Adapt design for screen size.
	scaleFactor := float32(gtx.Constraints.Max.X) / float32(gtx.Dp(ui.theme.Size.Width))
	ui.cornerRadius = gtx.Dp(ui.theme.Size.CornerRadius * unit.Dp(scaleFactor))
	ui.gridSpacing = gtx.Dp(ui.theme.Size.Inset * unit.Dp(scaleFactor))

	// Handle key events.
	ui.layoutInput(gtx)

	inset := layout.UniformInset(ui.theme.Size.Inset)
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		flex := layout.Flex{Axis: layout.Vertical, Spacing: layout.SpaceStart}
		return flex.Layout(gtx,
			layout.Flexed(25, func(gtx layout.Context) layout.Dimensions {
				return inset.Layout(gtx, ui.layoutResult)
			}),
			layout.Flexed(75, func(gtx layout.Context) layout.Dimensions {
				return inset.Layout(gtx, ui.layoutButtons)
			}),
		)
	})
}

func (ui *calcUI) layoutResult(gtx layout.Context) layout.Dimensions {
	rect := image.Rectangle{Max: gtx.Constraints.Max}
	rr := clip.UniformRRect(rect, ui.cornerRadius)
	paint.FillShape(gtx.Ops, ui.theme.Color.ResultBG, rr.Op(gtx.Ops))

	inset := layout.UniformInset(ui.theme.Size.Inset)
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return ui.layoutSmallText(gtx, ui.calc.Status(), ui.theme.Size.StatusText)
			}),
			layout.Flexed(1, ui.layoutResultText),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				stacks := ui.calc.OperatorStack() + "  " + ui.calc.ValueStack()
				return ui.layoutSmallText(gtx, stacks, ui.theme.Size.StackText)
			}),
		)
	})
}

func (ui *calcUI) layoutSmallText(gtx layout.Context, s string, size unit.Sp) layout.Dimensions {
	l := material.Label(ui.theme.Theme, size, s)
	l.Color = ui.theme.Color.Status
	l.Alignment = text.End
	l.MaxLines = 1
	return l.Layout(gtx)
}

func (ui *calcUI) layoutResultText(gtx layout.Context) layout.Dimensions {
	// Scale font based on height.
	fontSizePx := float32(gtx.Constraints.Max.Y) / 1.1
	fontSizeSp := unit.Sp(fontSizePx / gtx.Metric.PxPerSp)

	l := material.Label(ui.theme.Theme, fontSizeSp, ui.calc.text())
	l.Color = ui.theme.Color.Result
	if ui.calc.Failed() {
		l.Color = ui.theme.Color.Error
	}
	l.Alignment = text.End
	return shrinkToFit(gtx, l.Layout)
}

func (ui *calcUI) layoutButtons(gtx layout.Context) layout.Dimensions {
	g := grid{
		rows:    len(ui.buttons),
		cols:    len(ui.buttons[0]),
		spacing: ui.gridSpacing,
	}
	return g.layout(gtx, func(row, col int, gtx layout.Context) layout.Dimensions {
		return ui.layoutButton(gtx, ui.buttons[row][col])
	})
}

func (ui *calcUI) layoutButton(gtx layout.Context, b *button) layout.Dimensions {
	if b.clicker.Clicked() {
		ui.calc.press(b.code)
	}

	textSizePx := float32(gtx.Constraints.Max.Y) / 2.2
	textSizeSp := unit.Sp(textSizePx / gtx.Metric.PxPerSp)

	style := material.Button(ui.theme.Theme, &b.clicker, b.text)
	style.Background = ui.buttonColor(b)
	style.Inset = layout.Inset{}
	style.TextSize = textSizeSp
	style.CornerRadius = unit.Dp(float32(ui.cornerRadius) / gtx.Metric.PxPerDp)
	return style.Layout(gtx)
}

func (ui *calcUI) buttonColor(b *button) color.NRGBA {
	switch {
	case b.code == keycalc.KeyMemory && ui.calc.State() == keycalc.EnteringMemory:
		return ui.theme.Color.ActiveOp
	case b.kind == kindOp && b.code != engine.OpEvaluate && b.code == ui.calc.activeOp():
		return ui.theme.Color.ActiveOp
	}
	switch b.kind {
	case kindDigit:
		return ui.theme.Color.Digit
	case kindOp:
		return ui.theme.Color.Op
	case kindMemory:
		return ui.theme.Color.Memory
	default:
		return ui.theme.Color.Special
	}
}

// layoutInput registers the global key handler.
func (ui *calcUI) layoutInput(gtx layout.Context) {
	// Register handler for key events.
	input := key.InputOp{
		Tag:  ui,
		Hint: key.HintNumeric,
		Keys: "Short-[C,V]|(Shift)-[0,1,2,3,4,5,6,7,8,9,.,+,*,/,%,=,(,),M,S,R,⌤,⏎,⌫,⌦,⎋]|(Alt)-(Shift)-[-]",
	}
	input.Add(gtx.Ops)

	// Request keyboard focus. This is required to make the Return key work.
	key.FocusOp{Tag: ui}.Add(gtx.Ops)

	for _, ev := range gtx.Queue.Events(ui) {
		switch ev := ev.(type) {
		case key.Event:
			switch {
			case isCopy(ev):
				op := clipboard.WriteOp{Text: ui.calc.Display()}
				op.Add(gtx.Ops)
			case isPaste(ev):
				op := clipboard.ReadOp{Tag: ui}
				op.Add(gtx.Ops)
			default:
				ui.handleKey(ev)
			}

		case clipboard.Event:
			ui.calc.paste(ev.Text)
		}
	}
}

func isCopy(e key.Event) bool {
	return e.Name == "C" && e.Modifiers.Contain(key.ModShortcut)
}

func isPaste(e key.Event) bool {
	return e.Name == "V" && e.Modifiers.Contain(key.ModShortcut)
}

// handleKey handles a key event.
func (ui *calcUI) handleKey(e key.Event) {
	if e.State == key.Release {
		return
	}
	if code, ok := keyCode(e.Name, e.Modifiers); ok {
		ui.calc.press(code)
	}
}

// button is a clickable keypad button.
type button struct {
	buttonSpec
	clicker widget.Clickable
}

func main() {
	go func() {
		var (
			theme    = newCalcTheme()
			size     = app.Size(theme.Size.Width, theme.Size.Height)
			statusBg = app.StatusColor(theme.Color.Background)
			navBg    = app.NavigationColor(theme.Color.Background)
			title    = app.Title("GioCalc")
			portrait = app.PortraitOrientation.Option()
			window   = app.NewWindow(statusBg, navBg, size, title, portrait)
		)
		window.Option(app.MinSize(theme.Size.Width, theme.Size.Height))

		if err := loop(window, theme); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

// loop is the main loop of the app.
func loop(w *app.Window, theme *calcTheme) error {
	datadir, err := app.DataDir()
	if err != nil {
		return err
	}
	store, err := memstore.NewJournal(filepath.Join(datadir, "giocalc"))
	if err != nil {
		return err
	}
	defer store.Close()

	var (
		calc = newCalculator(store)
		ui   = newUI(theme, calc)
		ops  op.Ops
	)
	for e := range w.Events() {
		switch e := e.(type) {
		case system.StageEvent:
			if e.Stage == system.StagePaused {
				store.Persist()
			}
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			paint.Fill(gtx.Ops, theme.Color.Background)
			ui.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
	return nil
}
