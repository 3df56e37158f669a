// Package tui is a terminal editor for leaf pair openings. Every pair is a
// slider with two handles; the editor drives a session.Session through the
// session.PairControl capability.
package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"custommlc/internal/models"
	"custommlc/pkg/config"
	"custommlc/pkg/presets"
	"custommlc/pkg/session"
)

// Outcome tells the caller how the editor was left
type Outcome int

const (
	Cancelled Outcome = iota
	Export
)

type inputMode int

const (
	modeNone inputMode = iota
	modeFieldSize
	modeShift
	modePair
)

var modePrompts = map[inputMode]string{
	modeFieldSize: "field size [cm]: ",
	modeShift:     "shift [cm]: ",
	modePair:      "pair left right [cm]: ",
}

const (
	headerRows = 2
	labelWidth = 5
	valueWidth = 16
	step       = 0.5
)

var (
	styleLeaf   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleOpen   = tcell.StyleDefault
	styleHandle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCursor = tcell.StyleDefault.Reverse(true)
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Slider is the two handled control of one leaf pair
type Slider struct {
	opening models.LeafPairOpening
}

func (s *Slider) Values() models.LeafPairOpening {
	return s.opening
}

func (s *Slider) SetValues(o models.LeafPairOpening) {
	s.opening = o
}

// Editor holds the editing state
type Editor struct {
	session *session.Session
	limit   float64

	cursor int
	top    int
	right  bool

	mode   inputMode
	input  []rune
	status string
	failed bool

	preset int
}

// NewEditor creates sliders for every rendered pair, starting from zigzag
func NewEditor(cfg *config.Config) *Editor {
	n := cfg.RenderedPairs()
	controls := make([]session.PairControl, n)
	for i, o := range presets.ZigZag(n) {
		controls[i] = &Slider{opening: o}
	}
	return &Editor{
		session: session.New(cfg, controls),
		limit:   cfg.Device.MaxHalfField,
		preset:  -1,
	}
}

// Session returns the session edited
func (e *Editor) Session() *session.Session {
	return e.session
}

// Run draws the editor and processes events until the user exports or
// quits. The screen must be initialised; the caller finalises it.
func (e *Editor) Run(screen tcell.Screen) Outcome {
	for {
		e.Draw(screen)
		ev := screen.PollEvent()
		if ev == nil {
			return Cancelled
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if done, outcome := e.HandleKey(ev); done {
				return outcome
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// HandleKey applies one key press. It reports whether editing is finished.
func (e *Editor) HandleKey(ev *tcell.EventKey) (bool, Outcome) {
	if ev.Key() == tcell.KeyCtrlC {
		return true, Cancelled
	}
	if e.mode != modeNone {
		e.handleInputKey(ev)
		return false, Cancelled
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		return true, Cancelled
	case tcell.KeyEnter:
		return true, Export
	case tcell.KeyUp:
		e.moveCursor(-1)
	case tcell.KeyDown:
		e.moveCursor(1)
	case tcell.KeyLeft:
		e.moveHandle(-step)
	case tcell.KeyRight:
		e.moveHandle(step)
	case tcell.KeyTab:
		e.right = !e.right
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true, Cancelled
		case 'k':
			e.moveCursor(-1)
		case 'j':
			e.moveCursor(1)
		case 'h':
			e.moveHandle(-step)
		case 'l':
			e.moveHandle(step)
		case 'p':
			e.nextPreset()
		case 'f':
			e.startInput(modeFieldSize)
		case 'o':
			e.startInput(modeShift)
		case 'e':
			e.startInput(modePair)
		}
	}
	return false, Cancelled
}

func (e *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		e.mode = modeNone
		e.input = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(e.input) > 0 {
			e.input = e.input[:len(e.input)-1]
		}
	case tcell.KeyEnter:
		e.commitInput()
	case tcell.KeyRune:
		e.input = append(e.input, ev.Rune())
	}
}

func (e *Editor) startInput(mode inputMode) {
	e.mode = mode
	e.input = nil
}

func (e *Editor) commitInput() {
	text := string(e.input)
	mode := e.mode
	e.mode = modeNone
	e.input = nil

	var ok bool
	switch mode {
	case modeFieldSize:
		ok = e.session.ApplyFieldSize(text)
	case modeShift:
		ok = e.session.Shift(text)
	case modePair:
		ok = e.session.SetPairText(e.cursor, text).Valid
	}
	if ok {
		e.setStatus(fmt.Sprintf("applied %q", text), false)
		return
	}
	e.setStatus(fmt.Sprintf("ignored %q", text), true)
}

func (e *Editor) setStatus(text string, failed bool) {
	e.status = text
	e.failed = failed
}

func (e *Editor) moveCursor(d int) {
	e.cursor = max(min(e.cursor+d, e.session.Len()-1), 0)
}

func (e *Editor) moveHandle(d float64) {
	if e.session.Len() == 0 {
		return
	}
	c := e.session.Control(e.cursor)
	o := c.Values()
	if e.right {
		o.Right = math.Max(-e.limit, math.Min(e.limit, o.Right+d))
	} else {
		o.Left = math.Max(-e.limit, math.Min(e.limit, o.Left+d))
	}
	c.SetValues(o)
}

func (e *Editor) nextPreset() {
	names := presets.Names()
	e.preset = (e.preset + 1) % len(names)
	e.session.ApplyPreset(names[e.preset])
	e.setStatus("preset "+names[e.preset], false)
}

// Draw renders the header, the input line and the visible sliders
func (e *Editor) Draw(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()

	handle := "left"
	if e.right {
		handle = "right"
	}
	header := fmt.Sprintf("MLC %d/%d pairs  handle:%s  [p]reset [f]ield [o]ffset [e]dit [tab] [enter] export [q]uit",
		e.session.Len(), e.session.Config().Device.NumberOfLeafPairs, handle)
	drawText(screen, 0, 0, w, header, styleOpen)

	if e.mode != modeNone {
		drawText(screen, 0, 1, w, modePrompts[e.mode]+string(e.input), styleHandle)
	} else if e.failed {
		drawText(screen, 0, 1, w, e.status, styleError)
	} else {
		drawText(screen, 0, 1, w, e.status, styleOpen)
	}

	rows := h - headerRows
	if rows <= 0 {
		screen.Show()
		return
	}
	if e.cursor < e.top {
		e.top = e.cursor
	}
	if e.cursor >= e.top+rows {
		e.top = e.cursor - rows + 1
	}

	barWidth := w - labelWidth - valueWidth
	for i := e.top; i < e.session.Len() && i-e.top < rows; i++ {
		y := headerRows + i - e.top
		label := styleOpen
		if i == e.cursor {
			label = styleCursor
		}
		drawText(screen, 0, y, labelWidth, fmt.Sprintf("%3d ", i), label)

		o := e.session.Control(i).Values()
		if barWidth > 2 {
			e.drawBar(screen, labelWidth, y, barWidth, o)
		}
		drawText(screen, labelWidth+max(barWidth, 0), y, valueWidth, fmt.Sprintf(" %6.2f %6.2f", o.Left, o.Right), styleOpen)
	}

	screen.Show()
}

func (e *Editor) drawBar(screen tcell.Screen, x0, y, width int, o models.LeafPairOpening) {
	lo, hi := o.Sorted()
	col := func(v float64) int {
		c := int(math.Round((v + e.limit) / (2 * e.limit) * float64(width-1)))
		return min(max(c, 0), width-1)
	}
	l, r := col(lo), col(hi)
	for c := 0; c < width; c++ {
		ch, style := '█', styleLeaf
		if c > l && c < r {
			ch, style = ' ', styleOpen
		}
		if c == l || c == r {
			ch, style = '|', styleHandle
		}
		screen.SetContent(x0+c, y, ch, nil, style)
	}
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	c := 0
	for _, r := range text {
		if c >= width {
			return
		}
		screen.SetContent(x+c, y, r, nil, style)
		c++
	}
}
