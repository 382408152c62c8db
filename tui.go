package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nsf/termbox-go"

	"hadydotai/bonding-curve-client/trade"
)

type uiMode uint8

const (
	modeEdit uiMode = iota
	modeAwaitDecision
)

type userDecision uint8

const (
	decisionNone userDecision = iota
	decisionProceed
	decisionAbort
)

const slippageStep = 0.5

type termUI struct {
	session         *trade.Session
	builder         *TableBuilder
	logger          *slog.Logger
	mode            uiMode
	focus           trade.Field
	buffers         map[trade.Field][]rune
	tableLines      []string
	statusMessage   string
	decision        userDecision
	cursorVisible   bool
	tableFlashUntil time.Time
}

func newTermUI(session *trade.Session, builder *TableBuilder, logger *slog.Logger) *termUI {
	ui := &termUI{
		session:       session,
		builder:       builder,
		logger:        logger,
		mode:          modeEdit,
		focus:         trade.FieldToken,
		buffers:       map[trade.Field][]rune{trade.FieldToken: nil, trade.FieldCurrency: nil},
		cursorVisible: true,
	}
	ui.syncBuffers()
	ui.refresh()
	return ui
}

func (ui *termUI) Run() (userDecision, error) {
	if err := termbox.Init(); err != nil {
		return decisionNone, err
	}
	defer termbox.Close()
	eventCh := make(chan termbox.Event)
	go func() {
		for {
			eventCh <- termbox.PollEvent()
		}
	}()
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()

	for {
		ui.draw()
		select {
		case ev := <-eventCh:
			switch ev.Type {
			case termbox.EventError:
				return decisionNone, ev.Err
			case termbox.EventResize:
				continue
			case termbox.EventKey:
				if ui.handleKey(ev) {
					return ui.decision, nil
				}
			}
		case <-ticker.C:
			if ui.mode == modeEdit {
				ui.cursorVisible = !ui.cursorVisible
			} else {
				ui.cursorVisible = true
			}
		}
	}
}

// handleKey applies one key press and reports whether the form should close.
func (ui *termUI) handleKey(ev termbox.Event) bool {
	if ev.Key == termbox.KeyCtrlC {
		ui.decision = decisionAbort
		return true
	}
	switch ui.mode {
	case modeAwaitDecision:
		switch ev.Ch {
		case 'y', 'Y':
			ui.decision = decisionProceed
			return true
		case 'n', 'N':
			ui.mode = modeEdit
			ui.statusMessage = ""
		}
		if ev.Key == termbox.KeyEsc {
			ui.mode = modeEdit
			ui.statusMessage = ""
		}
	case modeEdit:
		switch ev.Key {
		case termbox.KeyEsc:
			ui.decision = decisionAbort
			return true
		case termbox.KeyEnter:
			if !ui.session.TokenAmount().Valid || !ui.session.CurrencyAmount().Valid {
				ui.statusMessage = "Nothing to submit, enter an amount first."
				return false
			}
			if ui.session.IsInsufficientBalance() {
				ui.statusMessage = "Insufficient balance for this trade."
				return false
			}
			ui.mode = modeAwaitDecision
			ui.statusMessage = "Submit this order? y=yes, n=no."
			return false
		case termbox.KeyTab:
			ui.focus = otherField(ui.focus)
			ui.builder.SetFocus(ui.focus)
			ui.syncBuffers()
			ui.refresh()
			return false
		case termbox.KeyCtrlB:
			ui.session.SetBuying(!ui.session.IsBuying())
			ui.focus = trade.FieldToken
			ui.builder.SetFocus(ui.focus)
			ui.syncBuffers()
			ui.refresh()
			return false
		case termbox.KeyCtrlR:
			ui.session.Reset()
			ui.focus = trade.FieldToken
			ui.builder.SetFocus(ui.focus)
			ui.syncBuffers()
			ui.refresh()
			return false
		case termbox.KeyArrowUp, termbox.KeyArrowDown:
			step := slippageStep
			if ev.Key == termbox.KeyArrowDown {
				step = -step
			}
			ui.session.SetSlippage(clampSlippage(ui.session.Slippage() + step))
			ui.refresh()
			return false
		case termbox.KeyBackspace, termbox.KeyBackspace2:
			buf := ui.buffers[ui.focus]
			if len(buf) > 0 {
				ui.buffers[ui.focus] = buf[:len(buf)-1]
				ui.edit()
			}
			return false
		}
		if ev.Ch != 0 {
			ui.buffers[ui.focus] = append(ui.buffers[ui.focus], ev.Ch)
			ui.edit()
		}
	}
	return false
}

// edit pushes the focused buffer into the session and mirrors the derived
// field back into its buffer.
func (ui *termUI) edit() {
	raw := string(ui.buffers[ui.focus])
	ui.statusMessage = ""
	if err := ui.session.OnFieldEdited(ui.focus, raw); err != nil {
		ui.logger.Error("trade session rejected edit", "field", ui.focus, "input", raw, "error", err)
		ui.statusMessage = fmt.Sprintf("failed to quote: %v", err)
	}
	ui.buffers[otherField(ui.focus)] = []rune(sessionValue(ui.session, otherField(ui.focus)))
	ui.refresh()
}

func (ui *termUI) syncBuffers() {
	for field := range ui.buffers {
		ui.buffers[field] = []rune(sessionValue(ui.session, field))
	}
}

func (ui *termUI) refresh() {
	ui.tableLines = splitLines(ui.builder.Build())
	ui.tableFlashUntil = time.Now().Add(150 * time.Millisecond)
}

// sessionValue is the unrounded amount, so editing a mirrored value starts
// from exactly what the session holds. The table does the rounding.
func sessionValue(s *trade.Session, field trade.Field) string {
	v := s.TokenAmount()
	if field == trade.FieldCurrency {
		v = s.CurrencyAmount()
	}
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

func otherField(f trade.Field) trade.Field {
	if f == trade.FieldToken {
		return trade.FieldCurrency
	}
	return trade.FieldToken
}

func clampSlippage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > trade.MaxSlippage {
		return trade.MaxSlippage
	}
	return p
}

func (ui *termUI) draw() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	width, height := termbox.Size()
	tableArea := height - 2
	if tableArea < 0 {
		tableArea = 0
	}
	linesToShow := len(ui.tableLines)
	if linesToShow > tableArea {
		linesToShow = tableArea
	}
	startRow := 0
	if linesToShow < tableArea {
		startRow = tableArea - linesToShow
	}
	fg := termbox.ColorDefault
	bg := termbox.ColorDefault
	if time.Now().Before(ui.tableFlashUntil) {
		fg = termbox.ColorWhite | termbox.AttrBold
	}
	if ui.session.IsInsufficientBalance() {
		fg = termbox.ColorRed
	}
	for i := 0; i < linesToShow; i++ {
		ui.drawTextColor(0, startRow+i, width, ui.tableLines[i], fg, bg)
	}
	if height >= 2 {
		ui.drawText(0, height-2, width, ui.statusLine())
	}
	if height >= 1 {
		ui.drawText(0, height-1, width, ui.promptLine())
		ui.drawCursor(width, height-1)
	}
	termbox.Flush()
}

func (ui *termUI) drawText(x, y, width int, text string) {
	ui.drawTextColor(x, y, width, text, termbox.ColorDefault, termbox.ColorDefault)
}

func (ui *termUI) drawTextColor(x, y, width int, text string, fg, bg termbox.Attribute) {
	if y < 0 {
		return
	}
	col := 0
	for _, ch := range text {
		if col >= width {
			break
		}
		termbox.SetCell(x+col, y, ch, fg, bg)
		col++
	}
}

func (ui *termUI) statusLine() string {
	if ui.statusMessage != "" {
		return ui.statusMessage
	}
	if ui.mode == modeAwaitDecision {
		return "Submit this order? y=yes, n=no."
	}
	return "Tab=switch field, Ctrl-B=buy/sell, Ctrl-R=reset, Up/Down=slippage, Enter=submit, Esc=quit."
}

func (ui *termUI) promptLine() string {
	return ui.promptPrefix() + string(ui.buffers[ui.focus])
}

func (ui *termUI) promptPrefix() string {
	if ui.focus == trade.FieldCurrency {
		return fmt.Sprintf("%s> ", ui.builder.currencySymbol)
	}
	return fmt.Sprintf("%s> ", ui.builder.tokenSymbol)
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (ui *termUI) drawCursor(width, row int) {
	if row < 0 || width <= 0 || ui.mode != modeEdit {
		return
	}
	col := ui.promptCursorColumn()
	if col >= width {
		col = width - 1
	}
	if col < 0 {
		return
	}
	ch := ' '
	if ui.cursorVisible {
		ch = '_'
	}
	termbox.SetCell(col, row, ch, termbox.ColorDefault, termbox.ColorDefault)
}

func (ui *termUI) promptCursorColumn() int {
	return utf8.RuneCountInString(ui.promptLine())
}
