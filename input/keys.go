package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/simloop/event"
)

var tcellKeys = map[tcell.Key]event.Key{
	tcell.KeyEscape:     event.KeyEscape,
	tcell.KeyEnter:      event.KeyEnter,
	tcell.KeyTab:        event.KeyTab,
	tcell.KeyBacktab:    event.KeyBacktab,
	tcell.KeyBackspace:  event.KeyBackspace,
	tcell.KeyBackspace2: event.KeyBackspace,
	tcell.KeyDelete:     event.KeyDelete,
	tcell.KeyUp:         event.KeyUp,
	tcell.KeyDown:       event.KeyDown,
	tcell.KeyLeft:       event.KeyLeft,
	tcell.KeyRight:      event.KeyRight,
	tcell.KeyHome:       event.KeyHome,
	tcell.KeyEnd:        event.KeyEnd,
	tcell.KeyPgUp:       event.KeyPageUp,
	tcell.KeyPgDn:       event.KeyPageDown,
	tcell.KeyInsert:     event.KeyInsert,
	tcell.KeyF1:         event.KeyF1,
	tcell.KeyF2:         event.KeyF2,
	tcell.KeyF3:         event.KeyF3,
	tcell.KeyF4:         event.KeyF4,
	tcell.KeyF5:         event.KeyF5,
	tcell.KeyF6:         event.KeyF6,
	tcell.KeyF7:         event.KeyF7,
	tcell.KeyF8:         event.KeyF8,
	tcell.KeyF9:         event.KeyF9,
	tcell.KeyF10:        event.KeyF10,
	tcell.KeyF11:        event.KeyF11,
	tcell.KeyF12:        event.KeyF12,
}

// TranslateModifiers converts a tcell modifier mask
func TranslateModifiers(m tcell.ModMask) event.Modifier {
	var mod event.Modifier
	if m&tcell.ModShift != 0 {
		mod |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= event.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mod |= event.ModMeta
	}
	return mod
}

// TranslateKey converts a tcell key event; false for keys with no equivalent
// Control letters arrive as their lowercase rune with ModCtrl
func TranslateKey(ev *tcell.EventKey) (event.KeyPress, bool) {
	mod := TranslateModifiers(ev.Modifiers())

	if ev.Key() == tcell.KeyRune {
		return event.KeyPress{Key: event.KeyRune, Rune: ev.Rune(), Mod: mod}, true
	}
	if k, ok := tcellKeys[ev.Key()]; ok {
		return event.KeyPress{Key: k, Mod: mod}, true
	}
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := 'a' + rune(ev.Key()-tcell.KeyCtrlA)
		return event.KeyPress{Key: event.KeyRune, Rune: r, Mod: mod | event.ModCtrl}, true
	}
	return event.KeyPress{}, false
}
