package tui

// Key bindings.
const (
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
	keyEnter   = "enter"
	keyEsc     = "esc"
	keySlash   = "/"
	keyRefresh = "r"
	keyTab     = "tab"
	keyNext    = "n"
	keyPrev    = "p"
	keyRight   = "right"
	keyLeft    = "left"
	keyCopy    = "y"
	keyBack    = "backspace"
)
