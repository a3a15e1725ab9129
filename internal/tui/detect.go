package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how results are presented.
type OutputMode int

// Output modes.
const (
	// OutputModePlain writes unstyled text, for pipes and files.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text to a terminal.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	default:
		return "plain"
	}
}

// DetectOutputMode picks a mode from the terminal state. noColor and plain
// force plain output; noInteractive caps the mode at styled.
func DetectOutputMode(noColor, plain, noInteractive bool) OutputMode {
	return detectOutputMode(noColor, plain, noInteractive,
		isTerminal(os.Stdout), isTerminal(os.Stdin), os.Getenv("NO_COLOR") != "", os.Getenv("CI") != "")
}

func detectOutputMode(noColor, plain, noInteractive, stdoutTTY, stdinTTY, envNoColor, ci bool) OutputMode {
	if plain || noColor || envNoColor || !stdoutTTY {
		return OutputModePlain
	}
	if noInteractive || ci || !stdinTTY {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalWidth returns the width of stdout, or the default when it is not
// a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
