package exception

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Formatter renders an Error for human consumption, in the shape a Ruby
// interpreter prints uncaught exceptions.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a Formatter that colors output when w is a terminal.
func NewFormatter(w io.Writer) *Formatter {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Formatter{UseColor: useColor}
}

var (
	colorClass = color.New(color.FgRed, color.Bold)
	colorFrame = color.New(color.Faint)
)

// Format renders the error message, class, and backtrace.
func (f *Formatter) Format(err *Error) string {
	var sb strings.Builder
	sb.WriteString(string(err.Message()))
	sb.WriteString(" (")
	if f.UseColor {
		sb.WriteString(colorClass.Sprint(err.ClassName()))
	} else {
		sb.WriteString(err.ClassName())
	}
	sb.WriteString(")\n")
	for _, frame := range err.Backtrace() {
		line := "\tfrom " + frame + "\n"
		if f.UseColor {
			line = colorFrame.Sprint(line)
		}
		sb.WriteString(line)
	}
	return sb.String()
}
