package core

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/josephlewis42/mysh/core/config"
	"github.com/mattn/go-isatty"
)

var (
	ColorBoldBlue  = []color.Attribute{color.FgBlue, color.Bold}
	ColorBoldGreen = []color.Attribute{color.FgGreen, color.Bold}
	ColorBoldRed   = []color.Attribute{color.FgRed, color.Bold}
)

// ColorPrinter colors text written to Out according to Mode.
type ColorPrinter struct {
	Mode config.ColorMode
	Out  *os.File
}

func (c *ColorPrinter) ShouldColor() bool {
	switch c.Mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		if c.Out == nil {
			return false
		}
		fd := c.Out.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
}

func (c *ColorPrinter) Sprintf(attrs []color.Attribute, format string, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprintf(format, a...)
	}

	clr := color.New(attrs...)
	// The package level NoColor flag is decided from os.Stdout, which isn't
	// necessarily Out.
	clr.EnableColor()
	return clr.Sprintf(format, a...)
}
