package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

var colors = []color.Attribute{color.FgYellow, color.FgGreen, color.FgCyan, color.FgMagenta, color.FgBlue}

var (
	l     sync.Mutex
	index = -1
)

const MaxNameLength = 20

// ColorLogger prefixes every line written to it with a colored name. Loggers
// created one after another cycle through the palette, and writes from
// loggers sharing a writer do not interleave within a line.
type ColorLogger struct {
	name   string
	writer io.Writer
	c      *color.Color
}

func NewColorLogger(name string, writer io.Writer) *ColorLogger {
	l.Lock()
	index = (index + 1) % len(colors)
	c := color.New(colors[index])
	l.Unlock()

	if len(name) > MaxNameLength {
		name = name[:MaxNameLength-3] + "..."
	}

	return &ColorLogger{
		name:   fmt.Sprintf("%-*s", MaxNameLength, name),
		writer: writer,
		c:      c,
	}
}

func (c *ColorLogger) Write(p []byte) (int, error) {
	l.Lock()
	defer l.Unlock()

	for _, line := range bytes.SplitAfter(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if _, err := c.c.Fprint(c.writer, c.name, " | "); err != nil {
			return 0, err
		}
		if _, err := c.writer.Write(line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Printf writes one formatted status line.
func (c *ColorLogger) Printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line += "\n"
	}
	c.Write([]byte(line))
}
