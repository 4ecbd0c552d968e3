package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/sbudesk/desk"
	"github.com/etnz/sbudesk/renderer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// setupLogging routes the global logger to stderr, human readable.
func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printMarkdown renders md for the terminal, or prints it as is when stdout
// is not a terminal.
func printMarkdown(md string) {
	if !isTerminal(stdout) {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// output selects how a month is printed.
type output struct {
	json  bool
	cards bool
}

func (o output) print(title, currency string, m *desk.Month, markdown func(*renderer.Performance) string) error {
	p := renderer.Present(title, currency, m.Series, m.Summary)
	switch {
	case o.json:
		data, err := renderer.ChartJSON(p)
		if err != nil {
			return err
		}
		if data == nil {
			data = []byte("null")
		}
		fmt.Fprintln(stdout, string(data))
	case o.cards:
		fmt.Fprintln(stdout, renderer.Cards(p))
	default:
		printMarkdown(markdown(p))
	}
	return nil
}

// input buffers stdin across prompts, so that lines read ahead by one prompt
// are still there for the next one.
var input struct {
	src    io.Reader
	reader *bufio.Reader
}

func stdinReader() *bufio.Reader {
	if input.reader == nil || input.src != stdin {
		input.src, input.reader = stdin, bufio.NewReader(stdin)
	}
	return input.reader
}

// prompt reads a line from stdin. Secrets are read without echo on a terminal.
func prompt(label string, secret bool) (string, error) {
	fmt.Fprint(stderr, label)
	if secret && isTerminal(stdin) {
		data, err := term.ReadPassword(int(stdin.(*os.File).Fd()))
		fmt.Fprintln(stderr)
		return string(data), err
	}
	line, err := stdinReader().ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("cannot read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
