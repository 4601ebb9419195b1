// Package console implements the interactive menu: one control per inventory
// operation, each driven by line prompts on the console.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

// ErrAborted is returned by a prompt when the user types the abort sentinel.
var ErrAborted = errors.New("operation aborted")

const returnHint = "Return to the main menu to start another task."

const welcome = `Hi, welcome to the Perishable superstore inventory system!
The database and the items table are ready.
Choose any of the options below to get started.
You can type abort during any of the operations to stop them.`

// control is one menu entry.
type control struct {
	label string
	run   func(ctx context.Context) error
}

// Shell is the console interaction surface.
type Shell struct {
	db       *db.DB
	in       *bufio.Reader
	out      io.Writer
	now      func() time.Time
	log      *slog.Logger
	controls []control
}

// Option configures a Shell.
type Option func(*Shell)

// WithClock overrides the clock used for expiry date checks.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithLogger sets the logger for operation and error events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.log = l }
}

// New creates a shell reading answers from in and writing to out.
func New(database *db.DB, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		db:  database,
		in:  bufio.NewReader(in),
		out: out,
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.controls = []control{
		{"Add Item", s.addItem},
		{"Remove Item", s.removeItem},
		{"View Items", s.viewItems},
		{"Update Items", s.updateItems},
		{"Search Items", s.searchItems},
		{"Exit Program", nil},
	}
	return s
}

// Run shows the menu and runs one control at a time until Exit Program is
// chosen or input ends. The database handle is closed before Run returns.
func (s *Shell) Run(ctx context.Context) error {
	defer s.closeDB()

	fmt.Fprintln(s.out, welcome)

	for {
		s.printMenu()

		line, err := s.readLine("Choose an option: ")
		if errors.Is(err, ErrAborted) {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading menu choice: %w", err)
		}

		c, ok := s.lookup(line)
		if !ok {
			fmt.Fprintf(s.out, "Unknown option %q.\n", line)
			continue
		}
		if c.run == nil {
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		}

		if err := s.dispatch(ctx, c); err == io.EOF {
			fmt.Fprintln(s.out)
			return nil
		}
	}
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out)
	for i, c := range s.controls {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, c.label)
	}
}

// lookup accepts either the control number or its label.
func (s *Shell) lookup(choice string) (control, bool) {
	choice = strings.TrimSpace(choice)
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(s.controls) {
		return s.controls[n-1], true
	}
	for _, c := range s.controls {
		if strings.EqualFold(choice, c.label) {
			return c, true
		}
	}
	return control{}, false
}

// dispatch runs a control to completion and reports how it ended. Only
// io.EOF is passed back to the caller.
func (s *Shell) dispatch(ctx context.Context, c control) error {
	err := c.run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrAborted):
		s.log.Info("operation aborted", "control", c.label)
		fmt.Fprintln(s.out, "Operation aborted. "+returnHint)
	case err == io.EOF:
		return err
	default:
		s.log.Warn("operation failed", "control", c.label, "error", err)
		fmt.Fprintf(s.out, "Error: %v\n%s\n", err, returnHint)
	}
	return nil
}

func (s *Shell) closeDB() {
	if err := s.db.Close(); err != nil {
		s.log.Error("closing database", "error", err)
	}
}

// readLine prints label and returns the next line without its line ending.
func (s *Shell) readLine(label string) (string, error) {
	fmt.Fprint(s.out, label)

	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	line = strings.TrimRight(line, "\r\n")
	if model.IsAbort(line) {
		return "", ErrAborted
	}
	return line, nil
}

// ask prompts until parse accepts the answer, printing each rejection.
func ask[T any](s *Shell, label string, parse func(string) (T, error)) (T, error) {
	for {
		raw, err := s.readLine(label)
		if err != nil {
			var zero T
			return zero, err
		}

		v, err := parse(raw)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(s.out, err)
	}
}
