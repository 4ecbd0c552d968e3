// Package cmd implements the sbu command line desk.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/sbudesk/api"
	"github.com/etnz/sbudesk/config"
	"github.com/etnz/sbudesk/desk"
	"github.com/etnz/sbudesk/session"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lifecycle, so it is ok to use global variables.

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
	now              = time.Now

	loadConfig = func() (*config.Config, error) { return config.Load(flag.CommandLine) }
)

type entry struct {
	cmd   subcommands.Command
	group string
}

func commands() []entry {
	return []entry{
		{&loginCmd{}, "session"},
		{&logoutCmd{}, "session"},
		{&whoamiCmd{}, "session"},

		{&sbusCmd{}, "staff"},
		{&performanceCmd{}, "staff"},
		{&submitSaleCmd{}, "staff"},
		{&submitExpenseCmd{}, "staff"},

		{&employeesCmd{}, "admin"},
		{&createEmployeeCmd{}, "admin"},
		{&deleteEmployeeCmd{}, "admin"},
		{&createSBUCmd{}, "admin"},
		{&currencyCmd{}, "admin"},
		{&setCurrencyCmd{}, "admin"},
		{&reportCmd{}, "admin"},

		{&topicCmd{}, "help"},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range commands() {
		c.Register(e.cmd, e.group)
	}
}

// Has reports whether name is a built in subcommand.
func Has(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, e := range commands() {
		if e.cmd.Name() == name {
			return true
		}
	}
	return false
}

// app is what every subcommand works with.
type app struct {
	cfg  *config.Config
	desk *desk.Desk
}

func open() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Verbose)

	d := desk.New(api.New(cfg.APIBase, cfg.Timeout), session.NewGuard(session.NewFileStore(cfg.TokenDir)))
	d.RefreshDelay = cfg.RefreshDelay
	d.Now = now
	return &app{cfg: cfg, desk: d}, nil
}

// openView opens the app and authorizes a view requiring req.
func openView(req session.Requirement) (*app, session.Session, subcommands.ExitStatus, bool) {
	a, err := open()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return nil, session.Session{}, subcommands.ExitFailure, false
	}
	sess, err := a.desk.Authorize(req)
	if err != nil {
		return nil, session.Session{}, failure(err), false
	}
	return a, sess, subcommands.ExitSuccess, true
}

// failure prints err and returns the matching exit status.
func failure(err error) subcommands.ExitStatus {
	switch {
	case desk.LoginRequired(err):
		fmt.Fprintf(stderr, "Error: %v\nPlease login again with 'sbu login'.\n", err)
	case errors.Is(err, desk.ErrInvalidForm):
		fmt.Fprintf(stderr, "Error: invalid input: %v\n", err)
		return subcommands.ExitUsageError
	case errors.Is(err, desk.ErrRefreshFailed):
		fmt.Fprintf(stderr, "Warning: %v\nRun 'sbu performance' to see it.\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return subcommands.ExitFailure
}
