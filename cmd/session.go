package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/sbudesk/desk"
	"github.com/etnz/sbudesk/session"
	"github.com/google/subcommands"
)

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and keep the session" }
func (*loginCmd) Usage() string {
	return `sbu login -u <username> [-p <password>]

  Exchanges the credentials for a session token and keeps it for the next
  commands. The password is prompted for when -p is not given.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username")
	f.StringVar(&c.password, "p", "", "password (prompted for when empty)")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.username == "" {
		if c.username, err = prompt("Username: ", false); err != nil {
			return failure(err)
		}
	}
	if c.password == "" {
		if c.password, err = prompt("Password: ", true); err != nil {
			return failure(err)
		}
	}

	sess, user, err := a.desk.Login(ctx, desk.LoginForm{Username: c.username, Password: c.password})
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Logged in as %s (%s)\n", user.Username, sess.Role)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "forget the session" }
func (*logoutCmd) Usage() string {
	return `sbu logout

  Clears the stored session token.
`
}

func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (*logoutCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	a.desk.Logout()
	fmt.Fprintln(stdout, "Logged out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the session user and the views it can open" }
func (*whoamiCmd) Usage() string {
	return `sbu whoami

  Shows the logged in user, its role and the views the role opens.
`
}

func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireAny)
	if !ok {
		return status
	}
	user, err := a.desk.Me(ctx, sess)
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "%s (%s), views: %s\n", user.Username, sess.Role, strings.Join(sess.Role.Views(), ", "))
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(stdout, "session expires at %s\n", sess.ExpiresAt.Local().Format(time.DateTime))
	}
	return subcommands.ExitSuccess
}
