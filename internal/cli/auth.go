package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/ui"
)

func doAuthLogin(opt Options) int {
	in := opt.Stdin
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprint(ui.Out, "Paste your token: ")
	token, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && strings.TrimSpace(token) == "" {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := auth.Save(token); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout(opt Options) int {
	c, _ := auth.Resolve(configToken(opt))
	switch {
	case c == nil:
		ui.OK("not logged in")
		return 0
	case c.Source == auth.SourceEnv:
		ui.OK("token comes from " + auth.EnvToken + " (nothing to delete)")
		return 0
	case c.Source == auth.SourceConfig:
		ui.OK("token comes from a config file; remove its token key to log out")
		return 0
	}
	if err := auth.Forget(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus(opt Options) int {
	c, err := auth.Resolve(configToken(opt))
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if c == nil {
		fmt.Fprintln(ui.Out, ui.Dim("not logged in"))
		fmt.Fprintln(ui.Out, "Run: tada auth login")
		return 0
	}
	fmt.Fprintf(ui.Out, "source: %s\n", c.Source)
	if !c.SavedAt.IsZero() {
		fmt.Fprintf(ui.Out, "saved: %s\n", c.SavedAt.Format(time.RFC3339))
	}
	fmt.Fprintln(ui.Out, "env override: "+auth.EnvToken)
	return 0
}

func configToken(opt Options) string {
	if opt.Config == nil {
		return ""
	}
	return opt.Config.Token
}
