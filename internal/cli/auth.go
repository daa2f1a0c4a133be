package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func doAuth(sub string, args []string, opt Options) int {
	switch sub {
	case "login":
		if len(args) > 1 {
			return usage("todo auth login [user-id|token]")
		}
		return doLogin(args, opt)
	case "logout":
		if err := auth.Delete(); err != nil {
			ui.Fail("logout: " + err.Error())
			return ExitError
		}
		ui.OK("logged out")
		return ExitOK
	case "status":
		return doStatus()
	case "whoami":
		s, err := auth.Require()
		if err != nil {
			ui.Fail(err.Error())
			return ExitError
		}
		fmt.Fprintln(ui.Stdout(), strconv.Itoa(s.UserID))
		return ExitOK
	}
	return usage("todo auth <login|logout|status|whoami>")
}

func doLogin(args []string, opt Options) int {
	var cred string
	if len(args) == 1 {
		cred = args[0]
	} else {
		sc := bufio.NewScanner(opt.Stdin)
		if sc.Scan() {
			cred = sc.Text()
		}
		if err := sc.Err(); err != nil {
			ui.Fail("login: read credential: " + err.Error())
			return ExitError
		}
	}

	s, err := auth.FromCredential(cred)
	if err != nil {
		ui.Fail("login: " + err.Error())
		return ExitUsage
	}
	if s.Expired(time.Now()) {
		ui.Fail("login: token already expired")
		return ExitError
	}
	if err := auth.Save(s); err != nil {
		ui.Fail("login: " + err.Error())
		return ExitError
	}
	opt.Logger.Debug("saved session", "user", s.UserID, "token", s.Token != "")
	ui.OK(fmt.Sprintf("logged in as user %d", s.UserID))
	return ExitOK
}

func doStatus() int {
	s, err := auth.Load()
	if err != nil {
		ui.Fail(err.Error())
		return ExitError
	}
	if s == nil {
		ui.Info("not logged in")
		return ExitError
	}

	parts := []string{fmt.Sprintf("user %d", s.UserID), "from " + s.Source}
	if s.Token != "" {
		parts = append(parts, "with token")
	}
	if s.ExpiresAt != nil {
		parts = append(parts, "expires "+s.ExpiresAt.Format(time.RFC3339))
	}
	ui.Info("logged in as " + strings.Join(parts, ", "))
	if s.Expired(time.Now()) {
		ui.Fail("token expired; run `todo auth login` again")
		return ExitError
	}
	return ExitOK
}
