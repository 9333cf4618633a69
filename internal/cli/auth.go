package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/todocrm/internal/auth"
	"github.com/idilsaglam/todocrm/internal/ui"
)

func (r *runner) doAuth(sub string, a []string) int {
	if r.env.Sessions == nil {
		r.fail("auth: session store is not available")
		return 1
	}
	switch sub {
	case "login", "signup":
		if len(a) < 1 || len(a) > 2 {
			return r.usage(fmt.Sprintf("todo auth %s <email> [password]", sub))
		}
		return r.doPassword(sub, a)
	case "google", "github", "apple":
		if len(a) != 0 {
			return r.usage("todo auth " + sub)
		}
		return r.doFederated(sub)
	case "logout":
		if err := r.env.Sessions.Delete(); err != nil {
			r.fail("logout: " + err.Error())
			return 1
		}
		r.ok("logged out")
		return 0
	case "status":
		return r.doStatus()
	case "whoami":
		return r.doWhoAmI()
	}
	r.fail("auth: unknown subcommand: " + sub)
	return 2
}

func (r *runner) doPassword(sub string, a []string) int {
	if r.env.Password == nil {
		r.fail(sub + ": " + auth.ErrNoAPIKey.Error())
		return 1
	}
	email := strings.TrimSpace(a[0])
	if !auth.ValidEmail(email) {
		r.fail(sub + ": " + auth.ErrInvalidEmail.Error())
		return 2
	}
	password := ""
	if len(a) == 2 {
		password = a[1]
	} else {
		fmt.Fprint(r.opt.Out, "Password: ")
		line, err := bufio.NewReader(r.opt.In).ReadString('\n')
		if err != nil && line == "" {
			r.fail(sub + ": read password: " + err.Error())
			return 1
		}
		password = strings.TrimRight(line, "\r\n")
	}

	var (
		sess auth.Session
		err  error
	)
	if sub == "signup" {
		sess, err = r.env.Password.SignUp(r.ctx, email, password)
	} else {
		sess, err = r.env.Password.LogIn(r.ctx, email, password)
	}
	if err != nil {
		r.fail(sub + ": " + err.Error())
		if errors.Is(err, auth.ErrEmptyPassword) {
			return 2
		}
		return 1
	}
	return r.saveSession(sess)
}

func (r *runner) doFederated(provider string) int {
	if r.env.Federated == nil {
		r.fail(provider + ": " + auth.ErrNotConfigured.Error())
		return 1
	}
	sess, err := r.env.Federated(r.ctx, provider, r.opt.Out)
	if err != nil {
		r.fail(provider + ": " + err.Error())
		return 1
	}
	return r.saveSession(sess)
}

func (r *runner) saveSession(sess auth.Session) int {
	if err := r.env.Sessions.Save(sess); err != nil {
		r.fail("save session: " + err.Error())
		return 1
	}
	r.env.Log.WithField("provider", sess.Provider).Info("signed in")
	r.ok("signed in as " + sess.Name())
	return 0
}

func (r *runner) current() (*auth.Session, bool) {
	sess, err := r.env.Sessions.Load()
	if err != nil {
		r.fail("session: " + err.Error())
		return nil, false
	}
	if sess == nil {
		r.fail(auth.ErrNotLoggedIn.Error())
		fmt.Fprintln(r.opt.Err, ui.C(ui.Current().Muted, "Hint: run `todo auth login <email>`"))
		return nil, false
	}
	return sess, true
}

func (r *runner) doStatus() int {
	sess, ok := r.current()
	if !ok {
		return 1
	}
	th := ui.Current()
	lines := []string{
		ui.C(th.Title, "Session"),
		"",
		"provider: " + sess.Provider,
		"source:   " + sess.Source,
	}
	if sess.ExpiresAt != nil {
		state := ui.C(th.Success, "valid until "+sess.ExpiresAt.Local().Format(time.RFC1123))
		if sess.Expired(time.Now()) {
			state = ui.C(th.Error, "expired at "+sess.ExpiresAt.Local().Format(time.RFC1123))
		}
		lines = append(lines, "token:    "+state)
	}
	if r.env.Verifier != nil && sess.IDToken != "" {
		if _, err := r.env.Verifier.Verify(sess.IDToken); err != nil {
			lines = append(lines, "verified: "+ui.C(th.Error, err.Error()))
		} else {
			lines = append(lines, "verified: "+ui.C(th.Success, "yes"))
		}
	}
	fmt.Fprint(r.opt.Out, ui.Panel(lines))
	if sess.Expired(time.Now()) {
		return 1
	}
	return 0
}

func (r *runner) doWhoAmI() int {
	sess, ok := r.current()
	if !ok {
		return 1
	}
	fmt.Fprintln(r.opt.Out, sess.Name())
	if sess.Email != "" && sess.Email != sess.Name() {
		fmt.Fprintln(r.opt.Out, sess.Email)
	}
	if sess.UserID != "" {
		fmt.Fprintln(r.opt.Out, ui.C(ui.Current().Muted, sess.Provider+":"+sess.UserID))
	}
	return 0
}
