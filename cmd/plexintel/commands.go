// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/plexintel/internal/auth"
	"github.com/tomtom215/plexintel/internal/backend"
	"github.com/tomtom215/plexintel/internal/logging"
	"github.com/tomtom215/plexintel/internal/models"
	"github.com/tomtom215/plexintel/internal/recommend"
	"github.com/tomtom215/plexintel/internal/session"
	"github.com/tomtom215/plexintel/internal/supervisor"
	"github.com/tomtom215/plexintel/internal/supervisor/services"
)

var errUsage = errors.New("usage")

func (a *app) newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: plexintel %s\n\nFlags:\n", synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.newFlagSet("login", "login [-pin id]")
	pinID := fs.String("pin", "", "resume an existing PIN instead of requesting a new one")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	hs := auth.NewHandshake(a.client, auth.Config{
		PollInterval: a.cfg.Auth.PollInterval,
		MaxWait:      a.cfg.Auth.MaxWait,
	})

	var (
		task *auth.Task
		err  error
	)
	if *pinID != "" {
		task, err = hs.Resume(ctx, models.ID(*pinID))
	} else {
		task, err = hs.Start(ctx)
	}
	if err != nil {
		return err
	}

	pin := task.PIN()
	fmt.Fprintf(a.stdout, "Your code: %s\n", pin.Code)
	if pin.AuthURL != "" {
		fmt.Fprintf(a.stdout, "Open %s to approve this device.\n", pin.AuthURL)
	} else {
		fmt.Fprintln(a.stdout, "Enter it at https://plex.tv/link to approve this device.")
	}
	fmt.Fprintln(a.stdout, "Waiting for confirmation...")

	diagCtx, stopDiag := context.WithCancel(ctx)
	if errCh := a.startDiagnostics(diagCtx, nil); errCh != nil {
		defer func() { <-errCh }()
	}
	defer stopDiag()

	identity, err := task.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			task.Cancel()
			return auth.ErrCancelled
		}
		return err
	}

	if identity.Username == "" {
		if me, meErr := a.client.WhoAmI(ctx); meErr == nil {
			identity.Username = me.Username
		} else {
			logging.Debug().Err(meErr).Msg("Could not resolve username after login")
		}
	}

	sess := session.New(a.client.Host(), identity.Username, identity.UserID, a.client.Cookies(), time.Now())
	if err := a.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("logged in but failed to store session: %w", err)
	}

	name := identity.Username
	if name == "" {
		name = identity.UserID
	}
	fmt.Fprintf(a.stdout, "Logged in as %s.\n", name)
	return nil
}

func (a *app) whoami(ctx context.Context, args []string) error {
	fs := a.newFlagSet("whoami", "whoami")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	sess := a.restoreSession(ctx)
	me, err := a.client.WhoAmI(ctx)
	if err != nil {
		if sess == nil {
			return fmt.Errorf("not logged in; run plexintel login: %w", err)
		}
		return err
	}

	role := "user"
	if me.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.stdout, "%s (%s)\n", me.Username, role)
	if sess != nil {
		fmt.Fprintf(a.stdout, "session expires %s\n", sess.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}

// viewFlags are shared by recs and feedback.
type viewFlags struct {
	view   string
	show   int
	season int
}

func (v *viewFlags) register(fs *flag.FlagSet, defaultView string) {
	fs.StringVar(&v.view, "view", defaultView, "view: all, movies, shows, seasons, episodes")
	fs.IntVar(&v.show, "show", 0, "drill into the seasons of this show rating key")
	fs.IntVar(&v.season, "season", 0, "drill into the episodes of this season rating key (needs -show)")
}

// openView mounts a view model and applies the requested drill-down.
func (a *app) openView(ctx context.Context, vf viewFlags) (*recommend.ViewModel, error) {
	mode, err := recommend.ParseViewMode(vf.view)
	if err != nil {
		return nil, err
	}
	if vf.season != 0 && vf.show == 0 {
		return nil, errors.New("-season needs -show")
	}
	if vf.show != 0 {
		mode = recommend.ViewShows
	}

	a.restoreSession(ctx)
	vm, err := recommend.New(a.client, recommend.Options{
		Locale:        a.cfg.View.Locale,
		RequireReason: a.cfg.Feedback.RequireReason,
		DefaultView:   mode,
	})
	if err != nil {
		return nil, err
	}
	if err := vm.Mount(ctx); err != nil {
		return nil, err
	}

	for _, key := range []int{vf.show, vf.season} {
		if key == 0 {
			break
		}
		ok, err := vm.SelectRow(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("cannot open %d: %w", key, err)
		}
		if !ok {
			return nil, fmt.Errorf("cannot open %d from the %s view", key, vm.State().Mode)
		}
	}
	return vm, nil
}

func (a *app) recs(ctx context.Context, args []string) error {
	fs := a.newFlagSet("recs", "recs [flags]")
	var vf viewFlags
	vf.register(fs, a.cfg.View.DefaultMode)
	search := fs.String("search", "", "case-insensitive text filter over title, show, genres and themes")
	minScore := fs.Int("min-score", 0, "hide items scoring below this percentage (0-100)")
	category := fs.String("category", "", "only this media type: movie, show, season, episode")
	theme := fs.String("theme", "", "only items tagged with this theme")
	sortSpec := fs.String("sort", "", "sort keys, e.g. predicted_probability:desc,title")
	asJSON := fs.Bool("json", false, "print the view as JSON")
	watch := fs.Duration("watch", 0, "refresh and redraw on this interval until interrupted")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	spec, err := recommend.ParseSortSpec(*sortSpec)
	if err != nil {
		return err
	}

	vm, err := a.openView(ctx, vf)
	if err != nil {
		return err
	}
	defer vm.Close()

	vm.SetSearch(*search)
	vm.SetMinScore(*minScore)
	if err := vm.SetCategory(models.MediaType(*category)); err != nil {
		return err
	}
	if *theme != "" {
		vm.ToggleTheme(*theme)
	}
	vm.SetSortSpec(spec)

	draw := func() error {
		if *asJSON {
			return writeSnapshotJSON(a.stdout, vm.Snapshot())
		}
		return renderTable(a.stdout, vm.Snapshot())
	}
	if err := draw(); err != nil {
		return err
	}

	if *watch <= 0 {
		return nil
	}

	refresher := services.NewRefreshService(vm, services.RefreshServiceConfig{
		Interval: *watch,
		OnRefresh: func(error) {
			if err := draw(); err != nil {
				logging.Warn().Err(err).Msg("Failed to redraw")
			}
		},
	}, logging.WithComponent("cli"))
	errCh := a.startDiagnostics(ctx, vm, func(t *supervisor.Tree) { t.AddClientService(refresher) })
	<-errCh
	return nil
}

func (a *app) feedback(ctx context.Context, args []string) error {
	fs := a.newFlagSet("feedback", "feedback [flags] <rating_key> <up|down>")
	var vf viewFlags
	vf.register(fs, a.cfg.View.DefaultMode)
	reason := fs.String("reason", "", "reason code from the offered feedback options")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errUsage
	}

	key, err := strconv.Atoi(fs.Arg(0))
	if err != nil || key <= 0 {
		return fmt.Errorf("invalid rating key %q", fs.Arg(0))
	}
	thumb, err := recommend.ParseThumb(fs.Arg(1))
	if err != nil {
		return err
	}

	vm, err := a.openView(ctx, vf)
	if err != nil {
		return err
	}
	defer vm.Close()

	if err := vm.SubmitFeedback(ctx, key, thumb, *reason); err != nil {
		if errors.Is(err, recommend.ErrReasonRequired) {
			return fmt.Errorf("%w; choose one with -reason: %s", err, reasonList(vm.FeedbackOptions(), thumb))
		}
		return err
	}

	fmt.Fprintf(a.stdout, "Feedback recorded: %d %s\n", key, thumb)
	return nil
}

func (a *app) logout(ctx context.Context, args []string) error {
	fs := a.newFlagSet("logout", "logout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := a.store.Delete(ctx, a.client.Host()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	a.client.ClearCookies()
	fmt.Fprintln(a.stdout, "Logged out.")
	return nil
}

// describe turns command errors into the message shown to the user.
func describe(err error) string {
	var fwe *recommend.FeedbackWriteError
	switch {
	case errors.As(err, &fwe):
		return fwe.Reason
	case errors.Is(err, auth.ErrHandshakeExpired):
		return "login was not confirmed in time; run plexintel login again"
	case errors.Is(err, auth.ErrCancelled):
		return "login cancelled"
	case errors.Is(err, recommend.ErrFetchFailed):
		if apiErr, ok := backend.IsAPIError(err); ok && apiErr.Detail != "" {
			return fmt.Sprintf("failed to load recommendations: %s", apiErr.Detail)
		}
	}
	return err.Error()
}
