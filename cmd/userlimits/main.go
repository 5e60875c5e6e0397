// Command userlimits changes a user's object limits and API rate rule.
//
//	userlimits --username alice --limit-for-all 10 --api-rate-limit 100/60
//	userlimits --username alice --limit-schedule 50
//	userlimits --username alice --api-rate-limit default
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"smart_channels/internal/bootstrap"
	"smart_channels/internal/config"
	"smart_channels/internal/logger"
	"smart_channels/internal/models"
	"smart_channels/internal/repository"
	"smart_channels/internal/service"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "userlimits:", err)
		os.Exit(1)
	}
}

// limitFlag binds one individual limit to its flag name.
type limitFlag struct {
	name  string
	usage string
	value int
	apply func(l *models.Limits, v int)
}

func limitFlags() []*limitFlag {
	return []*limitFlag{
		{name: "limit-aid", usage: "access identifiers", apply: func(l *models.Limits, v int) { l.AccessID = v }},
		{name: "limit-channel-group", usage: "channel groups", apply: func(l *models.Limits, v int) { l.ChannelGroup = v }},
		{name: "limit-channel-per-group", usage: "channels per group", apply: func(l *models.Limits, v int) { l.ChannelPerGroup = v }},
		{name: "limit-direct-link", usage: "direct links", apply: func(l *models.Limits, v int) { l.DirectLink = v }},
		{name: "limit-location", usage: "locations", apply: func(l *models.Limits, v int) { l.Location = v }},
		{name: "limit-oauth-client", usage: "OAuth clients", apply: func(l *models.Limits, v int) { l.OAuthClient = v }},
		{name: "limit-schedule", usage: "schedules", apply: func(l *models.Limits, v int) { l.Schedule = v }},
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("userlimits", pflag.ContinueOnError)
	fs.SetOutput(out)
	var (
		configDir    = fs.String("config", "configs", "directory containing config.yml")
		username     = fs.String("username", "", "user to change (required)")
		limitForAll  = fs.Int("limit-for-all", 0, "set every object limit to this value")
		apiRateLimit = fs.String("api-rate-limit", "", `API rate rule "limit/seconds" or "default"`)
	)
	individual := limitFlags()
	for _, f := range individual {
		fs.IntVar(&f.value, f.name, 0, "limit of "+f.usage)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("--username is required")
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	sqlDB, err := bootstrap.OpenDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	store, err := bootstrap.OpenStore(ctx, cfg, sqlDB)
	if err != nil {
		return fmt.Errorf("open rate limit store: %w", err)
	}
	defer func() { _ = store.Close() }()
	if cfg.RateLimit.Store == config.StoreMemory {
		log.Warnw("rate_limit_store_is_memory", "detail", "the running server keeps its own counters; they are not cleared")
	}

	limiter, err := bootstrap.NewLimiter(cfg, store)
	if err != nil {
		return err
	}
	repos := repository.NewRepository(sqlDB)

	change := service.LimitsChange{}
	if fs.Changed("limit-for-all") {
		change.LimitForAll = limitForAll
	} else if changed := changedLimits(fs, individual); len(changed) > 0 {
		u, err := repos.UserRepo.GetByUsername(*username)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("%w: %q", service.ErrUserNotFound, *username)
		}
		l := u.Limits
		for _, f := range changed {
			f.apply(&l, f.value)
		}
		change.Limits = &l
	}
	if fs.Changed("api-rate-limit") {
		change.APIRateLimit = apiRateLimit
	}
	if change.LimitForAll == nil && change.Limits == nil && change.APIRateLimit == nil {
		return errors.New("nothing to change: pass --limit-for-all, a --limit-* flag or --api-rate-limit")
	}

	u, err := service.NewUserLimitsService(repos.UserRepo, repos.EventRepo, limiter).Change(ctx, *username, change)
	if err != nil {
		return err
	}
	log.Infow("user_limits_changed", "username", u.Username, "user_id", u.ID)
	printUser(out, u, limiter.RuleFor(u.APIRateLimit).String())
	return nil
}

func changedLimits(fs *pflag.FlagSet, flags []*limitFlag) []*limitFlag {
	var changed []*limitFlag
	for _, f := range flags {
		if fs.Changed(f.name) {
			changed = append(changed, f)
		}
	}
	return changed
}

func printUser(w io.Writer, u *models.User, rule string) {
	rows := []struct {
		name  string
		value int
	}{
		{"access identifiers", u.Limits.AccessID},
		{"channel groups", u.Limits.ChannelGroup},
		{"channels per group", u.Limits.ChannelPerGroup},
		{"direct links", u.Limits.DirectLink},
		{"locations", u.Limits.Location},
		{"OAuth clients", u.Limits.OAuthClient},
		{"schedules", u.Limits.Schedule},
	}
	fmt.Fprintf(w, "User %s (id %d)\n", u.Username, u.ID)
	for _, r := range rows {
		fmt.Fprintf(w, "  %-20s %d\n", r.name, r.value)
	}
	src := "custom"
	if u.APIRateLimit == nil {
		src = "default"
	}
	fmt.Fprintf(w, "  %-20s %s (%s)\n", "API rate limit", rule, src)
	fmt.Fprintln(w, "User limits have been updated.")
}
