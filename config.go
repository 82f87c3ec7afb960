package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/duplinskyp/buzzerAPP/game"
)

type Config struct {
	bind    string
	port    int
	prefix  string
	profile bool
	tlsCert string
	tlsKey  string
	verbose bool
	version bool

	resetTime     int
	defaultName   string
	maxNameLength int
	rateLimit     int
	corsOrigins   []string

	natsURL     string
	natsSubject string
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.resetTime < 1 {
		return fmt.Errorf("invalid reset time (must be at least 1 second): %d", c.resetTime)
	}
	if c.maxNameLength < 1 {
		return fmt.Errorf("invalid max name length (must be at least 1): %d", c.maxNameLength)
	}
	if c.rateLimit < 0 {
		return fmt.Errorf("invalid rate limit (must be 0 or more): %d", c.rateLimit)
	}
	if c.natsURL != "" && strings.TrimSpace(c.natsSubject) == "" {
		return errors.New("--nats-subject must not be empty when --nats-url is set")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BUZZER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "buzzer",
		Short:         "A real-time quiz buzzer: players race to buzz in, a moderator keeps score.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BUZZER_BIND)")
	fs.StringSliceVar(&cfg.corsOrigins, "cors-origin", nil, "origin allowed to make cross-origin requests, may be repeated (env: BUZZER_CORS_ORIGIN)")
	fs.StringVar(&cfg.defaultName, "default-name", game.DefaultName, "name given to players who have not picked one (env: BUZZER_DEFAULT_NAME)")
	fs.IntVar(&cfg.maxNameLength, "max-name-length", game.DefaultMaxNameLength, "longest allowed team name, in characters (env: BUZZER_MAX_NAME_LENGTH)")
	fs.StringVar(&cfg.natsSubject, "nats-subject", "buzzer.rounds", "subject finished rounds are published on (env: BUZZER_NATS_SUBJECT)")
	fs.StringVar(&cfg.natsURL, "nats-url", "", "NATS server to publish finished rounds to, disabled if empty (env: BUZZER_NATS_URL)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: BUZZER_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: BUZZER_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: BUZZER_PROFILE)")
	fs.IntVar(&cfg.rateLimit, "rate-limit", 20, "messages per second accepted from each connection, 0 to disable (env: BUZZER_RATE_LIMIT)")
	fs.IntVar(&cfg.resetTime, "reset-time", game.DefaultResetTime, "seconds before a round resets itself (env: BUZZER_RESET_TIME)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: BUZZER_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: BUZZER_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: BUZZER_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: BUZZER_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, envValue(v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("buzzer v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// envValue turns a viper value back into flag syntax. Slice flags come
// back from viper as []string and are joined the way pflag parses them.
func envValue(val any) string {
	if s, ok := val.([]string); ok {
		return strings.Join(s, ",")
	}
	return fmt.Sprintf("%v", val)
}
