package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/tonal/internal/config"
	"github.com/jmylchreest/tonal/internal/designctx"
	"github.com/jmylchreest/tonal/internal/observability"
	"github.com/jmylchreest/tonal/internal/orchestrator"
	"github.com/jmylchreest/tonal/internal/provider"
	"github.com/jmylchreest/tonal/internal/provider/external"
	"github.com/jmylchreest/tonal/internal/provider/heuristic"
	"github.com/jmylchreest/tonal/internal/provider/rulebased"
)

// app holds state shared by subcommands.
type app struct {
	verbose bool
	quiet   bool
	envFile string

	cfg    *config.Config
	logger hclog.Logger
}

// setup loads configuration and builds the logger. Commands that need neither skip it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), a.logLevel())
	return nil
}

func (a *app) logLevel() hclog.Level {
	switch {
	case a.verbose:
		return hclog.Debug
	case a.quiet:
		return hclog.Error
	default:
		return hclog.LevelFromString(a.cfg.LogLevel)
	}
}

func newLogger(w io.Writer, level hclog.Level) hclog.Logger {
	if level == hclog.Off {
		return hclog.New(&hclog.LoggerOptions{
			Name:   "tonal",
			Output: io.Discard,
			Level:  hclog.Off,
		})
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "tonal",
		Output: w,
		Level:  level,
	})
}

// rules returns the default rule table merged with the rules file, if any.
func (a *app) rules(path string) (*designctx.RuleTable, error) {
	if path == "" {
		path = a.cfg.RulesFile
	}
	if path == "" {
		return designctx.DefaultRules(), nil
	}
	rules, err := designctx.LoadRules(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded rules", "path", path)
	return rules, nil
}

// providers builds the ordered provider list. Flag-disabled names are added to
// those in TONAL_DISABLED_PROVIDERS.
func (a *app) providers(disabled []string) ([]provider.Provider, error) {
	client, err := external.NewClient(a.cfg.External)
	if err != nil {
		return nil, fmt.Errorf("external provider: %w", err)
	}

	return provider.NewBuilder().
		WithEnvConfig().
		WithConfig(provider.Config{DisabledProviders: disabled}).
		Register(external.New(client, external.WithLogger(a.logger.Named(provider.NameExternal)))).
		Register(heuristic.New()).
		Register(rulebased.New()).
		Build(), nil
}

// orchestrator wires providers, rules and collectors together.
func (a *app) orchestrator(rulesPath string, disabled []string, collector observability.Collector) (*orchestrator.Orchestrator, error) {
	rules, err := a.rules(rulesPath)
	if err != nil {
		return nil, err
	}
	providers, err := a.providers(disabled)
	if err != nil {
		return nil, err
	}

	for _, p := range providers {
		a.logger.Debug("provider registered", "name", p.Name(), "description", p.Description())
	}

	return orchestrator.New(providers,
		orchestrator.WithLogger(a.logger),
		orchestrator.WithCollector(collector),
		orchestrator.WithRules(rules),
		orchestrator.WithAvailabilityTimeout(a.cfg.AvailabilityTimeout),
		orchestrator.WithGenerateTimeout(a.cfg.GenerateTimeout),
	), nil
}
