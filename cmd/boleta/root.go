package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/config"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/logger"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics/datadog"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics/prompush"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	cfgPath        string
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
	logMode        string
	logLevel       string

	cfg       config.Config
	log       *logger.Logger
	metricsOn bool
}

// run executes one command line. Metrics are flushed and the logger synced
// whether or not the command fails.
func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut}
	root := newRootCmd(a)
	root.SetArgs(args)
	defer a.teardown()
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "boleta",
		Short:         "Build and print the rejection boleta",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", os.Getenv("BOLETA_CONFIG"), "config file (.json, .yaml); env BOLETA_CONFIG")
	pf.StringVar(&a.metricsBackend, "metrics-backend", "", "none, pushgateway or datadog; env METRICS_BACKEND")
	pf.StringVar(&a.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL; env PUSHGATEWAY_URL")
	pf.StringVar(&a.datadogAddr, "datadog-addr", "", "DogStatsD address; env DD_AGENT_ADDR")
	pf.StringVar(&a.logMode, "log-mode", "", "dev or prod")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newReportCmd(a),
		newImportCmd(a),
		newRecordCmd(a),
		newBOMCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
		newProbeCmd(a),
	)
	return root
}

// setup resolves configuration (file, then env, then flags), the logger and
// the metrics backend.
func (a *app) setup() error {
	cfg := config.Defaults()
	if a.cfgPath != "" {
		var err error
		if cfg, err = config.Load(a.cfgPath); err != nil {
			return err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if a.metricsBackend != "" {
		cfg.Metrics.Backend = strings.ToLower(a.metricsBackend)
	}
	if a.pushgatewayURL != "" {
		cfg.Metrics.PushgatewayURL = a.pushgatewayURL
	}
	if a.datadogAddr != "" {
		cfg.Metrics.DatadogAddr = a.datadogAddr
	}
	if a.logMode != "" {
		cfg.Log.Mode = a.logMode
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	lg, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.log = lg

	a.setupMetrics()
	return nil
}

// setupMetrics installs the configured backend. A backend that cannot be
// created is logged and metrics stay disabled.
func (a *app) setupMetrics() {
	m := a.cfg.Metrics
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "pushgateway", "prometheus", "prom":
		if m.PushgatewayURL == "" {
			a.log.Warn("pushgateway url not set; metrics disabled")
			return
		}
		b, err = prompush.NewBackend(a.cfg.Job, m.PushgatewayURL)
	case "datadog", "dogstatsd":
		b, err = datadog.NewBackend(datadog.Config{Addr: m.DatadogAddr, Namespace: "boleta."})
	case "", "none":
		a.log.Debug("metrics disabled")
		return
	default:
		a.log.Warn("unknown metrics backend; metrics disabled", "backend", m.Backend)
		return
	}
	if err != nil {
		a.log.Warn("metrics backend unavailable; metrics disabled", "backend", m.Backend, "err", err)
		return
	}
	metrics.SetBackend(b)
	a.metricsOn = true
	a.log.Debug("metrics enabled", "backend", m.Backend)
}

func (a *app) teardown() {
	if a.log == nil {
		return
	}
	if a.metricsOn {
		if err := metrics.Flush(); err != nil {
			a.log.Warn("metrics flush failed", "err", err)
		}
		metrics.SetBackend(nil)
	}
	a.log.Sync()
}

// validate prints every issue and fails when any is an error.
func (a *app) validate(needDB, needBOM bool) error {
	issues := config.ValidateConfig(a.cfg, needDB, needBOM)
	for _, iss := range issues {
		fmt.Fprintln(a.errOut, iss.Error())
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("invalid configuration")
	}
	return nil
}
