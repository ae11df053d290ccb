package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	formclient "github.com/goliatone/go-formclient"
	"github.com/goliatone/go-formclient/internal/config"
	"github.com/goliatone/go-formclient/internal/logging"
	"github.com/goliatone/go-formclient/pkg/apispec"
	"github.com/goliatone/go-formclient/pkg/devserver"
	"github.com/goliatone/go-formclient/pkg/formstate"
	"github.com/goliatone/go-formclient/pkg/prompt"
	"github.com/goliatone/go-formclient/pkg/webui"
)

const usage = `usage: formclient <command> [flags] [args]

commands:
  serve        serve the HTML form
  do           run one action: do [flags] <action> [field=value...]
  interactive  fill fields and run actions from the terminal
  routes       list the API operations the client consumes
  devserver    run an in-memory customer and pet API
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type commonFlags struct {
	config string
	output string
	debug  bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "config file or directory")
	fs.StringVar(&c.output, "output", "text", "output format: text, json or yaml")
	fs.BoolVar(&c.debug, "debug", false, "trace logging and state dumps")
}

type env struct {
	flags  commonFlags
	cfg    *config.Config
	logger *logrus.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	commands := map[string]func(context.Context, *env, []string) error{
		"serve":       serveCmd,
		"do":          doCmd,
		"interactive": interactiveCmd,
		"routes":      routesCmd,
		"devserver":   devserverCmd,
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	e := &env{stdout: stdout, stderr: stderr}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	e.flags.register(fs)
	var addr string
	if args[0] == "serve" || args[0] == "devserver" {
		fs.StringVar(&addr, "addr", "", "listen address (overrides config)")
	}
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	cfg, err := config.Load(e.flags.config)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if e.flags.debug {
		cfg.Logger.Level = "trace"
	}
	if addr != "" {
		cfg.UI.Addr = addr
		cfg.DevServer.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	e.cfg = cfg
	e.logger = logging.New(cfg.Logger)
	e.logger.SetOutput(stderr)

	if err := cmd(ctx, e, fs.Args()); err != nil {
		if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func serveCmd(ctx context.Context, e *env, _ []string) error {
	var opts []formclient.Option
	var uiOpts []webui.Option
	opts = append(opts, formclient.WithLogger(e.logger))
	if e.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, formclient.WithMetrics(reg))
		uiOpts = append(uiOpts, webui.WithMetrics(e.cfg.Metrics.Path, reg))
	}

	client, err := formclient.FromConfig(*e.cfg, opts...)
	if err != nil {
		return err
	}
	ui, err := client.WebUI(uiOpts...)
	if err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{"addr": e.cfg.UI.Addr, "api": e.cfg.API.BaseURL}).Info("serving form")
	return listen(ctx, e.logger, e.cfg.UI.Addr, ui)
}

func devserverCmd(ctx context.Context, e *env, _ []string) error {
	srv := devserver.New(
		devserver.WithLogger(e.logger),
		devserver.WithAPIKey(e.cfg.API.APIKey),
	)
	e.logger.WithField("addr", e.cfg.DevServer.Addr).Info("serving dev api")
	return listen(ctx, e.logger, e.cfg.DevServer.Addr, srv)
}

func listen(ctx context.Context, logger logrus.FieldLogger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func doCmd(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return errors.New("missing action name")
	}
	action := args[0]
	fields, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}

	client, err := formclient.FromConfig(*e.cfg, formclient.WithLogger(e.logger))
	if err != nil {
		return err
	}
	state, dispatchErr := client.Do(ctx, action, formstate.New(fields))
	if e.flags.debug {
		e.logger.Trace(spew.Sdump(state))
	}
	if err := writeState(e.stdout, e.flags.output, state); err != nil {
		return err
	}
	return dispatchErr
}

func interactiveCmd(ctx context.Context, e *env, _ []string) error {
	client, err := formclient.FromConfig(*e.cfg, formclient.WithLogger(e.logger))
	if err != nil {
		return err
	}
	session, err := client.Session(prompt.NewSurveyDriver(e.stdout))
	if err != nil {
		return err
	}
	state, err := session.Run(ctx)
	if e.flags.debug {
		e.logger.Trace(spew.Sdump(state))
	}
	return err
}

func routesCmd(ctx context.Context, e *env, _ []string) error {
	doc, err := apispec.Load(ctx)
	if err != nil {
		return err
	}
	ops := doc.Operations()
	switch e.flags.output {
	case "json":
		return writeJSON(e.stdout, ops)
	case "yaml":
		return writeYAML(e.stdout, ops)
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tOPERATION")
	for _, op := range ops {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", op.Method, op.Path, op.ID)
	}
	return tw.Flush()
}

// parseAssignments reads field=value pairs. Values may be empty.
func parseAssignments(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		fields[name] = value
	}
	return fields, nil
}

func writeState(w io.Writer, format string, state formstate.State) error {
	switch format {
	case "json":
		return writeJSON(w, state)
	case "yaml":
		return writeYAML(w, state)
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if state.Flash != "" {
		fmt.Fprintln(w, state.Flash)
	}
	if state.Results != "" {
		fmt.Fprintln(w, strings.TrimRight(state.Results, "\n"))
	}
	for _, name := range state.Names() {
		fmt.Fprintf(w, "%s=%s\n", name, state.Get(name))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
