package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"wikipath/internal/client"
	"wikipath/internal/config"
	"wikipath/internal/domain"
	"wikipath/internal/eventbus"
	"wikipath/internal/ui"
)

// options holds the command line
type options struct {
	configPath string
	serverURL  string
	logFile    string
	start      string
	end        string
	k          int
	timeLimit  int
	maxDepth   int
	resubmit   string
	once       bool
	noMouse    bool
	writeCfg   bool
}

func parseFlags(args []string) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("wikipath", flag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: user config dir)")
	fs.StringVarP(&opts.serverURL, "server", "s", "", "Path-search server URL")
	fs.StringVar(&opts.logFile, "log-file", "", "Log file")
	fs.StringVar(&opts.start, "start", "", "Start article")
	fs.StringVar(&opts.end, "end", "", "End article")
	fs.IntVarP(&opts.k, "k", "k", 0, "Beam width")
	fs.IntVar(&opts.timeLimit, "time-limit", 0, "Time limit in seconds")
	fs.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum path depth")
	fs.StringVar(&opts.resubmit, "resubmit", "", "Submit while searching: ignore or restart")
	fs.BoolVar(&opts.once, "once", false, "Run one search without the TUI and print the path")
	fs.BoolVar(&opts.noMouse, "no-mouse", false, "Disable mouse support")
	fs.BoolVar(&opts.writeCfg, "write-config", false, "Write the effective config file and exit")
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return opts, fs, nil
}

// applyFlags overrides config values with flags the user actually set
func applyFlags(cfg *config.Config, opts *options, fs *flag.FlagSet) {
	if fs.Changed("server") {
		cfg.Server.URL = opts.serverURL
	}
	if fs.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if fs.Changed("start") {
		cfg.Search.Start = opts.start
	}
	if fs.Changed("end") {
		cfg.Search.End = opts.end
	}
	if fs.Changed("k") {
		cfg.Search.K = opts.k
	}
	if fs.Changed("time-limit") {
		cfg.Search.TimeLimit = opts.timeLimit
	}
	if fs.Changed("max-depth") {
		cfg.Search.MaxDepth = opts.maxDepth
	}
	if fs.Changed("resubmit") {
		cfg.Run.Resubmit = opts.resubmit
	}
	if opts.noMouse {
		cfg.UISettings.Mouse = false
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, fs, err := parseFlags(args)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		return 2
	}

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	// Load configuration
	configSvc := config.NewConfigService()
	if opts.configPath != "" {
		configSvc = config.NewConfigServiceAt(opts.configPath)
	}
	configSvc = config.WithBus(configSvc, bus)
	cfg, configErr := configSvc.Load()
	if configErr != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", configErr)
		cfg = config.DefaultConfig()
	}
	applyFlags(cfg, opts, fs)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
		return 2
	}

	if opts.writeCfg {
		if err := configSvc.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			return 1
		}
		fmt.Printf("Config written to %s\n", configSvc.Path())
		return 0
	}

	// Set up logging
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	svc, err := client.New(&client.Config{
		BaseURL:             cfg.Server.URL,
		RunTimeout:          cfg.Server.RunTimeout(),
		AutocompleteTimeout: cfg.Server.AutocompleteTimeout(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.once {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		req := domain.RunRequest{
			Start:     cfg.Search.Start,
			End:       cfg.Search.End,
			K:         cfg.Search.K,
			TimeLimit: cfg.Search.TimeLimit,
			MaxDepth:  cfg.Search.MaxDepth,
		}
		return runOnce(ctx, svc, cfg, req, os.Stdout, os.Stderr)
	}

	return runTUI(bus, cfg, svc, configErr)
}

// runTUI runs the interactive program. A startupErr is shown on the status line once the UI is up.
func runTUI(bus eventbus.EventBus, cfg *config.Config, svc ui.Service, startupErr error) int {
	log.Printf("Creating UI model for %s", cfg.Server.URL)
	uiModel := ui.NewModel(bus, cfg, svc)
	uiModel.SetReadyMarker(os.Getenv("WIKIPATH_E2E_TEST") == "1")

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UISettings.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(uiModel, programOpts...)
	uiModel.SetProgram(p)

	// Forward the events the UI reacts to
	forward := func(e eventbus.DomainEvent) { p.Send(ui.EventMsg{Event: e}) }
	bus.Subscribe(eventbus.EventCancelNoticeSent, forward)
	bus.Subscribe(eventbus.EventError, forward)
	if startupErr != nil {
		bus.Publish(eventbus.ErrorEvent{Message: "Config not loaded, using defaults", Err: startupErr})
	}

	// SIGINT arrives as ctrl+c while the terminal is raw; SIGTERM needs forwarding
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(ui.QuitMsg{})
		}
	}()

	log.Printf("Starting UI...")
	_, err := p.Run()

	// whatever ended the program, nothing may outlive it
	uiModel.Shutdown()
	uiModel.Wait()

	if err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		return 1
	}
	log.Printf("UI exited normally")
	return 0
}
