package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/dooshek/typozap/internal/clipboard"
	"github.com/dooshek/typozap/internal/config"
	"github.com/dooshek/typozap/internal/correction"
	"github.com/dooshek/typozap/internal/dbus"
	"github.com/dooshek/typozap/internal/fileops"
	"github.com/dooshek/typozap/internal/keyboard"
	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/notification"
	"github.com/dooshek/typozap/internal/permissions"
	"github.com/dooshek/typozap/internal/pipeline"
	"github.com/dooshek/typozap/internal/secret"
	"github.com/dooshek/typozap/internal/state"
	"github.com/dooshek/typozap/internal/stats"
	"github.com/dooshek/typozap/internal/tone"
	"github.com/dooshek/typozap/internal/tray"
	"github.com/dooshek/typozap/internal/types"
	"github.com/dooshek/typozap/internal/windowdetect"
	"github.com/dooshek/typozap/internal/wizard"
	"github.com/fatih/color"
	"golang.org/x/term"
)

const appTitle = "TypoZap"

func init() {
	// Set custom usage message to show -- prefix
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(out, "  --%s", f.Name)
			name, usage := flag.UnquoteUsage(f)
			if len(name) > 0 {
				fmt.Fprintf(out, " %s", name)
			}
			fmt.Fprintf(out, "\n    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Fprintf(out, " (default %q)", f.DefValue)
			}
			fmt.Fprintf(out, "\n")
		})
	}
}

func main() {
	runWizard := flag.Bool("wizard", false, "Run the configuration wizard")
	logLevel := flag.String("log-level", "info", "Set log level (debug|info|warn|error)")
	logFilename := flag.String("log-filename", "", "Log to file instead of stdout (default ~/.config/typozap/typozap.log when not started from a terminal)")
	setKey := flag.Bool("set-key", false, "Store the API key in the system keychain and exit")
	showStats := flag.Bool("stats", false, "Print correction statistics and exit")
	flag.Parse()

	logger.SetLevel(*logLevel)

	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		logger.Error("Failed to initialize file operations", err)
		os.Exit(1)
	}
	if err := fileOps.EnsureDirectories(); err != nil {
		logger.Error("Failed to create necessary directories", err)
		os.Exit(1)
	}

	if path := logTarget(*logFilename, term.IsTerminal(int(os.Stdout.Fd())), fileOps.GetLogPath()); path != "" {
		if err := logger.SetOutputFile(path); err != nil {
			fmt.Printf("Error setting log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.CloseLogFile()
	}

	secrets := secret.NewStore()

	switch {
	case *setKey:
		if err := wizard.SetAPIKey(secrets); err != nil {
			logger.Error("Failed to set API key", err)
			os.Exit(1)
		}
		return
	case *showStats:
		printStats(stats.NewManager(fileOps.GetStatsPath()).GetStats())
		return
	case *runWizard:
		if _, err := wizard.Run(fileOps, secrets); err != nil {
			logger.Error("Error running wizard", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := loadOrCreateConfig(fileOps, secrets)
	if err != nil {
		logger.Error("Error loading config", err)
		os.Exit(1)
	}

	if err := fileOps.CheckPID(); err != nil {
		if errors.Is(err, fileops.ErrProcessAlreadyRunning) {
			logger.Error("Another instance of TypoZap is already running", err)
			os.Exit(1)
		}
		logger.Warnf("Ignoring stale PID file: %v", err)
	}
	if err := fileOps.SavePID(); err != nil {
		logger.Error("Failed to save PID file", err)
		os.Exit(1)
	}
	defer func() {
		if err := fileOps.CleanupPID(); err != nil {
			logger.Error("Failed to cleanup PID file", err)
		}
	}()

	run(cfg, fileOps, secrets)
}

// logTarget picks the log file: the flag if set, the default path when there
// is no terminal to log to, otherwise "" for stdout
func logTarget(flagValue string, interactive bool, defaultPath string) string {
	if flagValue != "" {
		return flagValue
	}
	if interactive {
		return ""
	}
	return defaultPath
}

// reportHotkeyFailure tells the user the shortcut is not active
func reportHotkeyFailure(n notification.Notifier, combo string, err error) {
	logger.Error("Failed to register hotkey", err)
	if nErr := n.Notify(appTitle, fmt.Sprintf("Could not register %s: %v", combo, err)); nErr != nil {
		logger.Warnf("Failed to show notification: %v", nErr)
	}
}

// loadOrCreateConfig runs the wizard on first start when attached to a terminal,
// otherwise starts with defaults
func loadOrCreateConfig(fileOps fileops.FileOps, secrets *secret.Store) (*types.Config, error) {
	cfg, err := config.LoadConfig(fileOps)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Info("No configuration found. Running setup wizard...")
		return wizard.Run(fileOps, secrets)
	}

	logger.Info("No configuration found. Starting with defaults")
	cfg = types.Default()
	if err := config.SaveConfig(fileOps, cfg); err != nil {
		logger.Warnf("Could not save default config: %v", err)
	}
	return cfg, nil
}

// run serves the menu bar until Quit or a signal
func run(cfg *types.Config, fileOps fileops.FileOps, secrets *secret.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tones := tone.NewCatalog()
	tonesPath := fileOps.GetTonesPath()
	if err := tones.LoadFile(tonesPath); err != nil {
		logger.Errorf("Invalid tones file %s, using bundled tones", err, tonesPath)
	}
	go func() {
		if err := tones.Watch(ctx, tonesPath); err != nil {
			logger.Warnf("Tones file will not be reloaded: %v", err)
		}
	}()

	app := state.New(cfg, tones, fileOps)
	statsMgr := stats.NewManager(fileOps.GetStatsPath())
	notifier := notification.New(cfg.Notifications.Sound)

	if !clipboard.Available() {
		logger.Warn("No clipboard utility found - install xclip, xsel or wl-clipboard")
	}

	promptForKey := func() {
		title := "TypoZap API Key"
		message := fmt.Sprintf("Enter your %s API key:", cfg.GetLLMConfig().Provider)
		value, ok, err := notifier.PromptSecret(title, message)
		if err != nil {
			logger.Warnf("Could not show API key prompt: %v", err)
			_ = notifier.Notify(title, "Run `typozap --set-key` to store your API key")
			return
		}
		if !ok {
			return
		}
		secrets.Set(value)
		if secrets.HasCredential() {
			_ = notifier.Notify(title, "API key saved")
		}
	}

	combo := types.FormatKeyCombo(cfg.GetHotkey())
	monitor, err := keyboard.CreateMonitor(cfg.GetHotkey())
	if err != nil {
		reportHotkeyFailure(notifier, combo, err)
	}

	var menu *tray.Tray
	var pipe *pipeline.Pipeline
	var bus *dbus.Server

	menu = tray.New(app, statsMgr, tray.Callbacks{
		OnReady: func() {
			if monitor != nil {
				if err := monitor.Start(ctx, func() { pipe.Trigger(ctx) }); err != nil {
					reportHotkeyFailure(notifier, combo, err)
				} else {
					logger.Infof("Press %s to correct the selected text", combo)
				}
			}
			logger.Info("💡 Note: You can run `typozap --wizard` to change the key combination")
			go func() {
				permissions.NewChecker().CheckAccessibility(notifier)
				if !secrets.HasCredential() {
					promptForKey()
				}
			}()
		},
		OnSetKey: func() { go promptForKey() },
		OnQuit:   cancel,
	})

	pipe = pipeline.New(pipeline.Deps{
		Clipboard: clipboard.New(),
		Keyboard:  keyboard.NewSimulator(),
		Corrector: correction.NewClient(secrets, tones, cfg.GetLLMConfig()),
		Notifier:  notifier,
		Indicator: menu.Indicator(),
		Tones:     app,
		Stats:     statsMgr,
		Window:    windowdetect.New(),
		Timing:    cfg.GetTimingConfig(),
	})
	pipe.OnFinished(func(pipeline.Result) { menu.RefreshStats() })

	if runtime.GOOS == "linux" {
		bus = dbus.NewServer(ctx, pipe)
		if err := bus.Start(); err != nil {
			logger.Warnf("D-Bus service not available: %v", err)
			bus = nil
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Infof("Received signal %v, shutting down...", sig)
			cancel()
			menu.Quit()
		case <-ctx.Done():
		}
	}()

	menu.Run()

	cancel()
	if monitor != nil {
		monitor.Stop()
	}
	if bus != nil {
		bus.Stop()
	}
	logger.Info("TypoZap stopped")
}

func printStats(s stats.Stats) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	names := s.ToneNames()
	if len(names) == 0 {
		fmt.Println("No corrections recorded yet.")
		return
	}

	bold.Printf("%-16s %12s %8s %10s %10s\n", "Tone", "Corrections", "Failed", "Chars in", "Chars out")
	for _, name := range names {
		t := s.Tones[name]
		fmt.Printf("%-16s ", name)
		green.Printf("%12d ", t.Corrections)
		red.Printf("%8d ", t.Failures)
		fmt.Printf("%10d %10d\n", t.CharsIn, t.CharsOut)
	}
	total := s.Totals()
	bold.Printf("%-16s %12d %8d %10d %10d\n", "Total", total.Corrections, total.Failures, total.CharsIn, total.CharsOut)
}
