// ABOUTME: Entry point for the fleet-gateway control plane
// ABOUTME: Provisions endpoint proxies from a manifest and serves a user session

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/2389/fleet-gateway/internal/config"
	"github.com/2389/fleet-gateway/internal/manifest"
	"github.com/2389/fleet-gateway/internal/session"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
  ___ _           _                     _
 / __| |___  __ _| |_ ___ __ _ __ _ ___| |_ _____ __ ____ _ _  _
| (__| / -_)/ _' |  _|___/ _' / _' |___|  _/ -_) V  V / _' | || |
 \___|_\___|\__,_|\__|   \__, \__,_|    \__\___|\_/\_/\__,_|\_, |
                         |___/                              |__/
`

// getConfigPath returns the path to the gateway config file.
// Priority: FLEET_CONFIG env var > XDG_CONFIG_HOME/fleet/gateway.yaml > ~/.config/fleet/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("FLEET_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "fleet", "gateway.yaml")
}

func main() {
	configPath := pflag.String("config", "", "path to gateway config (default: FLEET_CONFIG or XDG location)")
	manifestPath := pflag.String("manifest", "", "path to provisioning manifest (overrides config)")
	userID := pflag.String("user", "local", "user the boot session is provisioned for")
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *manifestPath, *userID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, manifestPath, userID string) error {
	if configPath == "" {
		configPath = getConfigPath()
	}

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if manifestPath == "" {
		manifestPath = cfg.Manifest.Path
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Gateway:  %s\n", cfg.Gateway.Name)
	if manifestPath != "" {
		green.Print("    ▶ ")
		fmt.Printf("Manifest: %s\n", manifestPath)
	}
	fmt.Println()

	logger.Info("starting fleet-gateway",
		"config", configPath,
		"gateway", cfg.Gateway.Name,
		"user", userID,
	)

	sess := session.New(userID, &printNotifier{}, session.Limits{
		MaxRobots:     cfg.Session.MaxRobots,
		MaxContainers: cfg.Session.MaxContainers,
	}, logger)

	delegate := newLogDelegate(logger)

	if manifestPath != "" {
		m, err := manifest.Load(manifestPath)
		if err != nil {
			return fmt.Errorf("loading manifest: %w", err)
		}
		if err := provision(sess, m, delegate); err != nil {
			// Boot provisioning is all-or-nothing: release whatever came up.
			if closeErr := sess.Close(); closeErr != nil {
				logger.Warn("teardown after failed provisioning", "error", closeErr)
			}
			return fmt.Errorf("provisioning: %w", err)
		}
	}

	logger.Info("session ready",
		"robots", len(sess.Robots()),
		"containers", len(sess.Containers()),
	)

	<-ctx.Done()

	if cfg.Session.TeardownGrace > 0 {
		logger.Info("shutting down", "grace", cfg.Session.TeardownGrace)
		time.Sleep(cfg.Session.TeardownGrace)
	}

	return sess.Close()
}

// provision walks the manifest and creates every declared resource through
// the session, marking each container connected once its contents are up.
func provision(sess *session.Session, m *manifest.Manifest, delegate any) error {
	for _, r := range m.Robots {
		if err := sess.CreateRobot(r.ID, r.Key, delegate); err != nil {
			return fmt.Errorf("robot %q: %w", r.ID, err)
		}
	}

	for _, c := range m.Containers {
		if err := sess.CreateContainer(c.Tag, delegate); err != nil {
			return fmt.Errorf("container %q: %w", c.Tag, err)
		}
		for _, n := range c.Nodes {
			if err := sess.AddNode(c.Tag, n.Tag, n.Package, n.Executable, n.Args, n.Name, n.Namespace); err != nil {
				return fmt.Errorf("container %q node %q: %w", c.Tag, n.Tag, err)
			}
		}
		for _, p := range c.Parameters {
			if err := sess.AddParameter(c.Tag, p.Name, p.Value, p.Type); err != nil {
				return fmt.Errorf("container %q parameter %q: %w", c.Tag, p.Name, err)
			}
		}
		if err := sess.SetConnected(c.Tag, true); err != nil {
			return fmt.Errorf("container %q: %w", c.Tag, err)
		}
	}

	return nil
}

// printNotifier writes container connectivity changes to stdout.
type printNotifier struct{}

func (printNotifier) ContainerUpdate(userID, tag string, connected bool) {
	status := color.GreenString("connected")
	if !connected {
		status = color.RedString("disconnected")
	}
	fmt.Printf("    %s container %s: %s\n", color.HiBlackString(userID), tag, status)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
