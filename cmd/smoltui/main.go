package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/EinAeffchen/smoltui/internal/api"
	"github.com/EinAeffchen/smoltui/internal/config"
	"github.com/EinAeffchen/smoltui/internal/history"
	"github.com/EinAeffchen/smoltui/internal/log"
	"github.com/EinAeffchen/smoltui/internal/service"
	"github.com/EinAeffchen/smoltui/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("smoltui %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("smoltui requires an interactive terminal")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting smoltui", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, logger)

	hist, err := history.Open(config.DefaultDataPath())
	if err != nil {
		logger.Warn("history store unavailable", "error", err)
		hist, _ = history.Open("")
	}
	defer hist.Close()

	// Shared page cache, created once and injected into the services
	caches := service.NewCaches(logger)
	pageSize := cfg.UI.PageSize
	librarySvc := service.NewLibraryService(client, caches, pageSize, logger)
	peopleSvc := service.NewPeopleService(client, caches, pageSize, logger)
	duplicateSvc := service.NewDuplicateService(client, caches, pageSize, logger)
	searchSvc := service.NewSearchService(client, pageSize, logger)

	startView := startingView(cfg, hist)
	model := tui.NewModel(librarySvc, peopleSvc, duplicateSvc, searchSvc, client, hist, startView, cfg.UI.DefaultSort, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI", "view", startView.String())

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// startingView picks the screen to open on: the last visited view when
// recorded, otherwise the configured default
func startingView(cfg *config.Config, hist *history.Store) tui.View {
	if last, err := hist.LastView(); err == nil && last != "" {
		return tui.ParseView(last)
	}
	return tui.ParseView(cfg.UI.DefaultView)
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to smoltui!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var serverURL, token string
	for {
		fmt.Print("Enter your Smol server URL (e.g., http://192.168.1.100:8000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimSpace(input)
		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Print("Enter your API token: ")
		input, err = reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		token = strings.TrimSpace(input)

		fmt.Println()
		fmt.Print("Checking server...")

		client := api.NewClient(serverURL, token, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = client.CheckHealth(ctx)
		cancel()
		if err != nil {
			fmt.Printf("\r✗ Could not reach server: %v\n", err)
			fmt.Println("Please check the URL and token and try again.")
			fmt.Println()
			continue
		}

		fmt.Println("\r✓ Server is reachable.")
		break
	}

	cfg.Server.URL = serverURL
	cfg.Server.Token = token

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run smoltui again to start the application.")

	return nil
}
