package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/oauth2"

	"github.com/msambhus/team-asha-randonneuring/internal/auth"
	"github.com/msambhus/team-asha-randonneuring/internal/config"
	"github.com/msambhus/team-asha-randonneuring/internal/service"
	"github.com/msambhus/team-asha-randonneuring/internal/store"
	"github.com/msambhus/team-asha-randonneuring/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your club's Strava API credentials.")
		fmt.Println("Get them from: https://www.strava.com/settings/api")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	syncSvc := service.NewSyncService(db, oauthCfg, cfg.Sync, cfg.Club)
	querySvc := service.NewQueryService(db)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			return addRider(db, os.Args[2:])
		case "connect":
			return connectRider(ctx, db, oauthCfg, os.Args[2:])
		case "sync":
			return runSync(ctx, syncSvc)
		case "help", "-h", "--help":
			usage()
			return nil
		default:
			usage()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	// Launch TUI
	app := tui.NewApp(db, syncSvc, querySvc, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  randoclub                 Launch the club dashboard")
	fmt.Println("  randoclub add <name>      Add a rider to the roster")
	fmt.Println("  randoclub connect <name>  Link a rider's Strava account")
	fmt.Println("  randoclub sync            Sync all connected riders")
}

func addRider(db *store.DB, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: randoclub add <name>")
	}
	name := strings.Join(args, " ")

	if _, err := db.GetRiderByName(name); err == nil {
		return fmt.Errorf("rider %q already exists", name)
	}

	id, err := db.AddRider(&store.Rider{Name: name})
	if err != nil {
		return fmt.Errorf("adding rider: %w", err)
	}

	fmt.Printf("Added rider %q (id %d). Link their Strava with:\n", name, id)
	fmt.Printf("  randoclub connect %s\n", name)
	return nil
}

func connectRider(ctx context.Context, db *store.DB, oauthCfg *oauth2.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: randoclub connect <name>")
	}
	name := strings.Join(args, " ")

	rider, err := db.GetRiderByName(name)
	if errors.Is(err, store.ErrRiderNotFound) {
		return fmt.Errorf("rider %q not found - add them first with: randoclub add %s", name, name)
	}
	if err != nil {
		return fmt.Errorf("looking up rider: %w", err)
	}

	result, err := auth.Authenticate(ctx, oauthCfg, rider.Name)
	if err != nil {
		return fmt.Errorf("authentication: %w", err)
	}

	conn := &store.Connection{
		RiderID:      rider.ID,
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}
	if err := db.SaveConnection(conn); err != nil {
		return fmt.Errorf("saving connection: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s is connected as Strava athlete %d.\n", rider.Name, result.AthleteID)
	return nil
}

func runSync(ctx context.Context, syncSvc *service.SyncService) error {
	fmt.Println("Syncing connected riders...")

	result, err := syncSvc.SyncAll(ctx, nil)
	if result != nil {
		fmt.Printf("Synced %d riders, stored %d activities.\n", result.RidersSynced, result.ActivitiesStored)
		if result.RateLimited {
			fmt.Printf("Rate limit reached; %d riders deferred to the next run.\n", result.RidersSkipped)
		}
		for _, e := range result.Errors {
			fmt.Printf("  warning: %v\n", e)
		}
	}
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}
