package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"storescout/cmd/scout/tui"
	"storescout/cmd/scout/ui"
	"storescout/internal/config"
	"storescout/internal/conversation"
	"storescout/internal/coordinator"
	"storescout/internal/gateway"
	"storescout/internal/location"
	"storescout/internal/logging"
	"storescout/internal/overlay"
	"storescout/internal/store"
	"storescout/internal/view"
)

var (
	// Global flags
	verbose    bool
	configPath string
	backendURL string
	workspace  string
	timeout    time.Duration

	// Search flags
	searchLat float64
	searchLng float64

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "scout - find stores near you from the terminal",
	Long: `scout is a terminal client for the store locator backend.

It shows nearby stores on a character-grid map, lets you search for an
address when device location is unavailable, and carries an assistant
conversation that can move the map for you.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive mode has its own category logger; zap is for
		// the one-shot commands.
		if cmd.CalledAs() != "scout" {
			zcfg := zap.NewProductionConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// searchCmd performs one nearby-store search and prints the results.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for stores around a coordinate",
	Long: `Performs a single nearby-store search and prints the result list.

Example:
  scout search --lat 21.0285 --lng 105.8542`,
	RunE: runSearch,
}

// askCmd sends one message to the assistant.
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask the store assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

// geocodeCmd resolves an address to coordinates.
var geocodeCmd = &cobra.Command{
	Use:   "geocode [query]",
	Short: "Resolve an address to candidate coordinates",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGeocode,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .scout/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: home)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "One-shot command timeout")

	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "Latitude (required)")
	searchCmd.Flags().Float64Var(&searchLng, "lng", 0, "Longitude (required)")
	searchCmd.MarkFlagRequired("lat")
	searchCmd.MarkFlagRequired("lng")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(geocodeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	ws := workspace
	if ws == "" {
		if home, err := os.UserHomeDir(); err == nil {
			ws = home
		} else {
			ws, _ = os.Getwd()
		}
	}
	path := configPath
	if path == "" {
		path = config.DefaultPath(ws)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	if err := logging.Initialize(ws, cfg.Logging); err != nil {
		// Debug logging is best effort; the client works without it.
		fmt.Fprintf(os.Stderr, "warning: debug logging unavailable: %v\n", err)
	}
	return cfg, nil
}

// buildCoordinator wires the full client stack onto the given surface.
func buildCoordinator(ctx context.Context, cfg *config.Config, surface overlay.Surface, locator location.DeviceLocator, panel coordinator.PanelRenderer) (*coordinator.Coordinator, error) {
	window, err := cfg.DebounceWindow()
	if err != nil {
		return nil, err
	}
	geocoder := location.NewGeocoder(cfg.Geocode.Endpoint, cfg.Geocode.CountryCodes, cfg.Geocode.Limit, cfg.Backend.UserAgent)
	provider := location.NewProvider(locator, geocoder, window, cfg.Search.MinQueryLength)

	return coordinator.New(ctx,
		store.NewCache(),
		provider,
		gateway.NewClient(cfg.Backend.BaseURL, cfg.Backend.UserAgent),
		overlay.NewManager(surface),
		conversation.NewController(),
		view.NewStack(),
		panel,
	), nil
}

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	styles := ui.DefaultStyles()
	panel := ui.NewPanel(styles)
	pane := tui.NewMapPane(styles, overlay.LatLng{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng}, cfg.Map.Zoom)

	coord, err := buildCoordinator(ctx, cfg, pane, systemLocator(), panel)
	if err != nil {
		return err
	}
	return tui.Run(coord, tui.NewModel(coord, pane, panel, styles))
}

// systemLocator is the platform location hook. Terminals have no
// geolocation API, so the fix comes from SCOUT_LAT / SCOUT_LNG when the
// host exports them.
func systemLocator() location.DeviceLocator {
	return location.LocatorFunc(func(ctx context.Context) (location.Position, error) {
		lat, latErr := parseEnvFloat("SCOUT_LAT")
		lng, lngErr := parseEnvFloat("SCOUT_LNG")
		if latErr != nil || lngErr != nil {
			return location.Position{}, fmt.Errorf("no location fix available (set SCOUT_LAT and SCOUT_LNG, or search an address)")
		}
		return location.Position{Lat: lat, Lng: lng, Label: "Your location"}, nil
	})
}

func parseEnvFloat(name string) (float64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, fmt.Errorf("%s not set", name)
	}
	var v float64
	if _, err := fmt.Sscanf(raw, "%f", &v); err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// runEffects drives coordinator effects to completion inline, the
// synchronous counterpart of the TUI's command loop.
func runEffects(coord *coordinator.Coordinator, effects []coordinator.Effect) {
	for len(effects) > 0 {
		var next []coordinator.Effect
		for _, eff := range effects {
			next = append(next, coord.Apply(eff())...)
		}
		effects = next
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Searching nearby stores",
		zap.Float64("lat", searchLat),
		zap.Float64("lng", searchLng))

	locator := location.LocatorFunc(func(ctx context.Context) (location.Position, error) {
		return location.Position{Lat: searchLat, Lng: searchLng, Label: "Your location"}, nil
	})
	panel := ui.NewPanel(ui.DefaultStyles())
	coord, err := buildCoordinator(ctx, cfg, noopSurface{}, locator, panel)
	if err != nil {
		return err
	}

	runEffects(coord, []coordinator.Effect{coord.LocateByDevice()})

	if msg, ok := coord.Alert(); ok {
		return fmt.Errorf("%s", msg)
	}
	if msg, ok := coord.Notice(); ok {
		return fmt.Errorf("%s", msg)
	}
	snapshot, count := coord.Views().Snapshot()
	logger.Info("Search finished", zap.Int("stores", count))
	fmt.Println(snapshot)
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	message := strings.Join(args, " ")
	logger.Info("Sending message", zap.String("message", message))

	panel := ui.NewPanel(ui.DefaultStyles())
	coord, err := buildCoordinator(ctx, cfg, noopSurface{}, systemLocator(), panel)
	if err != nil {
		return err
	}

	runEffects(coord, coord.SendChat(message))

	for _, e := range coord.Transcript().Entries() {
		switch e.Role {
		case conversation.RoleUser:
			fmt.Printf("you> %s\n", e.Text)
		default:
			fmt.Printf("scout> %s\n", e.Text)
		}
	}
	if count := len(coord.Results()); count > 0 {
		snapshot, _ := coord.Views().Snapshot()
		fmt.Println()
		fmt.Println(snapshot)
	}
	return nil
}

func runGeocode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	query := strings.Join(args, " ")
	geocoder := location.NewGeocoder(cfg.Geocode.Endpoint, cfg.Geocode.CountryCodes, cfg.Geocode.Limit, cfg.Backend.UserAgent)
	candidates, err := geocoder.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("geocode failed: %w", err)
	}
	if len(candidates) == 0 {
		logger.Info("No candidates", zap.String("query", query))
		fmt.Println("no matches")
		return nil
	}
	for _, c := range candidates {
		fmt.Printf("%.6f,%.6f  %s\n", c.Lat, c.Lng, c.Label)
	}
	return nil
}

// noopSurface satisfies the overlay surface for one-shot commands that
// have no map to draw on.
type noopSurface struct{}

func (noopSurface) AddMarker(id string, at overlay.LatLng, label string)  {}
func (noopSurface) RemoveMarker(id string)                                {}
func (noopSurface) DrawRoute(from, to overlay.LatLng)                     {}
func (noopSurface) ClearRoute()                                           {}
func (noopSurface) SetDestinationPin(at overlay.LatLng)                   {}
func (noopSurface) ClearDestinationPin()                                  {}
func (noopSurface) SetUserDot(at overlay.LatLng, accuracyRadiusM float64) {}
func (noopSurface) CenterOn(at overlay.LatLng, zoom int)                  {}
func (noopSurface) FitBounds(a, b overlay.LatLng, paddingCells int)       {}
