package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/mensa/internal/build"
	"github.com/rohmanhakim/mensa/internal/cache"
	"github.com/rohmanhakim/mensa/internal/config"
	"github.com/rohmanhakim/mensa/internal/extractor"
	"github.com/rohmanhakim/mensa/internal/fetcher"
	"github.com/rohmanhakim/mensa/internal/menu"
	"github.com/rohmanhakim/mensa/internal/menuservice"
	"github.com/rohmanhakim/mensa/internal/metadata"
	"github.com/spf13/cobra"
)

var (
	cfgFile          string
	canteenName      string
	dateString       string
	baseURL          string
	userAgent        string
	timeout          time.Duration
	cacheCapacity    int
	freshnessWindow  time.Duration
	cacheAcquireWait time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "mensa",
	Version: build.FullVersion(),
	Short:   "Daily canteen menus from the Aachen Studierendenwerk.",
	Long: `mensa fetches the published menu page of an Aachen Studierendenwerk
canteen, extracts the dishes and extras for one date, and prints the
result as chat-ready HTML. Extracted menus are cached in memory so
repeated lookups within the freshness window skip the network.`,
	Run: func(cmd *cobra.Command, args []string) {
		if canteenName == "" {
			fmt.Fprintf(os.Stderr, "Error: --canteen is required. Known canteens: %s\n", strings.Join(menu.CanteenKeys(), ", "))
			cmd.Usage()
			os.Exit(1)
		}

		canteen, ok := menu.ParseCanteen(canteenName)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown canteen %q. Known canteens: %s\n", canteenName, strings.Join(menu.CanteenKeys(), ", "))
			os.Exit(1)
		}

		day := menu.DateOf(time.Now())
		if dateString != "" {
			parsed, err := menu.ParseDate(dateString)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
				os.Exit(1)
			}
			day = parsed
		}

		cfg := InitConfig()

		service, err := buildService(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		result, fetchErr := service.FetchDailyMenu(cmd.Context(), day, canteen)
		if fetchErr != nil {
			var closedErr *extractor.CanteenClosedError
			if errors.As(fetchErr, &closedErr) {
				fmt.Printf("%s is closed on %s.\n", closedErr.Canteen, closedErr.Date)
				return
			}
			fmt.Fprintf(os.Stderr, "Error: could not load the menu for %s on %s: %s\n", canteen, day, fetchErr)
			os.Exit(1)
		}

		fmt.Println(result.FormatHTML())
	},
}

// buildService wires the recorder, fetcher, extractor, and store into a
// ready MenuService. Metadata goes to stderr so stdout stays clean for
// the rendered menu.
func buildService(cfg config.Config) (*menuservice.MenuService, error) {
	recorder := metadata.NewRecorder(os.Stderr)

	menuFetcher := fetcher.NewHtmlFetcher(recorder)
	menuFetcher.Init(&http.Client{Timeout: cfg.Timeout()}, cfg.UserAgent(), cfg.BaseURL())

	menuExtractor := extractor.NewMenuExtractor(recorder)

	store, err := cache.NewMenuStore(cfg.CacheCapacity(), cfg.FreshnessWindow(), cfg.CacheAcquireWait(), recorder)
	if err != nil {
		return nil, err
	}

	return menuservice.NewMenuService(&menuFetcher, &menuExtractor, store, recorder), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&canteenName, "canteen", "", "canteen to look up (e.g., academica)")
	rootCmd.PersistentFlags().StringVar(&dateString, "date", "", "date to look up in YYYY-MM-DD form (defaults to today)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "root URL of the canteen site")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().IntVar(&cacheCapacity, "cache-capacity", 0, "maximum number of cached menus")
	rootCmd.PersistentFlags().DurationVar(&freshnessWindow, "freshness-window", 0, "how long a cached menu is served without refetching")
	rootCmd.PersistentFlags().DurationVar(&cacheAcquireWait, "cache-acquire-wait", 0, "how long to wait for the cache lock before fetching uncached")
}

// InitConfig builds the effective configuration from the config file or
// the CLI flags.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError builds the effective configuration, returning any
// errors. This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	// Start with default config and apply overrides using method chaining
	configBuilder := config.WithDefault()

	if baseURL != "" {
		configBuilder = configBuilder.WithBaseURL(baseURL)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if cacheCapacity > 0 {
		configBuilder = configBuilder.WithCacheCapacity(cacheCapacity)
	}

	if freshnessWindow > 0 {
		configBuilder = configBuilder.WithFreshnessWindow(freshnessWindow)
	}

	if cacheAcquireWait > 0 {
		configBuilder = configBuilder.WithCacheAcquireWait(cacheAcquireWait)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	canteenName = ""
	dateString = ""
	baseURL = ""
	userAgent = ""
	timeout = 0
	cacheCapacity = 0
	freshnessWindow = 0
	cacheAcquireWait = 0
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetCanteenForTest(name string) {
	canteenName = name
}

func SetDateForTest(date string) {
	dateString = date
}

func SetBaseURLForTest(u string) {
	baseURL = u
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetCacheCapacityForTest(capacity int) {
	cacheCapacity = capacity
}

func SetFreshnessWindowForTest(window time.Duration) {
	freshnessWindow = window
}

func SetCacheAcquireWaitForTest(wait time.Duration) {
	cacheAcquireWait = wait
}
