package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"geofetch/pkg/auth"
	"geofetch/pkg/config"
	"geofetch/pkg/logger"
	"geofetch/pkg/retriever"
	"geofetch/pkg/storage"
	_ "geofetch/pkg/twitter" // registers the twitter source
)

var (
	// Fetch command flags
	fetchSources []string
	fetchMedia   []string
	fetchKeyword string
	quantity     int
	location     string
	interval     []float64
	queryLimit   int
	failHard     bool
	insecure     bool
	strictMedia  bool
	outputPath   string
	accountName  string
	consumerKey  string
	accessToken  string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Retrieve geotagged content matching a query",
	Long: `Retrieve geotagged content from the configured sources and print the
result as a GeoJSON FeatureCollection.

A query needs at least one constraint: a keyword, a location, or a time
interval. Credentials come from stored accounts ('geofetch auth login'),
environment variables (TWITTER_CONSUMER_KEY and TWITTER_ACCESS_TOKEN), or
the configuration file.`,
	Example: `  # Fetch recent images and text near Melbourne
  geofetch fetch --keyword coffee --location -37.81,144.96,2,km

  # Fetch text only, within a time window, capped at one API call
  geofetch fetch --keyword storm --media text --interval 1445000000,1445100000 --limit 1

  # Fail loudly instead of returning partial results, write to a file
  geofetch fetch --keyword flood --hard --output flood.geojson`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringSliceVar(&fetchSources, "sources", []string{"twitter"}, "sources to query")
	fetchCmd.Flags().StringSliceVarP(&fetchMedia, "media", "m", nil, "media kinds to retrieve (image, sound, text, video)")
	fetchCmd.Flags().StringVarP(&fetchKeyword, "keyword", "k", "", "free-text search term")
	fetchCmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "target number of features (default from config)")
	fetchCmd.Flags().StringVarP(&location, "location", "l", "", "circular search area as lat,lon,radius,unit")
	fetchCmd.Flags().Float64SliceVarP(&interval, "interval", "i", nil, "time window as two POSIX timestamps")
	fetchCmd.Flags().IntVar(&queryLimit, "limit", -1, "maximum number of API calls per source (-1 for unlimited)")
	fetchCmd.Flags().BoolVar(&failHard, "hard", false, "raise errors instead of returning partial results")
	fetchCmd.Flags().BoolVar(&insecure, "insecure", false, "fetch media over HTTP instead of HTTPS")
	fetchCmd.Flags().BoolVar(&strictMedia, "strict", false, "limit output properties to the requested media kinds")
	fetchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the FeatureCollection to a file instead of stdout")
	fetchCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	fetchCmd.Flags().StringVar(&consumerKey, "consumer-key", "", "Twitter consumer key")
	fetchCmd.Flags().StringVar(&accessToken, "access-token", "", "Twitter access token")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadFetchConfig(cmd)
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	log := logger.GetLogger()

	creds, err := resolveCredentials(cfg)
	if err != nil {
		return err
	}

	req := retriever.Request{
		Media:       fetchMedia,
		Keyword:     fetchKeyword,
		Quantity:    quantity,
		FailHard:    failHard,
		Insecure:    insecure,
		StrictMedia: strictMedia,
	}
	if len(req.Media) == 0 {
		req.Media = cfg.Defaults.Media
	}
	if req.Quantity <= 0 {
		req.Quantity = cfg.Defaults.Quantity
	}
	if queryLimit >= 0 {
		req.QueryLimit = &queryLimit
	}

	if location != "" {
		loc, err := parseLocation(location)
		if err != nil {
			return err
		}
		req.Location = loc
	}
	if len(interval) > 0 {
		if len(interval) != 2 {
			return fmt.Errorf("--interval takes exactly two timestamps, got %d", len(interval))
		}
		req.Interval = &retriever.Interval{Earliest: interval[0], Latest: interval[1]}
	}

	keys := make(map[string]auth.Credentials, len(fetchSources))
	for _, source := range fetchSources {
		keys[strings.ToLower(source)] = creds
	}

	log.InfoWithFields("starting fetch", map[string]interface{}{
		"sources":  fetchSources,
		"quantity": req.Quantity,
	})

	collection, err := retriever.New(keys).Fetch(fetchSources, req)
	if err != nil {
		log.WithError(err).Error("fetch failed")
		return err
	}

	log.WithField("features", len(collection.Features)).Info("fetch finished")

	writer := storage.NewWriter()
	if outputPath != "" {
		if err := writer.Save(outputPath, collection); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d features to %s\n", len(collection.Features), outputPath)
		return nil
	}
	return writer.Encode(os.Stdout, collection)
}

// loadFetchConfig builds the effective configuration from the config file,
// the environment, and explicitly set flags.
func loadFetchConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := make(map[string]interface{})
	if consumerKey != "" {
		flags["consumer-key"] = consumerKey
	}
	if accessToken != "" {
		flags["access-token"] = accessToken
	}
	if cmd.Flags().Changed("quantity") {
		flags["quantity"] = quantity
	}
	if cmd.Flags().Changed("media") {
		flags["media"] = fetchMedia
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	return config.Load(configFile, flags)
}

// resolveCredentials picks the credential pair for this invocation: a named
// stored account first, then config/env values, then any stored account.
func resolveCredentials(cfg *config.Config) (auth.Credentials, error) {
	if accountName != "" {
		manager, err := auth.NewManager()
		if err != nil {
			return auth.Credentials{}, err
		}
		account, err := manager.Retrieve(accountName)
		if err != nil {
			return auth.Credentials{}, fmt.Errorf("account %q not found; run 'geofetch auth list' to see stored accounts", accountName)
		}
		return account.Credentials, nil
	}

	configured := auth.Credentials{
		ConsumerKey: cfg.Twitter.ConsumerKey,
		AccessToken: cfg.Twitter.AccessToken,
	}
	if configured.Complete() {
		return configured, nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return auth.Credentials{}, err
	}
	accounts, err := manager.List()
	if err == nil && len(accounts) > 0 {
		logger.GetLogger().WithField("account", accounts[0].Name).Info("using stored credentials")
		return accounts[0].Credentials, nil
	}

	return auth.Credentials{}, fmt.Errorf("no credentials found; run 'geofetch auth login' or set TWITTER_CONSUMER_KEY and TWITTER_ACCESS_TOKEN")
}

// parseLocation parses the "lat,lon,radius,unit" flag form.
func parseLocation(value string) (*retriever.Location, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("--location takes lat,lon,radius,unit, got %q", value)
	}

	numbers := make([]float64, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid location component %q: %w", parts[i], err)
		}
		numbers[i] = n
	}

	return &retriever.Location{
		Latitude:  numbers[0],
		Longitude: numbers[1],
		Radius:    numbers[2],
		Unit:      strings.TrimSpace(parts[3]),
	}, nil
}
