package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/browser"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/expand"
	"github.com/sells-group/leadgen-cli/internal/fetch"
	"github.com/sells-group/leadgen-cli/internal/geo"
	"github.com/sells-group/leadgen-cli/internal/locale"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/output"
	"github.com/sells-group/leadgen-cli/internal/pacing"
	"github.com/sells-group/leadgen-cli/internal/parse"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/source"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/clearbit"
	"github.com/sells-group/leadgen-cli/pkg/fullcontact"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/mailboxlayer"
	"github.com/sells-group/leadgen-cli/pkg/scrapingbee"
	"github.com/sells-group/leadgen-cli/pkg/twiliolookup"
)

var (
	huntTitle    string
	huntIndustry string
	huntLocation string
	huntLanguage string
	huntRegion   string
	huntOut      string
)

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Run a lead generation hunt for one query",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Flags override config; config carries the defaults.
		language := huntLanguage
		if language == "" {
			language = cfg.Search.Language
		}
		regionName := huntRegion
		if regionName == "" {
			regionName = cfg.Search.Region
		}
		outDir := huntOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}

		regions, err := geo.Regions(regionName)
		if err != nil {
			return err
		}
		lang := locale.Lookup(language)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		query := model.Query{
			JobTitle:     huntTitle,
			Industry:     huntIndustry,
			Location:     huntLocation,
			LanguageCode: lang.Code,
		}
		run, err := st.CreateRun(ctx, query)
		if err != nil {
			return err
		}

		orch, err := buildOrchestrator(lang, regions)
		if err != nil {
			return err
		}

		leads, result, runErr := orch.Run(ctx, query)

		status := model.RunStatusComplete
		if runErr != nil {
			status = model.RunStatusCancelled
			zap.L().Warn("hunt interrupted, keeping partial results", zap.Error(runErr))
		}
		if err := st.FinishRun(cmd.Context(), run.ID, status, result); err != nil {
			zap.L().Warn("hunt: persist run result failed", zap.Error(err))
		}
		if err := st.SaveLeads(cmd.Context(), run.ID, leads); err != nil {
			zap.L().Warn("hunt: persist leads failed", zap.Error(err))
		}

		path, err := output.WriteLeads(outDir, leads, time.Now().UTC())
		if err != nil {
			return err
		}

		fmt.Printf("run %s: %d leads (%d raw hits, %d source errors) in %s\n",
			run.ID, len(leads), result.RawHits, result.SourceErrors, result.Elapsed.Round(time.Millisecond))
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

// buildOrchestrator assembles the pipeline from configuration: pacing,
// proxies, the fetch path (bypass API or headless browser), the configured
// acquirers, and the enrichment clients whose keys are present.
func buildOrchestrator(lang locale.Language, regions []string) (*pipeline.Orchestrator, error) {
	schemas, err := parse.LoadSchemas()
	if err != nil {
		return nil, err
	}

	pace := pacing.NewTable(pacing.SourceRate{
		Interval:  time.Duration(cfg.Pacing.DelayMinSecs * float64(time.Second)),
		JitterMax: time.Duration((cfg.Pacing.DelayMaxSecs - cfg.Pacing.DelayMinSecs) * float64(time.Second)),
	})
	pace.SetSource("linkedin", pacing.PerMinute(cfg.Pacing.LinkedInRPM))

	var proxies *pacing.ProxyPool
	if cfg.Proxy.Enabled {
		proxies = pacing.NewProxyPool(cfg.Proxy.List)
	}

	var api fetch.Fetcher
	if cfg.ScrapingBee.Key != "" {
		api = fetch.NewAPIFetcher(scrapingbee.NewClient(cfg.ScrapingBee.Key), proxies)
	}

	deps := source.Deps{
		Pace:     pace,
		Proxies:  proxies,
		API:      api,
		Browsers: browser.NewChromeFactory(),
		Schemas:  schemas,
		Headless: cfg.Browser.Headless,
		Timeout:  time.Duration(cfg.Browser.TimeoutSecs) * time.Second,
	}

	var acquirers []source.Acquirer
	for _, name := range cfg.Search.Sources {
		switch name {
		case "linkedin":
			acquirers = append(acquirers, source.NewLinkedIn(deps))
		case "google":
			acquirers = append(acquirers, source.NewGoogle(deps))
		case "baidu":
			acquirers = append(acquirers, source.NewBaidu(deps))
		default:
			return nil, eris.Errorf("unknown source %q", name)
		}
	}
	if len(acquirers) == 0 {
		return nil, eris.New("no sources configured")
	}

	enrichCfg := enrich.Config{VerifyEmails: cfg.MailboxLayer.VerifyEmails}
	if cfg.Hunter.Key != "" {
		enrichCfg.Emails = hunter.NewClient(cfg.Hunter.Key)
	}
	if cfg.MailboxLayer.Key != "" {
		enrichCfg.Verifier = mailboxlayer.NewClient(cfg.MailboxLayer.Key)
	}
	if cfg.Clearbit.Key != "" {
		enrichCfg.Companies = clearbit.NewClient(cfg.Clearbit.Key)
	}
	if cfg.FullContact.Key != "" {
		enrichCfg.Social = fullcontact.NewClient(cfg.FullContact.Key)
	}
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		enrichCfg.Phones = twiliolookup.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)
	}

	return pipeline.New(pipeline.Config{
		Expander:    expand.New(cfg.Search.ExpansionDepth),
		Sources:     acquirers,
		Enricher:    enrich.New(enrichCfg),
		Lang:        lang,
		Regions:     regions,
		MaxParallel: len(acquirers),
		MaxResults:  cfg.Search.MaxResults,
		Cache:       pipeline.NewQueryCache(cfg.Search.CacheSize),
	}), nil
}

func init() {
	huntCmd.Flags().StringVar(&huntTitle, "title", "", "job title to hunt for (required)")
	huntCmd.Flags().StringVar(&huntIndustry, "industry", "", "industry to hunt in")
	huntCmd.Flags().StringVar(&huntLocation, "location", "", "location, e.g. \"Berlin, Germany\"")
	huntCmd.Flags().StringVar(&huntLanguage, "language", "", "search language name or ISO code")
	huntCmd.Flags().StringVar(&huntRegion, "region", "", "region to search (see 'leadgen regions')")
	huntCmd.Flags().StringVar(&huntOut, "out", "", "output directory for the leads artifact")
	_ = huntCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(huntCmd)
}
