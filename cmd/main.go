package main

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pcfixlab/diagrouter/pkg/apiserver"
	"github.com/pcfixlab/diagrouter/pkg/classification"
	"github.com/pcfixlab/diagrouter/pkg/config"
	"github.com/pcfixlab/diagrouter/pkg/decision"
	"github.com/pcfixlab/diagrouter/pkg/feedback"
	"github.com/pcfixlab/diagrouter/pkg/observability/logging"
	"github.com/pcfixlab/diagrouter/pkg/rules"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to the configuration file")
		port        = flag.Int("port", 0, "Port for the classification API (overrides config)")
		metricsPort = flag.Int("metrics-port", 0, "Port for Prometheus metrics (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatalf("Failed to load config %s: %v", *configPath, err)
	}
	if *port != 0 {
		cfg.API.Port = *port
	}
	if *metricsPort != 0 {
		cfg.API.MetricsPort = *metricsPort
	}

	mapping := classification.DefaultCategoryMapping()
	if cfg.CategoryMappingPath != "" {
		mapping, err = classification.LoadCategoryMapping(cfg.CategoryMappingPath)
		if err != nil {
			logging.Fatalf("Failed to load category mapping: %v", err)
		}
	}

	extra := make([]rules.Rule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		extra = append(extra, rules.Rule{
			Keywords:    rc.Keywords,
			Label:       rc.Label,
			Confidence:  rc.Confidence,
			Explanation: rc.Explanation,
			Related:     rc.Related,
		})
	}
	matcher, err := rules.NewDefaultMatcher(extra)
	if err != nil {
		logging.Fatalf("Invalid rule configuration: %v", err)
	}
	logging.Infof("Rule matcher loaded with %d rules", matcher.Len())

	hier := classification.NewHierarchicalClassifier(
		classification.NewModelStore(cfg.Models.CategoryPath),
		classification.NewModelStore(cfg.Models.ComponentPath),
		mapping,
	)

	opts := decision.Options{
		Config:       cfg,
		Matcher:      matcher,
		Hierarchical: hier,
		Flat:         decision.NewFlatModel(classification.NewModelStore(cfg.Models.FlatPath)),
		Mapping:      mapping,
	}

	var store *feedback.Store
	if cfg.Feedback.DBPath != "" {
		store, err = feedback.Open(cfg.Feedback.DBPath)
		if err != nil {
			logging.Fatalf("Failed to open feedback store: %v", err)
		}
		defer store.Close()
		opts.Recorder = store
	}

	engine := decision.NewEngine(opts)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsAddr := fmt.Sprintf(":%d", cfg.API.MetricsPort)
		logging.Infof("Starting metrics server on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logging.Errorf("Metrics server error: %v", err)
		}
	}()

	server := apiserver.NewServer(cfg, engine, storeOrNil(store))
	if err := server.Run(); err != nil {
		logging.Fatalf("API server error: %v", err)
	}
}

// storeOrNil keeps a nil *feedback.Store from becoming a non-nil interface.
func storeOrNil(store *feedback.Store) apiserver.FeedbackStore {
	if store == nil {
		return nil
	}
	return store
}
