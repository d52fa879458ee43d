// Command seed scaffolds a starter config directory: a model catalog, the
// tier/band thresholds, and a server config. Existing files are left alone.
// After writing, it loads the result through the real catalog pipeline so a
// broken scaffold fails here instead of at server startup.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/strata-ai/strata/internal/config"
	"github.com/strata-ai/strata/internal/core/services/catalog"
	"go.uber.org/zap"
)

const seedCatalogCSV = `rank,identifier,provider,band,status,context_window,input_cost,output_cost,org_level,specialization,role,strength,benchmark,source_url,updated
1,gpt-5.2-pro,openai,premium,available,400000,21,168,executive,reasoning,lead,deep multi-step analysis,92,https://openai.com/api/pricing/,2026-08-15
2,claude-opus-4.5,anthropic,premium,available,200000,15,75,executive,reasoning,lead,long-horizon agentic work,90,https://docs.claude.com/en/docs/about-claude/pricing,2026-08-15
3,gemini-3.0-ultra,google,value,available,1000000,9,36,executive,general,lead,huge context,88,https://ai.google.dev/pricing,2026-08-15
4,claude-sonnet-4.5,anthropic,value,available,200000,3,15,senior,coding,specialist,code quality,77,https://docs.claude.com/en/docs/about-claude/pricing,2026-08-15
5,gpt-5.2,openai,value,available,256000,3.5,14,senior,coding,specialist,balanced coding,76,https://openai.com/api/pricing/,2026-08-15
6,deepseek-v4,deepseek,economy,available,128000,0.6,1.7,senior,coding,specialist,price performance,72,https://api-docs.deepseek.com/quick_start/pricing,2026-08-15
7,gemini-3.0-flash,google,economy,available,1000000,0.5,2,junior,general,assistant,fast with huge context,61,https://ai.google.dev/pricing,2026-08-15
8,claude-haiku-4,anthropic,economy,available,200000,0.8,4,junior,conversation,assistant,snappy dialogue,58,https://docs.claude.com/en/docs/about-claude/pricing,2026-08-15
9,gpt-5-mini,openai,economy,available,128000,0.45,1.8,junior,general,assistant,cheap default,56,https://openai.com/api/pricing/,2026-08-15
10,qwen-3-coder,alibaba,economy,available,128000,0.5,1.5,junior,coding,assistant,open-weight coding,54,https://www.alibabacloud.com/help/en/model-studio/billing,2026-08-15
11,llama-4-maverick,meta,free,available,128000,0,0,free,general,intern,local deployment,42,https://llama.meta.com/,2026-08-15
12,llama-3.1-8b,meta,free,available,128000,0,0,free,conversation,intern,always available,28,https://llama.meta.com/,2026-08-15
`

const seedThresholdsYAML = `# Tier scale over the normalized complexity score [0, 1).
tiers:
  - {label: free, lower: 0, upper: 0.2}
  - {label: junior, lower: 0.2, upper: 0.5}
  - {label: senior, lower: 0.5, upper: 0.8}
  - {label: executive, lower: 0.8}

# Band scales used to derive a tier from catalog facts.
bands:
  benchmark:
    - {label: entry, lower: 0, upper: 40}
    - {label: mid, lower: 40, upper: 60}
    - {label: high, lower: 60, upper: 80}
    - {label: frontier, lower: 80}
  context:
    - {label: small, lower: 0, upper: 16000}
    - {label: medium, lower: 16000, upper: 64000}
    - {label: large, lower: 64000, upper: 256000}
    - {label: huge, lower: 256000}
  price:
    - {label: free, lower: 0, upper: 0.5}
    - {label: economy, lower: 0.5, upper: 3}
    - {label: value, lower: 3, upper: 15}
    - {label: premium, lower: 15}

analyzer:
  base_prior: 0.05
  tool_priors:
    chat: 0.05
    codereview: 0.15
    analyze: 0.15
    debug: 0.2
    refactor: 0.2
    secaudit: 0.3
  tool_floors:
    secaudit: junior
  keyword_weights:
    race condition: 0.25
    deadlock: 0.25
    architecture: 0.2
    security: 0.2
    vulnerability: 0.2
    migrate: 0.15
    concurrency: 0.15
    performance: 0.1
  length_steps:
    - {min_chars: 280, weight: 0.05}
    - {min_chars: 1200, weight: 0.1}
  file_weight: 0.05
  trace_weight: 0.15
  multi_file_weight: 0.05
`

const seedConfigYAML = `server:
  port: "8080"
  env: development
  auth_enabled: false

routing:
  enabled: true
  catalog_path: config/models.csv
  thresholds_path: config/thresholds.yaml
  max_fallbacks: 3
  safe_default_model: llama-3.1-8b
  excluded_tools:
    - listmodels
    - version
  decision_buffer: 256

redis:
  enabled: false
  addr: localhost:6379
  db: 0

database:
  path: strata.db

rate_limit:
  requests_per_second: 10
  burst: 20
`

func main() {
	dir := flag.String("dir", "config", "target config directory")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		fail("create %s: %v", *dir, err)
	}

	files := map[string]string{
		"models.csv":      seedCatalogCSV,
		"thresholds.yaml": seedThresholdsYAML,
		"config.yaml":     seedConfigYAML,
	}
	for name, content := range files {
		path := filepath.Join(*dir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("skip %s (exists)\n", path)
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fail("write %s: %v", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	thresholds, err := config.LoadThresholds(filepath.Join(*dir, "thresholds.yaml"))
	if err != nil {
		fail("thresholds do not load: %v", err)
	}
	cat, err := catalog.Open(filepath.Join(*dir, "models.csv"), thresholds.Deriver, nil, zap.NewNop())
	if err != nil {
		fail("catalog does not load: %v", err)
	}
	fmt.Printf("catalog OK: %d models\n", len(cat.Snapshot()))
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
