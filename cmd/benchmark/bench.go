// Command benchmark builds the server, starts it against a generated
// throwaway config, and drives POST /v1/route with vegeta.
//
// Usage:
//
//	go run ./cmd/benchmark -duration 30s -rate 200
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const benchPort = "18080"

const benchCatalogCSV = `rank,identifier,provider,band,status,context_window,input_cost,output_cost,org_level,specialization,role,strength,benchmark,source_url,updated
1,gpt-alpha-ultra,openai,premium,available,200000,15,60,executive,reasoning,lead,deep analysis,91,,2026-08-01
2,claude-apex,anthropic,value,available,200000,3,6,senior,coding,lead,code depth,75,,2026-08-01
3,claude-brisk,anthropic,economy,available,200000,1,2,junior,coding,assistant,fast edits,58,,2026-08-01
4,gemini-swift,google,economy,available,128000,0.9,1.2,junior,general,assistant,speed,55,,2026-08-01
5,llama-local,ollama,free,available,8000,0,0,free,conversation,intern,availability,30,,2026-08-01
`

const benchThresholdsYAML = `
tiers:
  - {label: free, lower: 0, upper: 0.2}
  - {label: junior, lower: 0.2, upper: 0.5}
  - {label: senior, lower: 0.5, upper: 0.8}
  - {label: executive, lower: 0.8}
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
    debug: 0.2
    secaudit: 0.3
  tool_floors:
    secaudit: junior
  keyword_weights:
    race condition: 0.25
    architecture: 0.2
    security: 0.2
  length_steps:
    - {min_chars: 280, weight: 0.05}
    - {min_chars: 1200, weight: 0.1}
  file_weight: 0.05
  trace_weight: 0.15
  multi_file_weight: 0.05
`

type routePayload struct {
	Tool   string `json:"tool"`
	Prompt string `json:"prompt"`
}

var benchRequests = []routePayload{
	{Tool: "chat", Prompt: "fix the typo in the README"},
	{Tool: "chat", Prompt: "explain what this helper does"},
	{Tool: "debug", Prompt: "investigate the race condition in the payment worker pool"},
	{Tool: "debug", Prompt: "panic: runtime error: invalid memory address\ngoroutine 1 [running]:\nmain.process(...)"},
	{Tool: "analyze", Prompt: "review the architecture of the ingestion pipeline and suggest a split"},
	{Tool: "secaudit", Prompt: "audit the token refresh flow for security issues"},
}

func main() {
	duration := flag.Duration("duration", 30*time.Second, "attack duration")
	rate := flag.Int("rate", 100, "requests per second")
	flag.Parse()

	dir, err := os.MkdirTemp("", "strata-bench-*")
	if err != nil {
		fatal("temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	configPath, err := writeBenchConfig(dir)
	if err != nil {
		fatal("bench config: %v", err)
	}

	binPath := filepath.Join(dir, "strata-server")
	build := exec.Command("go", "build", "-o", binPath, "./cmd/server")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fatal("build: %v", err)
	}

	app := exec.Command(binPath)
	app.Env = append(os.Environ(),
		"CONFIG_FILE="+configPath,
		"LOG_LEVEL=warn",
	)
	app.Stdout = os.Stdout
	app.Stderr = os.Stderr
	if err := app.Start(); err != nil {
		fatal("start server: %v", err)
	}
	defer func() {
		_ = app.Process.Kill()
		_, _ = app.Process.Wait()
	}()

	baseURL := "http://localhost:" + benchPort
	if err := waitForApp(baseURL + "/health"); err != nil {
		fatal("server never became healthy: %v", err)
	}

	fmt.Printf("Attacking %s/v1/route at %d req/s for %s\n\n", baseURL, *rate, *duration)

	targeter := routeTargeter(baseURL)
	attacker := vegeta.NewAttacker()

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "route") {
		metrics.Add(res)
	}
	metrics.Close()

	report(&metrics)
}

// routeTargeter rotates through the canned payloads so the analyzer sees a
// realistic tier mix rather than one hot path.
func routeTargeter(baseURL string) vegeta.Targeter {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func(tgt *vegeta.Target) error {
		payload := benchRequests[rng.Intn(len(benchRequests))]
		body, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		tgt.Method = http.MethodPost
		tgt.URL = baseURL + "/v1/route"
		tgt.Header = http.Header{"Content-Type": []string{"application/json"}}
		tgt.Body = body
		return nil
	}
}

func writeBenchConfig(dir string) (string, error) {
	catalogPath := filepath.Join(dir, "models.csv")
	if err := os.WriteFile(catalogPath, []byte(benchCatalogCSV), 0644); err != nil {
		return "", err
	}
	thresholdsPath := filepath.Join(dir, "thresholds.yaml")
	if err := os.WriteFile(thresholdsPath, []byte(benchThresholdsYAML), 0644); err != nil {
		return "", err
	}

	config := fmt.Sprintf(`server:
  port: "%s"
  env: production
routing:
  enabled: true
  catalog_path: %s
  thresholds_path: %s
  max_fallbacks: 3
  safe_default_model: llama-local
  decision_buffer: 1024
database:
  path: %s
rate_limit:
  requests_per_second: 0
`, benchPort, catalogPath, thresholdsPath, filepath.Join(dir, "bench.db"))

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		return "", err
	}
	return configPath, nil
}

func waitForApp(healthURL string) error {
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(healthURL)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %s", healthURL)
}

func report(m *vegeta.Metrics) {
	fmt.Println("=== Results ===")
	fmt.Printf("Requests:    %d\n", m.Requests)
	fmt.Printf("Success:     %.2f%%\n", m.Success*100)
	fmt.Printf("Throughput:  %.2f req/s\n", m.Throughput)
	fmt.Printf("Mean:        %s\n", m.Latencies.Mean)
	fmt.Printf("P50:         %s\n", m.Latencies.P50)
	fmt.Printf("P95:         %s\n", m.Latencies.P95)
	fmt.Printf("P99:         %s\n", m.Latencies.P99)
	fmt.Printf("Max:         %s\n", m.Latencies.Max)
	if len(m.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range m.Errors {
			fmt.Printf("  %s\n", e)
		}
	}
	for code, count := range m.StatusCodes {
		fmt.Printf("Status %s: %d\n", code, count)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
