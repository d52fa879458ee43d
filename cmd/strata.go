package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/strata-ai/strata/internal/logger"
	"go.uber.org/zap"
)

// AppVersion is stamped at build time via -ldflags.
var AppVersion = "0.4.0"

const (
	repoOwner = "strata-ai"
	repoName  = "strata"
)

type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdates compares the running version against the latest GitHub
// release and prints a banner when a newer one exists. Failures are silent
// apart from a debug log; the check must never hold up startup.
func CheckForUpdates() {
	client := &http.Client{Timeout: 2 * time.Second}

	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", repoOwner, repoName)
	resp, err := client.Get(url)
	if err != nil {
		logger.Debug("Update check skipped", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("Update check skipped", zap.Int("status", resp.StatusCode))
		return
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		logger.Debug("Update check skipped", zap.Error(err))
		return
	}

	current, err := version.NewVersion(AppVersion)
	if err != nil {
		return
	}
	latest, err := version.NewVersion(release.TagName)
	if err != nil {
		return
	}

	if latest.GreaterThan(current) {
		fmt.Printf("\n  A new release of strata is available: %s -> %s\n  %s\n\n",
			current, latest, release.HTMLURL)
	}
}
