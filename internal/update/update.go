// Package update checks GitHub for newer zumo releases.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// DefaultReleasesURL is the project's latest-release endpoint.
	DefaultReleasesURL = "https://api.github.com/repos/mamaso/azure-mobile-apps-go-client/releases/latest"

	// CheckTimeout bounds the release lookup so a slow GitHub never
	// stalls the CLI.
	CheckTimeout = 5 * time.Second
)

// ReleasesURL is the release endpoint consulted by CheckForUpdate.
// Overridable in tests.
var ReleasesURL = DefaultReleasesURL

var httpClient = &http.Client{Timeout: CheckTimeout}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult describes the outcome of a release check.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateURL       string
	UpdateAvailable bool
}

// CheckForUpdate reports whether a newer release exists. It returns
// nil for dev builds and on any lookup failure; the check is advisory
// and never fails the command.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}

	latest, err := fetchLatestRelease(ctx, currentVersion)
	if err != nil {
		return nil
	}

	result := &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  strings.TrimPrefix(latest.TagName, "v"),
		UpdateURL:      latest.HTMLURL,
	}

	current, tagged := normalizeVersion(currentVersion), normalizeVersion(latest.TagName)
	if semver.IsValid(current) && semver.IsValid(tagged) {
		result.UpdateAvailable = semver.Compare(tagged, current) > 0
	}
	return result
}

func fetchLatestRelease(ctx context.Context, currentVersion string) (release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return release{}, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "zumo-cli/"+currentVersion)

	resp, err := httpClient.Do(req)
	if err != nil {
		return release{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return release{}, fmt.Errorf("release lookup returned status %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return release{}, err
	}
	return rel, nil
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
