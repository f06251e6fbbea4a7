package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// Sobrescritos via -ldflags "-X github.com/igormath/ic-dataviz/pkg/version.Version=...".
var (
	Version   = "0.0.0-dev"
	Commit    = ""
	BuildTime = ""
)

const releasesURL = "https://api.github.com/repos/igormath/ic-dataviz/releases/latest"

// Info é a versão exposta pelo /healthz e pelo --version.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

// Current devolve a versão em uso.
func Current() Info {
	return Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
}

func init() {
	fromBuildInfo()
}

// fromBuildInfo completa os campos com o vcs.* embutido pelo go build,
// a menos que o ldflags já tenha definido uma versão.
func fromBuildInfo() {
	if Version != "" && Version != "0.0.0-dev" {
		return
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}
	if ts, err := time.Parse(time.RFC3339, settings["vcs.time"]); BuildTime == "" && err == nil {
		BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		Version = strings.TrimPrefix(v, "v")
		if settings["vcs.modified"] == "true" {
			Version += "-dirty"
		}
	}
}

// CheckLatestVersion avisa quando há uma release mais nova. Falhas de rede são ignoradas.
func CheckLatestVersion(ctx context.Context, currentVersion string) {
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if Newer(latest, currentVersion) {
		pterm.Warning.Printfln("A new version of the RAD dashboard is available: %s", latest)
		pterm.Info.Println("Please update using: go install github.com/igormath/ic-dataviz/cmd/rad-dashboard@latest")
	}
}

// Newer compara versões "x.y.z" numericamente; sufixos como "-rc1" são ignorados.
func Newer(candidate, current string) bool {
	a, b := parts(candidate), parts(current)
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func parts(v string) [3]int {
	var out [3]int
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	for i, p := range strings.SplitN(v, ".", 3) {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}

// FormatVersion retorna algo como "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)".
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = "0.0.0-dev"
	}
	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case Commit == "":
		return fmt.Sprintf("%s (built at: %s)", ver, BuildTime)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	}
	return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
}
