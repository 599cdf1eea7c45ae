package version

import (
	"fmt"
	"log"
	"runtime"
	"strings"

	"github.com/thushan/narrador/theme"
)

var (
	Name        = "narrador"
	Authors     = "Thushan Fernando"
	Description = "Fallback-aware RPG narration relay for OpenRouter"
	Version     = "v0.0.1"
	Commit      = "none"
	Date        = "nowish"
	User        = "local"
	Runtime     = runtime.Version()

	Capabilities = []string{
		"model_fallback",
		"runtime_model_switch",
		"per_model_stats",
		"per_client_rate_limit",
	}
)

const (
	GithubHomeText  = "github.com/thushan/narrador"
	GithubHomeUri   = "https://github.com/thushan/narrador"
	GithubLatestUri = "https://github.com/thushan/narrador/releases/latest"
)

func PrintVersionInfo(extendedInfo bool, vlog *log.Logger) {
	githubUri := theme.Hyperlink(GithubHomeUri, GithubHomeText)
	latestUri := theme.Hyperlink(GithubLatestUri, Version)

	var b strings.Builder

	b.WriteString(theme.ColourSplash(`
╔──────────────────────────────────────────────────────────╗
│  ███╗   ██╗ █████╗ ██████╗ ██████╗  █████╗ ██████╗  ██╗  │
│  ████╗  ██║██╔══██╗██╔══██╗██╔══██╗██╔══██╗██╔══██╗ ██║  │
│  ██╔██╗ ██║███████║██████╔╝██████╔╝███████║██║  ██║ ██║  │
│  ██║╚██╗██║██╔══██║██╔══██╗██╔══██╗██╔══██║██║  ██║ ╚═╝  │
│  ██║ ╚████║██║  ██║██║  ██║██║  ██║██║  ██║██████╔╝ ██╗  │
│  ╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝  ╚═╝  │` + "\n"))

	b.WriteString(theme.ColourSplash("│ "))
	b.WriteString(theme.StyleUrl(githubUri))
	b.WriteString(" ")
	b.WriteString(theme.ColourVersion(latestUri))
	b.WriteString("\n")
	b.WriteString(theme.ColourSplash("╚──────────────────────────────────────────────────────────╝"))

	if extendedInfo {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(" Commit: %s\n", Commit))
		b.WriteString(fmt.Sprintf("  Built: %s\n", Date))
		b.WriteString(fmt.Sprintf("  Using: %s\n", User))
		b.WriteString(fmt.Sprintf("     Go: %s\n", Runtime))
	}

	vlog.Println(b.String())
}
