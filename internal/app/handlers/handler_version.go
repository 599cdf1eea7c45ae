package handlers

import (
	"net/http"
	"runtime"

	"github.com/thushan/narrador/internal/version"
)

type VersionResponse struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Build        BuildInfo         `json:"build"`
	Capabilities []string          `json:"capabilities"`
	Links        map[string]string `json:"links"`
}

type BuildInfo struct {
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func (a *Application) versionHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, VersionResponse{
		Name:        version.Name,
		Version:     version.Version,
		Description: version.Description,
		Build: BuildInfo{
			Commit:    version.Commit,
			Date:      version.Date,
			GoVersion: version.Runtime,
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		},
		Capabilities: version.Capabilities,
		Links: map[string]string{
			"homepage": version.GithubHomeUri,
			"releases": version.GithubLatestUri,
		},
	})
}
