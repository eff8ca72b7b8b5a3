// Package buildinfo reports which structboard build is running.
//
// The release build stamps the three variables with the linker:
//
//	go build -ldflags "-X github.com/matzehuels/structboard/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/structboard/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/structboard/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" \
//	    ./cmd/structboard
//
// Unstamped builds report "dev".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the stamped build identity, as served by the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the identity of the running binary.
func Current() Info { return Info{Version: Version, Commit: Commit, Date: Date} }

// Dev reports whether the binary was built without release stamps.
func (i Info) Dev() bool { return i.Version == "dev" }

// Template returns the cobra version template. Dev builds print only the
// version since their commit and date are placeholders.
func Template() string {
	i := Current()
	if i.Dev() {
		return "{{.Name}} dev build\n"
	}
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", i.Version, i.Commit, i.Date)
}
