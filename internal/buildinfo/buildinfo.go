// Package buildinfo prints the version stamped into the binary at link time:
//
//	go build -ldflags "-X github.com/riskcheck/console/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// PrintBanner writes name as ASCII art.
func PrintBanner(w io.Writer, name string) {
	fig := figure.NewFigure(name, "", true)
	fmt.Fprintln(w, fig.String())
}

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
