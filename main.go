package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/kitreg/kitreg/cmd"
	"github.com/kitreg/kitreg/pkg/version"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

func main() {
	version.Set(buildVersion, buildCommit, buildDate)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
