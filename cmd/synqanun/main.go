// Command synqanun is semantic search over a corpus of legal documents.
package main

import (
	"os"

	"github.com/synqanun/synqanun-cli/internal/adapters/driven/config/file"
	"github.com/synqanun/synqanun-cli/internal/adapters/driving/cli"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
	"github.com/synqanun/synqanun-cli/internal/logger"
)

func main() {
	if err := file.LoadDotEnv(); err != nil {
		logger.Warn("%v", err)
	}

	cli.SetConfigOpener(openConfig)
	cli.SetServiceBuilder(buildServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func openConfig(path string) (driven.ConfigStore, error) {
	if path == "" {
		return file.NewConfigStore("")
	}
	return file.NewConfigStoreAt(path)
}
