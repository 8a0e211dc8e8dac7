package main

import (
	"os"

	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/bridge/cmd/bridge/config"
	modelscmder "github.com/papercomputeco/bridge/cmd/bridge/models"
	servecmder "github.com/papercomputeco/bridge/cmd/bridge/serve"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const bridgeLongDesc string = `Serve an Ollama-compatible local API backed by an OpenAI-compatible upstream.

Editor integrations that only speak the Ollama API can point at bridge and
get completions from any hosted model.

Examples:
  bridge serve
  bridge serve --listen :11434 --upstream https://api.openai.com/v1
  bridge models
  bridge config --format yaml`

const bridgeShortDesc string = "Ollama-compatible bridge to OpenAI-compatible APIs"

func newBridgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bridge",
		Short:         bridgeShortDesc,
		Long:          bridgeLongDesc,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(modelscmder.NewModelsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())

	return cmd
}

func main() {
	if err := newBridgeCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
