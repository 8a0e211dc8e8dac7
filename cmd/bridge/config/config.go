package configcmder

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/papercomputeco/bridge/pkg/config"
)

const configLongDesc string = `Print the effective configuration.

Shows the result of layering defaults, the config file and environment
variables, in the same format the config file accepts. The API key is
redacted.

Examples:
  bridge config
  bridge config --config bridge.yaml --format yaml`

const configShortDesc string = "Print the effective configuration"

const redacted = "<redacted>"

type configCommander struct {
	configPath string
	format     string
}

func NewConfigCmd() *cobra.Command {
	cmder := &configCommander{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML or YAML config file")
	cmd.Flags().StringVarP(&cmder.format, "format", "f", "toml", "Output format: toml or yaml")

	return cmd
}

func (c *configCommander) run(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	if cfg.Upstream.APIKey != "" {
		cfg.Upstream.APIKey = redacted
	}
	cfg.Upstream.APIKeyFile = ""

	out := cmd.OutOrStdout()
	switch c.format {
	case "toml":
		return toml.NewEncoder(out).Encode(cfg)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, expected toml or yaml", c.format)
	}
}
