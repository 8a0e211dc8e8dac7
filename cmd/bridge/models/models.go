package modelscmder

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/bridge/pkg/config"
	"github.com/papercomputeco/bridge/pkg/upstream"
)

const modelsLongDesc string = `List the models the upstream API offers.

This is the list /api/tags serves. The first model is the one chat and
generate requests fall back to when they do not name a model.

Examples:
  bridge models
  bridge models --upstream http://localhost:8000/v1`

const modelsShortDesc string = "List upstream models"

type modelsCommander struct {
	configPath string
	upstream   string
}

func NewModelsCmd() *cobra.Command {
	cmder := &modelsCommander{}

	cmd := &cobra.Command{
		Use:   "models",
		Short: modelsShortDesc,
		Long:  modelsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML or YAML config file")
	cmd.Flags().StringVarP(&cmder.upstream, "upstream", "u", "", "Base URL of the OpenAI-compatible API")

	return cmd
}

func (c *modelsCommander) run(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("upstream") {
		cfg.Upstream.BaseURL = c.upstream
	}

	client := upstream.New(upstream.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		APIKey:     cfg.Upstream.APIKey,
		Timeout:    cfg.Upstream.Timeout,
		MaxRetries: cfg.Upstream.MaxRetries,
	}, zap.NewNop())

	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("could not list models from %s: %w", cfg.Upstream.BaseURL, err)
	}

	out := cmd.OutOrStdout()
	if len(models) == 0 {
		fmt.Fprintln(out, "No models available.")
		return nil
	}

	name := color.New(color.Bold)
	dim := color.New(color.Faint)
	mark := color.New(color.FgGreen)

	for i, m := range models {
		name.Fprintf(out, "%s", m.ID)
		dim.Fprintf(out, "  %s", m.Created.Format("2006-01-02"))
		if i == 0 {
			mark.Fprint(out, "  (default)")
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "%d models from %s\n", len(models), cfg.Upstream.BaseURL)
	return nil
}
