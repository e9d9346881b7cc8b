package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smilepat/csat-connectedu-company/internal/config"
	"github.com/smilepat/csat-connectedu-company/internal/llm"
	"github.com/smilepat/csat-connectedu-company/internal/router"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Classify a passage read from stdin and print candidate item types",
	Long: `Reads an English passage from stdin and prints the routing result as JSON.
By default only the rule signals run; pass --model to also consult the
configured LLM provider.`,
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().Int("top", 5, "Maximum number of candidates to return")
	routeCmd.Flags().Bool("model", false, "Consult the LLM classifier in addition to rule signals")
}

func runRoute(cmd *cobra.Command, args []string) error {
	passage, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read passage: %w", err)
	}
	if len(passage) == 0 {
		return fmt.Errorf("no passage on stdin")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var classifier *router.ModelClassifier
	useModel, _ := cmd.Flags().GetBool("model")
	if useModel {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		gateway, err := llm.NewGatewayFromConfig(cmd.Context(), cfg.LLM, nil)
		if err != nil {
			return fmt.Errorf("configure providers: %w", err)
		}
		classifier = router.NewModelClassifier(gateway)
	}

	topK, _ := cmd.Flags().GetInt("top")
	rt := router.New(classifier, 0, logger)
	res := rt.Route(cmd.Context(), string(passage), topK)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
