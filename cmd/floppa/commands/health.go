package commands

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jholhewres/floppa/pkg/floppa/bot"
	"github.com/spf13/cobra"
)

// newHealthCmd creates the `floppa health` command. Used by Docker
// HEALTHCHECK and monitoring: probes the running daemon's liveness
// endpoint and exits non-zero when it does not answer.
func newHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the running daemon's liveness endpoint",
		RunE:  runHealth,
	}

	cmd.Flags().Int("port", 0, "liveness port (defaults to the configured one)")
	return cmd
}

func runHealth(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		configPath, _ := cmd.Root().PersistentFlags().GetString("config")
		cfg, err := bot.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		port = cfg.Health.Port
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/", port))
	if err != nil {
		return fmt.Errorf("liveness probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("liveness probe returned %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
	return nil
}
