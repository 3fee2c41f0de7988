// Package cli implements inventoryctl, a command-line client for the inventory API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/inventory-api/internal/client"
)

// EnvServer names the environment variable holding the default server URL.
const EnvServer = "INVENTORY_SERVER"

// DefaultServer is used when neither --server nor INVENTORY_SERVER is set.
const DefaultServer = "http://localhost:8080"

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	server     string
	timeout    time.Duration
	jsonOutput bool
}

func (g *globals) client() *client.Client {
	return client.New(g.server, client.WithTimeout(g.timeout))
}

// NewRootCommand builds the inventoryctl command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "inventoryctl",
		Short: "inventoryctl manages products and records on an inventory server",
		Long: `inventoryctl is a client for the inventory API.

Products are exchanged as JSON, records as XML. The server address is taken
from --server, then the INVENTORY_SERVER environment variable.

Examples:
  inventoryctl products list --type STANDARD --type PREMIUM
  inventoryctl products create --name Kettle --type standard
  inventoryctl records get 3 --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.server, "server", serverFromEnv(), "Inventory server base URL")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", client.DefaultTimeout, "Request timeout")
	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "Output results as JSON")

	root.AddCommand(newProductsCommand(g), newRecordsCommand(g))

	return root
}

// Execute runs inventoryctl with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func serverFromEnv() string {
	if v := os.Getenv(EnvServer); v != "" {
		return v
	}
	return DefaultServer
}

// parseID parses a positional resource id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func idString(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}
