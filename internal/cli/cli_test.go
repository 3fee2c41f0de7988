package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/client"
	"github.com/vyrodovalexey/inventory-api/internal/config"
	"github.com/vyrodovalexey/inventory-api/internal/model"
	"github.com/vyrodovalexey/inventory-api/internal/server"
)

func startServer(t *testing.T) string {
	t.Helper()

	cfg := config.Default()
	cfg.ProbePort = 0
	cfg.MetricsEnabled = false
	srv := server.New(cfg, zap.NewNop(), server.NewInventory())

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts.URL
}

// run executes inventoryctl against serverURL and returns its standard output.
func run(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", serverURL}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, serverURL string, args ...string) string {
	t.Helper()

	out, err := run(t, serverURL, args...)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", strings.Join(args, " "), err)
	}
	return out
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()

	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("Failed to decode output %q: %v", out, err)
	}
	return v
}

func TestProductsCommands(t *testing.T) {
	url := startServer(t)

	assertContains(t, mustRun(t, url, "products", "list"), "No products found")

	if out := mustRun(t, url, "products", "create", "--name", "Kettle", "--type", "standard"); out != "Created product 1\n" {
		t.Errorf("create output = %q", out)
	}
	mustRun(t, url, "products", "create", "--name", "Lamp", "--type", "PREMIUM")

	assertContains(t, mustRun(t, url, "products", "list"), "ID", "Kettle", "Lamp")

	filtered := decodeJSON[[]model.Product](t, mustRun(t, url, "products", "list", "--type", "PREMIUM", "--json"))
	if len(filtered) != 1 || filtered[0].Name != "Lamp" {
		t.Errorf("filtered list = %+v, want only Lamp", filtered)
	}

	if out := mustRun(t, url, "products", "update", "1", "--name", "Kettle XL", "--type", "LIMITED"); out != "Updated product 1\n" {
		t.Errorf("update output = %q", out)
	}

	got := decodeJSON[[]model.Product](t, mustRun(t, url, "products", "get", "1", "--json"))
	if len(got) != 1 || got[0].Name != "Kettle XL" || got[0].Type != model.ProductTypeLimited {
		t.Errorf("get = %+v, want Kettle XL/%s", got, model.ProductTypeLimited)
	}

	if out := mustRun(t, url, "products", "delete", "1"); out != "Deleted product 1\n" {
		t.Errorf("delete output = %q", out)
	}

	_, err := run(t, url, "products", "get", "1")
	var notFound *client.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("get after delete error = %v, want *client.NotFoundError", err)
	}
	if err.Error() != "product 1 not found" {
		t.Errorf("error = %q, want %q", err.Error(), "product 1 not found")
	}
}

func TestProductsCommands_InvalidInput(t *testing.T) {
	url := startServer(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown type filter", args: []string{"products", "list", "--type", "USED"}, wantErr: "unknown product type"},
		{name: "unknown type on create", args: []string{"products", "create", "--name", "X", "--type", "USED"}, wantErr: "unknown product type"},
		{name: "missing name", args: []string{"products", "create", "--type", "STANDARD"}, wantErr: "name"},
		{name: "bad id", args: []string{"products", "get", "abc"}, wantErr: "invalid id"},
		{name: "zero id", args: []string{"products", "delete", "0"}, wantErr: "invalid id"},
		{name: "missing id", args: []string{"products", "get"}, wantErr: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, url, tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRecordsCommands(t *testing.T) {
	url := startServer(t)

	if out := mustRun(t, url, "records", "create", "--title", "Blue Train", "--artist", "John Coltrane", "--year", "1957"); out != "Created record 1\n" {
		t.Errorf("create output = %q", out)
	}

	assertContains(t, mustRun(t, url, "records", "list"), "Blue Train", "1957")

	mustRun(t, url, "records", "update", "1", "--title", "Blue Train", "--artist", "John Coltrane", "--genre", "jazz")

	got := decodeJSON[[]model.Record](t, mustRun(t, url, "records", "get", "1", "--json"))
	if len(got) != 1 {
		t.Fatalf("get returned %d records, want 1", len(got))
	}
	if got[0].Genre != "jazz" || got[0].Year != 0 {
		t.Errorf("record = %+v, want genre jazz and no year", got[0])
	}

	mustRun(t, url, "records", "delete", "1")

	_, err := run(t, url, "records", "delete", "1")
	var notFound *client.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("second delete error = %v, want *client.NotFoundError", err)
	}
}

func TestRecordsCommands_Rejected(t *testing.T) {
	url := startServer(t)

	_, err := run(t, url, "records", "create", "--title", "T", "--artist", "A", "--year", "1800")

	if !errors.Is(err, client.ErrRequestFailed) {
		t.Fatalf("error = %v, want client.ErrRequestFailed", err)
	}
	if !strings.Contains(err.Error(), model.ErrInvalidYear.Error()) {
		t.Errorf("error = %q, want it to mention %q", err.Error(), model.ErrInvalidYear.Error())
	}
}

func TestCreateJSONOutput(t *testing.T) {
	url := startServer(t)

	out := mustRun(t, url, "products", "create", "--name", "Pen", "--type", "DISCOUNTED", "--json")

	got := decodeJSON[map[string]int](t, out)
	if len(got) != 1 || got["id"] != 1 {
		t.Errorf("output = %s, want {\"id\":1}", out)
	}
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv(EnvServer, "")
	if got := serverFromEnv(); got != DefaultServer {
		t.Errorf("serverFromEnv() = %q, want %q", got, DefaultServer)
	}

	t.Setenv(EnvServer, "http://inventory.internal:9000")
	if got := serverFromEnv(); got != "http://inventory.internal:9000" {
		t.Errorf("serverFromEnv() = %q, want env value", got)
	}

	root := NewRootCommand()
	flag := root.PersistentFlags().Lookup("server")
	if flag == nil {
		t.Fatal("--server flag not registered")
	}
	if flag.DefValue != "http://inventory.internal:9000" {
		t.Errorf("--server default = %q, want env value", flag.DefValue)
	}
}

func TestHelpListsSubcommands(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	assertContains(t, out.String(), "products", "records")
}
