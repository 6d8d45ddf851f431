//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "order-api"
	ConsumerName = "order-portal"

	StateOrdersBaseline   = "orders baseline"
	StateOrderIsNew       = "order ORD-0123456789abcdef0123456789abcdef exists in status NEW"
	StateOrderIsCompleted = "order ORD-fedcba9876543210fedcba9876543210 exists in status COMPLETED"
	StateOrderMissing     = "no order with id invalid-id"
)

const (
	ExistingOrderID  = "ORD-0123456789abcdef0123456789abcdef"
	CompletedOrderID = "ORD-fedcba9876543210fedcba9876543210"
	MissingOrderID   = "invalid-id"

	ExampleCustomerName = "Vishal"
	ExampleAmount       = 1000.0

	// OrderIDPattern matches identifiers minted by the service.
	OrderIDPattern = `^ORD-[0-9a-f]{32}$`
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the order portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
