package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

const factoryUsersCSV = `user_id,name,major,class_year,residence_type,interests
u1,Ana Diaz,Computer Science,2026,Dorm,robotics
u2,Ben Ortiz,History,2025,Commuter,running
`

const factoryTxCSV = `user_id,date,merchant,category,amount,payment_method,location
u1,2024-01-01,Campus Cafe,Dining,12.50,card,Student Center
u2,2024-01-05,Bus Line,Transportation,2.75,wallet,Downtown
`

type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) attrsOf(msg string) (map[string]string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		attrs := make(map[string]string)
		r.Attrs(func(a slog.Attr) bool {
			attrs[a.Key] = a.Value.String()
			return true
		})
		return attrs, true
	}
	return nil, false
}

func writeCSVs(t *testing.T) (users, txs string) {
	t.Helper()
	dir := t.TempDir()
	users = filepath.Join(dir, "users.csv")
	txs = filepath.Join(dir, "transactions.csv")
	if err := os.WriteFile(users, []byte(factoryUsersCSV), 0o644); err != nil {
		t.Fatalf("write users: %v", err)
	}
	if err := os.WriteFile(txs, []byte(factoryTxCSV), 0o644); err != nil {
		t.Fatalf("write transactions: %v", err)
	}
	return users, txs
}

func TestFactoryCreatesMemoryBackend(t *testing.T) {
	usersPath, txPath := writeCSVs(t)
	h := &captureHandler{}
	f := NewFactory(slog.New(h))

	result, err := f.Create(context.Background(), Config{
		Type:            MemoryBackend,
		UsersCSV:        usersPath,
		TransactionsCSV: txPath,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Provider == nil {
		t.Fatalf("memory backend must return a provider")
	}
	if result.Cleanup != nil {
		t.Fatalf("memory backend has nothing to clean up")
	}

	records, err := result.Provider.Records(context.Background())
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Startup logging reports the loaded extent.
	attrs, ok := h.attrsOf("Initialized memory dataset backend")
	if !ok {
		t.Fatalf("expected an initialization log entry")
	}
	if attrs["from"] != "2024-01-01" || attrs["to"] != "2024-01-05" {
		t.Fatalf("date extent: got [%s, %s]", attrs["from"], attrs["to"])
	}
	if attrs["max_amount_cents"] != "1250" {
		t.Fatalf("max amount: got %s, want 1250", attrs["max_amount_cents"])
	}
}

func TestFactoryRejectsUnknownBackend(t *testing.T) {
	f := NewFactory(nil)
	_, err := f.Create(context.Background(), Config{Type: Type("postgres")})
	if err == nil {
		t.Fatalf("unknown backend must fail")
	}
}
