package output

import (
	"errors"
	"testing"
)

func TestManagerOutcomes(t *testing.T) {
	m := NewManager()
	m.DisableDisplay()

	m.Register("a", "one.bin")
	m.Register("b", "two.bin")
	m.SetStatus("a", "fetching")
	m.SetProgress("a", 512, 1024)
	m.Complete("a", "downloads/one.bin")
	m.ReportError("b", errors.New("connection refused"))

	errs := m.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Name != "two.bin" {
		t.Errorf("unexpected failed job name: %s", errs[0].Name)
	}
}

func TestProgressBarBounds(t *testing.T) {
	// Must not panic or misrender on degenerate inputs
	for _, c := range []struct{ current, total int64 }{
		{0, 0}, {-5, 100}, {200, 100}, {50, 100},
	} {
		if bar := PrintProgressBar(c.current, c.total, 20); bar == "" {
			t.Errorf("empty bar for current=%d total=%d", c.current, c.total)
		}
	}
}
