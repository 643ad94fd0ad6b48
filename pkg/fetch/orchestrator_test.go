package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vacfetch/internal/testutil"
	"vacfetch/pkg/client"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func baseOptions() Options {
	return Options{
		Areas:    []string{"1"},
		PerPage:  100,
		MaxPages: -1,
	}
}

func newTestOrchestrator(t *testing.T, mock *testutil.MockHH, opts Options) *Orchestrator {
	t.Helper()

	cfg := client.DefaultConfig("VacFetchTest/1.0 (test@example.com)")
	cfg.BaseURL = mock.URL()
	cfg.Retry = client.RetryConfig{
		MaxAttempts:       2,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	orch, err := New(c, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return orch
}

func TestNew_ValidatesOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"no areas", func(o *Options) { o.Areas = nil }},
		{"blank area", func(o *Options) { o.Areas = []string{"1", ""} }},
		{"per-page zero", func(o *Options) { o.PerPage = 0 }},
		{"per-page over limit", func(o *Options) { o.PerPage = 101 }},
		{"negative last-days", func(o *Options) { o.LastDays = -1 }},
		{"last-days with date-from", func(o *Options) {
			o.LastDays = 7
			o.DateFrom = datePtr(2025, 9, 1)
		}},
		{"last-days with date-to", func(o *Options) {
			o.LastDays = 7
			o.DateTo = datePtr(2025, 9, 7)
		}},
		{"inverted date range", func(o *Options) {
			o.DateFrom = datePtr(2025, 9, 7)
			o.DateTo = datePtr(2025, 9, 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions()
			tt.mutate(&opts)

			_, err := New(nil, opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("New() error = %v, want ErrInvalidOptions", err)
			}
		})
	}

	t.Run("valid options accepted", func(t *testing.T) {
		if _, err := New(nil, baseOptions()); err != nil {
			t.Errorf("New() error = %v", err)
		}
	})
}

func TestRun_WindowThenAreaOrder(t *testing.T) {
	mock := testutil.NewMockHH()
	defer mock.Close()

	mock.SetResponse("/vacancies", testutil.NewOKResponse(
		testutil.SearchPageJSON(1, testutil.VacancyJSON("1", "Dev")),
	))

	opts := baseOptions()
	opts.Areas = []string{"1", "2"}
	opts.DateFrom = datePtr(2025, 9, 1)
	opts.DateTo = datePtr(2025, 9, 3)
	opts.WindowDays = 1

	orch := newTestOrchestrator(t, mock, opts)

	count, err := orch.Run(context.Background(), func(FlatRow) error { return nil })
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// 3 one-day windows x 2 areas, one page each.
	if count != 6 {
		t.Errorf("count = %d, want 6", count)
	}

	reqs := mock.RequestsTo("/vacancies")
	if len(reqs) != 6 {
		t.Fatalf("len(requests) = %d, want 6", len(reqs))
	}

	wantOrder := []struct{ dateFrom, area string }{
		{"2025-09-01", "1"},
		{"2025-09-01", "2"},
		{"2025-09-02", "1"},
		{"2025-09-02", "2"},
		{"2025-09-03", "1"},
		{"2025-09-03", "2"},
	}
	for i, want := range wantOrder {
		got := reqs[i].Query
		if got.Get("date_from") != want.dateFrom || got.Get("area") != want.area {
			t.Errorf("request[%d] = (%s, %s), want (%s, %s)",
				i, got.Get("date_from"), got.Get("area"), want.dateFrom, want.area)
		}
	}
}

func TestRun_LastDaysWindow(t *testing.T) {
	mock := testutil.NewMockHH()
	defer mock.Close()

	mock.SetResponse("/vacancies", testutil.NewOKResponse(testutil.SearchPageJSON(0)))

	opts := baseOptions()
	opts.LastDays = 3
	opts.WindowDays = 7

	orch := newTestOrchestrator(t, mock, opts)
	orch.now = func() time.Time {
		return time.Date(2025, 9, 24, 15, 30, 0, 0, time.UTC)
	}

	if _, err := orch.Run(context.Background(), func(FlatRow) error { return nil }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	reqs := mock.RequestsTo("/vacancies")
	if len(reqs) != 1 {
		t.Fatalf("len(requests) = %d, want 1", len(reqs))
	}
	q := reqs[0].Query
	if q.Get("date_from") != "2025-09-22" || q.Get("date_to") != "2025-09-24" {
		t.Errorf("window = %s..%s, want 2025-09-22..2025-09-24", q.Get("date_from"), q.Get("date_to"))
	}
}

func TestRun_DetailFailureDegradesRecord(t *testing.T) {
	mock := testutil.NewMockHH()
	defer mock.Close()

	mock.SetResponse("/vacancies", testutil.NewOKResponse(testutil.SearchPageJSON(1,
		testutil.VacancyJSON("1", "Dev 1"),
		testutil.VacancyJSON("2", "Dev 2"),
	)))
	mock.SetResponse("/vacancies/1", testutil.NewOKResponse(
		testutil.DetailJSON("1", "<p>Great job</p>", "Go", "SQL"),
	))
	mock.SetResponse("/vacancies/2", testutil.NewNotFoundResponse())

	opts := baseOptions()
	opts.WithDetails = true

	orch := newTestOrchestrator(t, mock, opts)

	var rows []FlatRow
	count, err := orch.Run(context.Background(), func(r FlatRow) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v, detail failures must not abort the run", err)
	}
	if count != 2 || len(rows) != 2 {
		t.Fatalf("count = %d, len(rows) = %d, want 2 each", count, len(rows))
	}

	if rows[0].DetailDescriptionHTML != "<p>Great job</p>" || rows[0].DetailKeySkills != "Go, SQL" {
		t.Errorf("rows[0] detail fields = %q / %q", rows[0].DetailDescriptionHTML, rows[0].DetailKeySkills)
	}
	if rows[1].DetailDescriptionHTML != "" || rows[1].DetailKeySkills != "" {
		t.Errorf("rows[1] must carry empty detail fields, got %q / %q",
			rows[1].DetailDescriptionHTML, rows[1].DetailKeySkills)
	}
}

func TestRun_NoDetailRequestsWithoutFlag(t *testing.T) {
	mock := testutil.NewMockHH()
	defer mock.Close()

	mock.SetResponse("/vacancies", testutil.NewOKResponse(testutil.SearchPageJSON(1,
		testutil.VacancyJSON("1", "Dev"),
	)))

	orch := newTestOrchestrator(t, mock, baseOptions())

	if _, err := orch.Run(context.Background(), func(FlatRow) error { return nil }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := mock.RequestsTo("/vacancies/1"); len(got) != 0 {
		t.Errorf("Detail requests made without the details flag: %d", len(got))
	}
}

func TestRun_SearchErrorAborts(t *testing.T) {
	mock := testutil.NewMockHH()
	defer mock.Close()

	mock.SetResponse("/vacancies", testutil.NewNotFoundResponse())

	opts := baseOptions()
	opts.Areas = []string{"1", "2"}

	orch := newTestOrchestrator(t, mock, opts)

	count, err := orch.Run(context.Background(), func(FlatRow) error { return nil })
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if !strings.Contains(err.Error(), "area 1") {
		t.Errorf("Error must name the failing criteria set, got %q", err)
	}
	// The second area is never attempted.
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("RequestCount = %d, want 1", got)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	mock := testutil.NewMockHH()
	defer mock.Close()

	orch := newTestOrchestrator(t, mock, baseOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := orch.Run(ctx, func(FlatRow) error { return nil }); err == nil {
		t.Fatal("Run() expected error for cancelled context")
	}
}
