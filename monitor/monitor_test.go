package monitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/extract"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/models"
)

type stubFetcher struct {
	pages map[string]string
	err   error
	calls atomic.Int64
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*fetch.Page, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	body, ok := s.pages[url]
	if !ok {
		return nil, fetch.ErrHTTPStatus{StatusCode: 404}
	}
	return &fetch.Page{URL: url, Body: []byte(body), StatusCode: 200}, nil
}

func newAssembler(fetcher Fetcher) *Assembler {
	registry := extract.NewRegistry(config.DefaultAvailabilityKeywords(), 500)
	return NewAssembler(fetcher, registry)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTargetsCSV(t *testing.T) {
	path := writeFile(t, "targets.csv", strings.Join([]string{
		"url,name,category",
		"https://www.amazon.fr/dp/B0TEST,Cordless Drill,tools",
		"https://www.etsy.com/listing/123,Mug",
		"https://somewhere.example/item",
	}, "\n"))

	targets, err := LoadTargets(path)
	if err != nil {
		t.Fatalf("LoadTargets error: %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("targets = %d, want 3", len(targets))
	}

	first := targets[0]
	if first.Name != "Cordless Drill" || first.Category != "tools" || first.Site != config.SiteAmazon {
		t.Errorf("first target = %+v", first)
	}
	if targets[1].Site != config.SiteEtsy || targets[1].Category != "" {
		t.Errorf("second target = %+v", targets[1])
	}
	if targets[2].Site != config.SiteUnknown {
		t.Errorf("third target site = %q, want unknown", targets[2].Site)
	}
}

func TestLoadTargetsText(t *testing.T) {
	path := writeFile(t, "targets.txt", strings.Join([]string{
		"# monitored listings",
		"",
		"https://www.leboncoin.fr/ad/123",
		"  https://www.fiverr.com/gig/456  ",
		"# trailing comment",
	}, "\n"))

	targets, err := LoadTargets(path)
	if err != nil {
		t.Fatalf("LoadTargets error: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("targets = %d, want 2", len(targets))
	}
	if targets[0].Site != config.SiteLeboncoin {
		t.Errorf("targets[0] = %+v", targets[0])
	}
	if targets[1].URL != "https://www.fiverr.com/gig/456" || targets[1].Site != config.SiteFiverr {
		t.Errorf("targets[1] = %+v", targets[1])
	}
}

func TestLoadTargetsMissingFile(t *testing.T) {
	if _, err := LoadTargets(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("LoadTargets on missing file should fail")
	}
}

func TestAssemblerBuildsSuccessfulRecord(t *testing.T) {
	url := "https://www.amazon.fr/dp/B0TEST"
	fetcher := &stubFetcher{pages: map[string]string{
		url: `<html><body>
			<span id="productTitle">Cordless Drill 18V</span>
			<span class="a-price-whole">89,99 €</span>
			<div id="availability"><span>En stock</span></div>
		</body></html>`,
	}}

	record := newAssembler(fetcher).Scrape(context.Background(), models.Target{
		URL:      url,
		Name:     "Drill",
		Category: "tools",
		Site:     config.SiteAmazon,
	})

	if !record.Success {
		t.Fatalf("record failed: %s", record.Error)
	}
	if record.Title != "Cordless Drill 18V" {
		t.Errorf("Title = %q", record.Title)
	}
	if record.Price == nil || record.Price.String() != "89.99" {
		t.Errorf("Price = %v, want 89.99", record.Price)
	}
	if record.Availability != models.InStock {
		t.Errorf("Availability = %s", record.Availability)
	}
	if record.Name != "Drill" || record.Category != "tools" {
		t.Errorf("target identity lost: %+v", record)
	}
	if record.ScrapedAt.IsZero() {
		t.Error("ScrapedAt not set")
	}
}

func TestAssemblerIsolatesFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: fetch.ErrTimeout{Err: context.DeadlineExceeded}}

	record := newAssembler(fetcher).Scrape(context.Background(), models.Target{
		URL:  "https://www.amazon.fr/dp/B0TEST",
		Name: "Drill",
		Site: config.SiteAmazon,
	})

	if record.Success {
		t.Fatal("record should be failed")
	}
	if record.Error == "" {
		t.Error("Error not recorded")
	}
	if record.Title != "" || record.Price != nil || record.Rating != nil || record.Description != "" {
		t.Errorf("failed record carries extracted fields: %+v", record)
	}
	if record.Availability != models.UnknownAvailability {
		t.Errorf("Availability = %s, want unknown", record.Availability)
	}
	if record.URL == "" || record.Name != "Drill" {
		t.Errorf("failed record lost target identity: %+v", record)
	}
}

func TestAssemblerSkipsFetchForUnsupportedSite(t *testing.T) {
	fetcher := &stubFetcher{}

	record := newAssembler(fetcher).Scrape(context.Background(), models.Target{
		URL:  "https://somewhere.example/item",
		Site: config.SiteUnknown,
	})

	if record.Success {
		t.Fatal("record should be failed")
	}
	if got := fetcher.calls.Load(); got != 0 {
		t.Errorf("fetch calls = %d, want 0 for unsupported site", got)
	}
}

func TestRunnerPreservesInputOrder(t *testing.T) {
	pages := make(map[string]string)
	var targets []models.Target
	for i := 0; i < 8; i++ {
		url := fmt.Sprintf("https://www.amazon.fr/dp/B%03d", i)
		pages[url] = fmt.Sprintf(`<span id="productTitle">Item %03d</span>`, i)
		targets = append(targets, models.Target{URL: url, Site: config.SiteAmazon})
	}

	runner := NewRunner(newAssembler(&stubFetcher{pages: pages}), 4)
	snapshot := runner.Run(context.Background(), targets)

	if len(snapshot.Records) != len(targets) {
		t.Fatalf("records = %d, want %d", len(snapshot.Records), len(targets))
	}
	for i, rec := range snapshot.Records {
		if rec.URL != targets[i].URL {
			t.Errorf("records[%d].URL = %s, want %s", i, rec.URL, targets[i].URL)
		}
		if want := fmt.Sprintf("Item %03d", i); rec.Title != want {
			t.Errorf("records[%d].Title = %q, want %q", i, rec.Title, want)
		}
	}
}

func TestRunnerContinuesPastFailures(t *testing.T) {
	good := "https://www.amazon.fr/dp/GOOD"
	targets := []models.Target{
		{URL: "https://www.amazon.fr/dp/MISSING", Site: config.SiteAmazon},
		{URL: good, Site: config.SiteAmazon},
	}
	fetcher := &stubFetcher{pages: map[string]string{
		good: `<span id="productTitle">Survivor</span>`,
	}}

	snapshot := NewRunner(newAssembler(fetcher), 2).Run(context.Background(), targets)

	if len(snapshot.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(snapshot.Records))
	}
	if snapshot.Records[0].Success {
		t.Error("missing page should yield a failed record")
	}
	if !snapshot.Records[1].Success || snapshot.Records[1].Title != "Survivor" {
		t.Errorf("good record = %+v", snapshot.Records[1])
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	targets := []models.Target{
		{URL: "https://www.amazon.fr/dp/B0TEST", Site: config.SiteAmazon},
	}
	snapshot := NewRunner(newAssembler(&stubFetcher{}), 2).Run(ctx, targets)

	if len(snapshot.Records) != 0 {
		t.Errorf("records = %d, want 0 after pre-run cancellation", len(snapshot.Records))
	}
}
