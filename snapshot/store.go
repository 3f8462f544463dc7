package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aluiziolira/go-price-watch/models"
)

// Output format tags accepted by Save.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatDual  = "dual"
	timeLayout  = "20060102_150405"
	snapshotTag = "snapshot_"
)

// Store keeps timestamped snapshot files under a data dir. The CSV file is
// the canonical history record the diff engine loads previous runs from;
// "json" and "dual" add a JSONL export next to it.
type Store struct {
	dataDir string
}

// NewStore builds a store rooted at dataDir. The directory is created lazily
// on first save.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Save persists the snapshot and returns the paths written. The CSV history
// file is always written so a later run can diff against this one.
func (s *Store) Save(snap *models.Snapshot, format string) ([]string, error) {
	stamp := snap.CreatedAt.UTC().Format(timeLayout)
	csvPath := filepath.Join(s.dataDir, snapshotTag+stamp+".csv")

	var (
		writer Writer
		paths  []string
		err    error
	)
	switch format {
	case FormatCSV:
		writer, err = NewCSVWriter(csvPath)
		paths = []string{csvPath}
	case FormatJSON, FormatDual:
		jsonlPath := filepath.Join(s.dataDir, snapshotTag+stamp+".jsonl")
		writer, err = NewDualWriter(csvPath, jsonlPath)
		paths = []string{csvPath, jsonlPath}
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := writer.Write(snap.Records); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Latest returns the path of the most recent snapshot CSV, or ok=false when
// the history is empty.
func (s *Store) Latest() (string, bool, error) {
	history, err := s.history()
	if err != nil || len(history) == 0 {
		return "", false, err
	}
	return history[len(history)-1], true, nil
}

// Load reads a snapshot CSV back into memory. CreatedAt is recovered from
// the filename timestamp.
func (s *Store) Load(path string) (*models.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(csvHeader)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("snapshot %s has no header", path)
	}
	for i, col := range rows[0] {
		if col != csvHeader[i] {
			return nil, fmt.Errorf("snapshot %s: unexpected column %q", path, col)
		}
	}

	snap := &models.Snapshot{
		CreatedAt: createdAtFromPath(path),
		Records:   make([]models.ProductRecord, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", path, err)
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

// WriteReport persists a comparison report as JSON and returns its path.
func (s *Store) WriteReport(dir string, set *models.ChangeSet) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, "comparison_"+set.Summary.GeneratedAt.UTC().Format(timeLayout)+".json")
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// history lists snapshot CSV paths sorted oldest first. The timestamped
// filename makes lexical order chronological.
func (s *Store) history() ([]string, error) {
	pattern := filepath.Join(s.dataDir, snapshotTag+"*.csv")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

func createdAtFromPath(path string) time.Time {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stamp := strings.TrimPrefix(name, snapshotTag)
	if t, err := time.Parse(timeLayout, stamp); err == nil {
		return t.UTC()
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}

func rowToRecord(row []string) (models.ProductRecord, error) {
	rec := models.ProductRecord{
		URL:          row[0],
		Site:         row[1],
		Name:         row[2],
		Category:     row[3],
		Title:        row[4],
		Availability: models.Availability(row[6]),
		Description:  row[9],
		Error:        row[13],
	}

	if row[5] != "" {
		price, err := decimal.NewFromString(row[5])
		if err != nil {
			return rec, fmt.Errorf("parse price %q: %w", row[5], err)
		}
		rec.Price = &price
	}
	if row[7] != "" {
		rating, err := strconv.ParseFloat(row[7], 64)
		if err != nil {
			return rec, fmt.Errorf("parse rating %q: %w", row[7], err)
		}
		rec.Rating = &rating
	}
	if row[8] != "" {
		count, err := strconv.Atoi(row[8])
		if err != nil {
			return rec, fmt.Errorf("parse review count %q: %w", row[8], err)
		}
		rec.ReviewCount = &count
	}
	if row[10] != "" {
		scrapedAt, err := time.Parse(time.RFC3339, row[10])
		if err != nil {
			return rec, fmt.Errorf("parse scraped_at %q: %w", row[10], err)
		}
		rec.ScrapedAt = scrapedAt
	}
	if row[11] != "" {
		ms, err := strconv.ParseInt(row[11], 10, 64)
		if err != nil {
			return rec, fmt.Errorf("parse fetch duration %q: %w", row[11], err)
		}
		rec.FetchDuration = time.Duration(ms) * time.Millisecond
	}
	if row[12] != "" {
		success, err := strconv.ParseBool(row[12])
		if err != nil {
			return rec, fmt.Errorf("parse success %q: %w", row[12], err)
		}
		rec.Success = success
	}
	return rec, nil
}
