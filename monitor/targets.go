package monitor

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/models"
)

// LoadTargets reads the monitored URL list from path. CSV files carry
// url,name,category columns; any other extension is treated as plain text
// with one URL per line and # comments. The site tag is derived from the URL
// domain.
func LoadTargets(path string) ([]models.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return loadCSVTargets(f, path)
	}
	return loadTextTargets(f, path)
}

func loadCSVTargets(f *os.File, path string) ([]models.Target, error) {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read targets %s: %w", path, err)
	}

	targets := make([]models.Target, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		url := strings.TrimSpace(row[0])
		if url == "" || strings.HasPrefix(url, "#") {
			continue
		}
		// Tolerate an optional header row.
		if i == 0 && strings.EqualFold(url, "url") {
			continue
		}

		target := models.Target{URL: url, Site: config.DetectSite(url)}
		if len(row) > 1 {
			target.Name = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			target.Category = strings.TrimSpace(row[2])
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func loadTextTargets(f *os.File, path string) ([]models.Target, error) {
	scanner := bufio.NewScanner(f)

	var targets []models.Target
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, models.Target{
			URL:  line,
			Site: config.DetectSite(line),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read targets %s: %w", path, err)
	}
	return targets, nil
}
