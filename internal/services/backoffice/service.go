package backoffice

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xelth-com/esimchatgo/internal/config"
)

// Columns the support flow depends on come first; anything else the
// export ships is appended alphabetically.
var preferredColumns = []string{
	"order_number", "email", "iccid", "geo", "data", "validity",
	"price", "currency", "lpa", "status", "date",
}

// SyncService periodically pulls the order export from the backoffice
// and rewrites the CSV the chat loader reads. The write is atomic so a
// concurrent reload never sees a half-written table.
type SyncService struct {
	client *Client
	cfg    config.BackofficeConfig
	path   string
	stop   chan struct{}
}

// NewSyncService creates a new synchronization service
func NewSyncService(cfg config.BackofficeConfig, csvPath string) *SyncService {
	return &SyncService{
		client: NewClient(cfg.URL, cfg.Username, cfg.Password),
		cfg:    cfg,
		path:   csvPath,
		stop:   make(chan struct{}),
	}
}

// Start begins the background synchronization loop
func (s *SyncService) Start() {
	if s.cfg.URL == "" {
		log.Println("Backoffice sync disabled: BACKOFFICE_URL not configured")
		return
	}

	go func() {
		log.Println("📡 Backoffice sync service started")

		// Initial sync delay
		time.Sleep(5 * time.Second)
		s.runSync()

		interval := time.Duration(s.cfg.SyncInterval) * time.Minute
		if s.cfg.SyncInterval <= 0 {
			interval = 60 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runSync()
			case <-s.stop:
				log.Println("🛑 Backoffice sync service stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *SyncService) Stop() {
	close(s.stop)
}

// runSync fetches the full export and rewrites the CSV
func (s *SyncService) runSync() {
	log.Println("🔄 Backoffice: Fetching order export...")

	rows, err := s.client.FetchOrders("")
	if err != nil {
		log.Printf("❌ Backoffice sync error: %v", err)
		return
	}
	if len(rows) == 0 {
		log.Println("⚠️ Backoffice: Export returned no orders, keeping current file")
		return
	}

	if err := writeCSV(s.path, rows); err != nil {
		log.Printf("❌ Backoffice: Failed to write order file: %v", err)
		return
	}

	log.Printf("✅ Backoffice: Wrote %d orders to %s", len(rows), s.path)
}

// writeCSV renders the export rows to path via a temp file and rename.
func writeCSV(path string, rows []map[string]interface{}) error {
	header := columnOrder(rows)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".orders-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = stringValue(row[col])
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace order file: %w", err)
	}
	return nil
}

// columnOrder returns the preferred columns present in the export,
// followed by any extras sorted by name.
func columnOrder(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			seen[k] = true
		}
	}

	var header []string
	for _, col := range preferredColumns {
		if seen[col] {
			header = append(header, col)
			delete(seen, col)
		}
	}
	var extras []string
	for k := range seen {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	return append(header, extras...)
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprintf("%g", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}
