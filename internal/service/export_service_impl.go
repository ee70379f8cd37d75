package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/denifrahman/deni-crm/internal/domain"
)

type exportService struct {
	backend Backend
	now     func() time.Time
}

func NewExportService(backend Backend) ExportService {
	return &exportService{backend: backend, now: time.Now}
}

// Download fetches the filtered spreadsheet and writes it under dir as
// "<kind>_<ISO8601 timestamp>.xlsx".
func (s *exportService) Download(ctx context.Context, kind domain.RecordKind, f domain.Filter, dir string) (string, error) {
	data, err := s.backend.Export(ctx, kind, f)
	if err != nil {
		return "", err
	}

	ts := s.now().UTC().Format("2006-01-02T15:04:05.000Z")
	name := fmt.Sprintf("%s_%s.xlsx", kind, ts)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}
