package sync

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/claude/flowfocus/internal/models"
)

// Stats tracks sync progress.
type Stats struct {
	FilesTotal   int
	FilesSynced  int
	FilesSkipped int
	FilesErrored int

	SessionsSent     int
	SessionsInserted int
	SessionsRejected int
}

// Syncer walks an export directory, reads session export files, and POSTs
// them to the FlowFocus server. Already-synced files are skipped via the
// state database.
type Syncer struct {
	client    *Client
	state     *StateDB
	exportDir string
	dryRun    bool
	log       *slog.Logger
	stats     Stats
}

// New creates a new Syncer.
func New(client *Client, state *StateDB, exportDir string, dryRun bool, log *slog.Logger) *Syncer {
	return &Syncer{
		client:    client,
		state:     state,
		exportDir: exportDir,
		dryRun:    dryRun,
		log:       log,
	}
}

// Run executes the sync pipeline. Files are processed in name order so
// exports land oldest-first; one unreadable file does not stop the run.
func (s *Syncer) Run() (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(s.exportDir, "*.json"))
	if err != nil {
		return &s.stats, fmt.Errorf("scanning %s: %w", s.exportDir, err)
	}
	sort.Strings(files)

	for _, f := range files {
		s.stats.FilesTotal++
		if err := s.syncFile(f); err != nil {
			s.stats.FilesErrored++
			s.log.Error("sync failed", "file", filepath.Base(f), "error", err)
		}
	}

	return &s.stats, nil
}

func (s *Syncer) syncFile(path string) error {
	relPath, err := filepath.Rel(s.exportDir, path)
	if err != nil {
		relPath = filepath.Base(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	synced, err := s.state.IsSynced(relPath, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if synced {
		s.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	var export models.SessionExport
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("parsing export: %w", err)
	}

	if s.dryRun {
		s.log.Info("dry run", "file", relPath, "sessions", len(export.Sessions))
		s.stats.FilesSynced++
		s.stats.SessionsSent += len(export.Sessions)
		return nil
	}

	result, err := s.client.SendExport(export)
	if err != nil {
		return fmt.Errorf("sending: %w", err)
	}

	s.stats.FilesSynced++
	s.stats.SessionsSent += result.Received
	s.stats.SessionsInserted += result.Inserted
	s.stats.SessionsRejected += result.Rejected

	if err := s.state.MarkSynced(relPath, info.Size(), hash); err != nil {
		return fmt.Errorf("recording state: %w", err)
	}

	s.log.Info("synced",
		"file", relPath,
		"sessions", result.Received,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"rejected", result.Rejected,
	)
	return nil
}
