package ingest

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aherreros/invoice-ledger/constants"
)

// Document is one discovered invoice file, classified at discovery time.
// Documents with unsupported extensions never get this far.
type Document struct {
	Path   string
	Format constants.Format
}

// ScanStats summarizes one directory scan.
type ScanStats struct {
	Scanned     uint32
	Matched     uint32
	Unsupported uint32
}

// DiscoverDocuments walks root and returns the supported invoice documents
// in walk order. Unsupported file kinds are rejected here with a non-fatal
// diagnostic; hidden files and directories are skipped.
func DiscoverDocuments(root string, logger *slog.Logger) ([]Document, ScanStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, ScanStats{}, errors.New("root path is required")
	}

	var docs []Document
	var stats ScanStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// An unreadable root means there is nothing to scan at all.
			if path == root {
				return walkErr
			}
			logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			return nil // continue walking
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++

		format := constants.MapExtToFormat(filepath.Ext(path))
		if format == "" {
			stats.Unsupported++
			logger.Warn("unsupported format, skipping document", "path", path)
			return nil
		}
		stats.Matched++
		docs = append(docs, Document{Path: path, Format: format})
		return nil
	})
	if err != nil {
		return docs, stats, err
	}

	logger.Info("document discovery complete",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"unsupported", stats.Unsupported,
	)
	return docs, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
