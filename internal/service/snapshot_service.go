package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanctuarysound/api/internal/client"
	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/snapshot"
)

// SnapshotService turns console CSV exports into snapshots and archives
// the raw file when object storage is configured.
type SnapshotService struct {
	archive client.ArchiveStore
	log     *zap.Logger
}

// NewSnapshotService accepts a nil archive; imports then skip archiving.
func NewSnapshotService(archive client.ArchiveStore, log *zap.Logger) *SnapshotService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SnapshotService{archive: archive, log: log.Named("snapshot")}
}

// Import parses data as a snapshot of console. owner scopes the archive key
// (team or operator). Archive failures are logged, not returned.
func (s *SnapshotService) Import(ctx context.Context, owner string, console model.ConsoleModel, data []byte) (*model.SnapshotImportResponse, error) {
	res, err := snapshot.ParseCSV(bytes.NewReader(data), console)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	now := time.Now().UTC()
	out := &model.SnapshotImportResponse{
		Snapshot:   res.Snapshot,
		Skipped:    res.Skipped,
		ImportedAt: now,
	}

	if s.archive == nil {
		return out, nil
	}

	key := ArchiveKey(owner, console, now, uuid.New().String())
	url, err := s.archive.Put(ctx, key, data, "text/csv")
	if err != nil {
		s.log.Warn("snapshot archive failed", zap.String("key", key), zap.Error(err))
		return out, nil
	}
	out.ArchiveURL = url
	return out, nil
}

// ArchiveKey builds snapshots/<owner>/<yyyy-mm-dd>/<console>-<id>.csv.
func ArchiveKey(owner string, console model.ConsoleModel, at time.Time, id string) string {
	owner = strings.TrimSpace(owner)
	if owner == "" || strings.ContainsAny(owner, "/\\") {
		owner = "anonymous"
	}
	if console == "" {
		console = model.ConsoleGeneric
	}
	return path.Join("snapshots", owner, at.Format("2006-01-02"), fmt.Sprintf("%s-%s.csv", console, id))
}
