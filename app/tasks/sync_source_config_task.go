package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/newsfold/newsfold/app/database"
	"github.com/newsfold/newsfold/app/sources"
)

type SyncSourceConfigTask struct {
	Task
	SourceConfig *sources.Config
	sourceRepo   database.SourceRepository
}

func NewSyncSourceConfigTask(sourceSlug string, sourceConfig *sources.Config, sourceRepo database.SourceRepository) *SyncSourceConfigTask {
	return &SyncSourceConfigTask{
		Task:         NewTask(TaskTypeSyncSourceConfig, sourceSlug),
		SourceConfig: sourceConfig,
		sourceRepo:   sourceRepo,
	}
}

func (t *SyncSourceConfigTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	configBlob, err := json.Marshal(t.SourceConfig)
	if err != nil {
		return fmt.Errorf("failed to serialize source config: %w", err)
	}

	_, err = t.sourceRepo.UpsertSource(
		t.SourceConfig.Slug,
		t.SourceConfig.Name,
		t.SourceConfig.Provider,
		t.SourceConfig.Settings.Enabled,
		configBlob)
	if err != nil {
		slog.Error("Task failed", "type", "SyncSourceConfig", "source", t.SourceSlug, "error", err)
		return fmt.Errorf("failed to sync source config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncSourceConfig",
		"source", t.SourceSlug,
		"duration", t.GetDuration())

	return nil
}
