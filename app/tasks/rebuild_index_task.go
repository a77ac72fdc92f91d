package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newsfold/newsfold/app/database"
	"github.com/newsfold/newsfold/app/search"
)

const rebuildBatchSize = 500

// RebuildIndexTask repopulates the search index from the relational store.
// The relational store is the system of record; the index is derived state
// and can always be regenerated from it.
type RebuildIndexTask struct {
	Task
	articleRepo database.ArticleRepository
	index       *search.Index
}

func NewRebuildIndexTask(articleRepo database.ArticleRepository, index *search.Index) *RebuildIndexTask {
	return &RebuildIndexTask{
		Task:        NewTask(TaskTypeRebuildIndex, ""),
		articleRepo: articleRepo,
		index:       index,
	}
}

func (t *RebuildIndexTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	indexedCount := 0
	afterID := int64(0)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		articles, err := t.articleRepo.GetArticlesForIndexing(afterID, rebuildBatchSize)
		if err != nil {
			return fmt.Errorf("failed to get articles for indexing: %w", err)
		}
		if len(articles) == 0 {
			break
		}

		for i := range articles {
			if err := t.index.Add(indexDocument(&articles[i])); err != nil {
				return fmt.Errorf("failed to index article %d: %w", articles[i].ID, err)
			}
			indexedCount++
		}

		afterID = articles[len(articles)-1].ID
	}

	slog.Info("Task completed",
		"type", "RebuildIndex",
		"duration", t.GetDuration(),
		"indexed", indexedCount)

	return nil
}
