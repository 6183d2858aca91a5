package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/content/models"
	"newsdesk/internal/content/store/item"
	"newsdesk/internal/platform/database"
	"newsdesk/pkg/platform/tx"
)

const seedTimeout = 10 * time.Second

type openedSetWriter interface {
	Save(ctx context.Context, key string, set *models.OpenedSet) error
}

// seed loads a small demo feed into both collections in one transaction and
// opens the first two ingest items under the shared opened-set key.
func seed(ctx context.Context, db *database.DB, ingest, archive *item.SQLStore, opened openedSetWriter) error {
	ctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	feed := []struct {
		provider, headline, body string
	}{
		{"aap", "Storm warning issued for east coast", "<p>Residents are urged to prepare for <b>damaging winds</b>.</p>"},
		{"reuters", "Markets steady ahead of rate decision", "<p>Traders held positions on Tuesday.</p>"},
		{"aap", "Rail line reopens after repairs", "<p>Services resume from Monday's first train.</p>"},
		{"reuters", "Election count enters second day", "<p>Officials expect a result by Friday.</p>"},
	}

	var ids []string
	err := tx.Run(ctx, db.DB, func(ctx context.Context) error {
		for i, f := range feed {
			created := now.Add(-time.Duration(len(feed)-i) * time.Hour)
			it := &models.Item{
				ID:             fmt.Sprintf("ingest-%d", i+1),
				GUID:           "urn:newsdesk:" + uuid.NewString(),
				Provider:       f.provider,
				Type:           "text",
				Headline:       f.headline,
				BodyHTML:       f.body,
				FirstCreated:   created,
				VersionCreated: created,
			}
			if err := ingest.Save(ctx, it); err != nil {
				return err
			}
			ids = append(ids, it.ID)

			if i%2 == 0 {
				archived := *it
				archived.ID = fmt.Sprintf("archive-%d", i+1)
				if err := archive.Save(ctx, &archived); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed collections: %w", err)
	}

	return opened.Save(ctx, models.InProgressKey, &models.OpenedSet{Opened: ids[:2]})
}
