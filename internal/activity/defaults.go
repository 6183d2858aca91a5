package activity

import "newsdesk/internal/content/models"

// Activity and setting IDs registered at startup.
const (
	Ingest        = "ingest"
	Archive       = "archive"
	ArchiveDetail = "archive-detail"
	IngestFeed    = "ingest-feed"
)

// RegisterDefaults registers the ingest, archive and article views plus the
// ingest feed settings page.
func RegisterDefaults(c *Catalog) error {
	defaults := []Activity{
		{
			ID:         Ingest,
			Label:      "Ingest",
			Href:       "/ingest/:id?",
			MenuHref:   "/ingest/",
			Priority:   -300,
			Menu:       true,
			Resolve:    ResolveList,
			Collection: models.Ingest,
		},
		{
			ID:         Archive,
			Label:      "Archive",
			Href:       "/archive/",
			Priority:   -200,
			Menu:       true,
			Resolve:    ResolveList,
			Collection: models.Archive,
		},
		{
			ID:         ArchiveDetail,
			Label:      "Archive",
			Href:       "/article/:id",
			Resolve:    ResolveArticles,
			Collection: models.Ingest,
		},
	}
	for _, a := range defaults {
		if err := c.Register(a); err != nil {
			return err
		}
	}
	c.RegisterSetting(Setting{ID: IngestFeed, Label: "Ingest Feed"})
	return nil
}
