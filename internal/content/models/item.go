package models

import "time"

// Item is a content record as stored in either collection.
type Item struct {
	ID             string    `json:"_id"`
	GUID           string    `json:"guid"`
	Provider       string    `json:"provider"`
	Type           string    `json:"type"`
	Headline       string    `json:"headline"`
	Slugline       string    `json:"slugline,omitempty"`
	BodyHTML       string    `json:"body_html,omitempty"`
	FirstCreated   time.Time `json:"firstcreated"`
	VersionCreated time.Time `json:"versioncreated"`
}

// ResultSet is one page of records matching a Criteria, already sorted and
// truncated to the page size.
type ResultSet struct {
	Items    []*Item `json:"_items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"max_results"`
}

// Len returns the number of records on this page.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

// ProviderType describes a feed provider the ingest collection can be
// filtered by.
type ProviderType struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// ProviderTypes lists the feed providers known to the ingest settings.
func ProviderTypes() []ProviderType {
	return []ProviderType{
		{Name: "aap", Label: "AAP"},
		{Name: "reuters", Label: "Reuters"},
	}
}
