package handler

import (
	"newsdesk/internal/content/models"
	"newsdesk/internal/content/service"
	"newsdesk/internal/textmetrics"
)

// ItemView is an item as handed to the presentation layer, with the text
// metrics of its body.
type ItemView struct {
	*models.Item
	CharacterCount int `json:"character_count"`
	WordCount      int `json:"word_count"`
}

// ResultSetView is a result page of item views.
type ResultSetView struct {
	Items    []ItemView `json:"_items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"max_results"`
}

// ListResponse is the payload of list activities.
type ListResponse struct {
	Items ResultSetView `json:"items"`
}

// DetailResponse is the payload of the article activity.
type DetailResponse struct {
	Articles []ItemView `json:"articles"`
	Item     *ItemView  `json:"item"`
}

// FromItem builds the view of it.
func FromItem(it *models.Item) ItemView {
	return ItemView{
		Item:           it,
		CharacterCount: textmetrics.CharacterCount(it.BodyHTML),
		WordCount:      textmetrics.WordCount(it.BodyHTML),
	}
}

func fromItems(items []*models.Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, FromItem(it))
		}
	}
	return out
}

// FromResultSet builds the view of a result page.
func FromResultSet(rs *models.ResultSet) ResultSetView {
	if rs == nil {
		return ResultSetView{Items: []ItemView{}}
	}
	return ResultSetView{
		Items:    fromItems(rs.Items),
		Total:    rs.Total,
		Page:     rs.Page,
		PageSize: rs.PageSize,
	}
}

// FromDetail builds the article payload.
func FromDetail(d *service.Detail) DetailResponse {
	resp := DetailResponse{Articles: fromItems(d.Articles)}
	if d.Item != nil {
		v := FromItem(d.Item)
		resp.Item = &v
	}
	return resp
}
