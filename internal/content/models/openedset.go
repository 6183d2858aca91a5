package models

// InProgressKey is the key the opened-set record lives under in the
// key-value store.
const InProgressKey = "collection:inprogress"

// OpenedSet lists the items currently open for editing, in the order they
// were opened.
type OpenedSet struct {
	Opened []string `json:"opened"`
}

// InProgressKeyFor namespaces the opened-set key by user. An empty userID
// yields the shared key.
func InProgressKeyFor(userID string) string {
	if userID == "" {
		return InProgressKey
	}
	return "user:" + userID + ":" + InProgressKey
}

// ItemOutcome is the result of resolving one opened-set reference. Exactly
// one of Item and Err is set.
type ItemOutcome struct {
	Index int
	ID    string
	Item  *Item
	Err   error
}
