package models

import "time"

// Book aggregates every entry citing the same ISBN-13. A book is created or
// incremented whenever a new entry cites its ISBN; the post workflow never
// deletes one.
type Book struct {
	ISBN13     string    `bson:"_id" json:"isbn13"`
	EntryCount int64     `bson:"entryCount" json:"entryCount"`
	EntryIDs   []int64   `bson:"entryIds,omitempty" json:"entryIds,omitempty"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
