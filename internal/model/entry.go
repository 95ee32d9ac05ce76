package model

import "time"

// JournalEntry is an aggregate read of one row in `journal_entries`
// together with the categories and tags joined through the junction
// tables. DeletedAt implements soft deletion: a non-null value means
// the entry is logically absent and every read query must filter it
// out with `deleted_at IS NULL`.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owning user.
//  Title      – entry title, required.
//  Content    – entry body, required.
//  CreatedAt  – creation timestamp (drives newest-first ordering and
//               the monthly analytics buckets).
//  UpdatedAt  – last update timestamp.
//  DeletedAt  – soft-delete timestamp (null while the entry is live).
//  Categories – joined categories; dangling junction rows whose
//               category was deleted are omitted.
//  Tags       – joined tags, same rules as Categories.
type JournalEntry struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"user_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	Categories []Label    `json:"categories"`
	Tags       []Label    `json:"tags"`
}

// EntryLabel mirrors one junction row in `entry_categories` or
// `entry_tags`. The pair (EntryID, LabelID) is unique per table; the
// rows are owned by the entry and are replaced wholesale whenever the
// entry's label set changes.
type EntryLabel struct {
	ID      uint64 // junction row id
	EntryID uint64 // journal_entries.id
	LabelID uint64 // categories.id or tags.id
}
