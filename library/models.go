package library

import "time"

// Book represents a catalog entry. The catalog is shared by all users;
// reading lists hold references to books by ID, never copies, so ReadCount
// always reflects the live value.
type Book struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Genre     string `json:"genre"`
	Length    int    `json:"length"` // number of pages
	ReadCount int    `json:"read_count"`
}

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Don't serialize password hash
	CreatedAt    time.Time `json:"created_at"`
}

// Entry is a reading-list entry annotated with its selection number, the
// 1-based position in the list. Selection numbers are recomputed from
// position every time the list is read, so they are always dense.
type Entry struct {
	SelectionNumber int   `json:"selection_number"`
	Book            *Book `json:"book"`
}

// ListSummary reports the size of a reading list.
type ListSummary struct {
	Length     int `json:"length"`
	TotalPages int `json:"total_pages"`
}
