package library

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// ReadingLists manages every user's private reading list: an ordered sequence
// of catalog book IDs plus a cursor marking the current book. Entries are
// references, not copies; book fields are always resolved live against the
// catalog. Each user's list has its own lock, so operations for different
// users never block each other while same-user operations are serialized.
type ReadingLists struct {
	catalog *Database

	mu    sync.RWMutex // guards the map itself, not the individual lists
	lists map[int64]*userList
}

// userList is one user's sequence and cursor. The cursor is the 1-based
// selection number of the current book; 0 means unset (empty list). After
// every mutating operation either the list is empty and the cursor is 0, or
// 1 <= cursor <= len(ids).
type userList struct {
	mu     sync.Mutex
	ids    []int64
	cursor int
}

// NewReadingLists creates the engine on top of the given catalog.
func NewReadingLists(catalog *Database) *ReadingLists {
	return &ReadingLists{catalog: catalog, lists: make(map[int64]*userList)}
}

// list returns the user's list, creating it empty on first touch.
func (rl *ReadingLists) list(userID int64) *userList {
	rl.mu.RLock()
	l, ok := rl.lists[userID]
	rl.mu.RUnlock()
	if ok {
		return l
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if l, ok = rl.lists[userID]; !ok {
		l = &userList{}
		rl.lists[userID] = l
	}
	return l
}

// ---------------------------------------------------------------------------
// Sequence mutation
// ---------------------------------------------------------------------------

// Add appends the book identified by (author, title, year) to the end of the
// user's reading list and returns it. Duplicate entries are allowed: adding
// the same book twice queues it for a re-read. An empty list gains a cursor
// at position 1.
func (rl *ReadingLists) Add(userID int64, author, title string, year int) (*Book, error) {
	book, err := rl.catalog.GetBookByCompoundKey(author, title, year)
	if err != nil {
		return nil, err
	}

	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ids = append(l.ids, book.ID)
	if l.cursor == 0 {
		l.cursor = 1
	}
	return book, nil
}

// RemoveByKey deletes the first entry matching the compound key, in sequence
// order. Subsequent entries shift down by one selection number.
func (rl *ReadingLists) RemoveByKey(userID int64, author, title string, year int) (*Book, error) {
	book, err := rl.catalog.GetBookByCompoundKey(author, title, year)
	if err != nil {
		return nil, err
	}

	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	i := indexOf(l.ids, book.ID)
	if i < 0 {
		return nil, fmt.Errorf("book %q by %q (%d) is not in the reading list: %w", title, author, year, ErrBookNotFound)
	}
	l.removeAt(i)
	return book, nil
}

// RemoveBySelection deletes the entry at the given 1-based selection number.
// The entry is removed even when its book has since been deleted from the
// catalog, so a dangling reference can always be cleaned up individually.
func (rl *ReadingLists) RemoveBySelection(userID int64, n int) (*Book, error) {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if n < 1 || n > len(l.ids) {
		return nil, selectionError(n)
	}
	id := l.ids[n-1]
	l.removeAt(n - 1)

	book, err := rl.catalog.GetBook(id)
	if errors.Is(err, ErrBookNotFound) {
		return &Book{ID: id}, nil
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Clear destroys the user's sequence and unsets the cursor.
func (rl *ReadingLists) Clear(userID int64) {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ids = nil
	l.cursor = 0
}

// MoveToBeginning moves the first entry matching the compound key to
// selection number 1.
func (rl *ReadingLists) MoveToBeginning(userID int64, author, title string, year int) error {
	return rl.move(userID, author, title, year, func(l *userList) (int, error) { return 0, nil })
}

// MoveToEnd moves the first entry matching the compound key to the last
// selection number.
func (rl *ReadingLists) MoveToEnd(userID int64, author, title string, year int) error {
	return rl.move(userID, author, title, year, func(l *userList) (int, error) { return len(l.ids) - 1, nil })
}

// MoveToSelection moves the first entry matching the compound key to the
// given 1-based selection number.
func (rl *ReadingLists) MoveToSelection(userID int64, author, title string, year int, target int) error {
	return rl.move(userID, author, title, year, func(l *userList) (int, error) {
		if target < 1 || target > len(l.ids) {
			return 0, selectionError(target)
		}
		return target - 1, nil
	})
}

// move relocates the first entry matching the compound key to the index
// chosen by pickTarget (0-based, evaluated under the list lock so it sees
// the current length).
func (rl *ReadingLists) move(userID int64, author, title string, year int, pickTarget func(*userList) (int, error)) error {
	book, err := rl.catalog.GetBookByCompoundKey(author, title, year)
	if err != nil {
		return err
	}

	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	from := indexOf(l.ids, book.ID)
	if from < 0 {
		return fmt.Errorf("book %q by %q (%d) is not in the reading list: %w", title, author, year, ErrBookNotFound)
	}
	to, err := pickTarget(l)
	if err != nil {
		return err
	}
	l.moveEntry(from, to)
	return nil
}

// Swap exchanges the entries at selection numbers n1 and n2. A cursor sitting
// on either entry follows it to the other position.
func (rl *ReadingLists) Swap(userID int64, n1, n2 int) error {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if n1 < 1 || n1 > len(l.ids) {
		return selectionError(n1)
	}
	if n2 < 1 || n2 > len(l.ids) {
		return selectionError(n2)
	}

	l.ids[n1-1], l.ids[n2-1] = l.ids[n2-1], l.ids[n1-1]
	switch l.cursor {
	case n1:
		l.cursor = n2
	case n2:
		l.cursor = n1
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cursor traversal
// ---------------------------------------------------------------------------

// ReadCurrent reads the book at the cursor: its read count is incremented and
// the cursor advances by one, wrapping from the last selection number back
// to 1. Returns the book that was read with its fresh read count.
func (rl *ReadingLists) ReadCurrent(userID int64) (*Book, error) {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.ids) == 0 {
		return nil, ErrEmptyList
	}

	// Resolve before incrementing so a dangling reference fails without
	// touching the count or the cursor.
	id := l.ids[l.cursor-1]
	book, err := rl.catalog.GetBook(id)
	if err != nil {
		return nil, err
	}
	if err := rl.catalog.IncrementReadCount(id); err != nil {
		return nil, err
	}
	book.ReadCount++

	l.cursor = l.cursor%len(l.ids) + 1
	return book, nil
}

// ReadEntireList reads every entry exactly once in sequence order, regardless
// of where the cursor was, then rewinds the cursor to 1: a full pass implies
// a restart.
func (rl *ReadingLists) ReadEntireList(userID int64) error {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.readFrom(rl.catalog, 0)
}

// ReadRest reads every entry from the cursor position through the end of the
// list, in order, then rewinds the cursor to 1.
func (rl *ReadingLists) ReadRest(userID int64) error {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.readFrom(rl.catalog, l.cursor-1)
}

// Rewind moves the cursor back to selection number 1.
func (rl *ReadingLists) Rewind(userID int64) error {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.ids) == 0 {
		return ErrEmptyList
	}
	l.cursor = 1
	return nil
}

// GoToSelection moves the cursor to the given selection number.
func (rl *ReadingLists) GoToSelection(userID int64, n int) error {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if n < 1 || n > len(l.ids) {
		return selectionError(n)
	}
	l.cursor = n
	return nil
}

// GoToRandom moves the cursor to a uniformly random selection number and
// returns it.
func (rl *ReadingLists) GoToRandom(userID int64) (int, error) {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.ids) == 0 {
		return 0, ErrEmptyList
	}
	l.cursor = rand.Intn(len(l.ids)) + 1
	return l.cursor, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Entries returns the sequence in order, each entry annotated with its live
// selection number and the book's current catalog fields. An empty list
// yields an empty slice, not an error.
func (rl *ReadingLists) Entries(userID int64) ([]Entry, error) {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Entry, 0, len(l.ids))
	for i, id := range l.ids {
		book, err := rl.catalog.GetBook(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{SelectionNumber: i + 1, Book: book})
	}
	return entries, nil
}

// BySelection returns the book at the given selection number.
func (rl *ReadingLists) BySelection(userID int64, n int) (*Book, error) {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if n < 1 || n > len(l.ids) {
		return nil, selectionError(n)
	}
	return rl.catalog.GetBook(l.ids[n-1])
}

// Current returns the book at the cursor without reading it.
func (rl *ReadingLists) Current(userID int64) (*Book, error) {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.ids) == 0 {
		return nil, ErrEmptyList
	}
	return rl.catalog.GetBook(l.ids[l.cursor-1])
}

// Summary returns the number of entries and the total page count across them,
// recomputed fresh from the catalog on every call.
func (rl *ReadingLists) Summary(userID int64) (ListSummary, error) {
	l := rl.list(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	s := ListSummary{Length: len(l.ids)}
	for _, id := range l.ids {
		book, err := rl.catalog.GetBook(id)
		if err != nil {
			return ListSummary{}, err
		}
		s.TotalPages += book.Length
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// removeAt deletes the entry at index i and repairs the cursor: a removal
// before the cursor shifts it down so it keeps pointing at the same entry; a
// removal of the entry under the cursor leaves the numeric value pointing at
// what was the next entry, clamped to the new last selection when the removed
// entry was last; a removal after the cursor leaves it alone.
func (l *userList) removeAt(i int) {
	l.ids = append(l.ids[:i], l.ids[i+1:]...)
	switch {
	case len(l.ids) == 0:
		l.cursor = 0
	case i < l.cursor-1:
		l.cursor--
	case l.cursor > len(l.ids):
		l.cursor = len(l.ids)
	}
}

// moveEntry relocates the entry at index from to index to. The cursor keeps
// pointing at the same underlying entry it pointed at before the move; when
// that entry is the one being moved, the cursor follows it to its new
// position. Entry identity is positional, so this is computed from the
// indexes rather than from book IDs (the list permits duplicates).
func (l *userList) moveEntry(from, to int) {
	cur := l.cursor - 1

	id := l.ids[from]
	l.ids = append(l.ids[:from], l.ids[from+1:]...)
	l.ids = append(l.ids, 0)
	copy(l.ids[to+1:], l.ids[to:])
	l.ids[to] = id

	if cur == from {
		cur = to
	} else {
		if from < cur {
			cur--
		}
		if to <= cur {
			cur++
		}
	}
	l.cursor = cur + 1
}

// readFrom increments the read count of every entry from index start to the
// end, in order, then rewinds the cursor. Every referenced book is resolved
// first so a stale reference fails the whole operation before any count
// changes.
func (l *userList) readFrom(catalog *Database, start int) error {
	if len(l.ids) == 0 {
		return ErrEmptyList
	}
	for _, id := range l.ids[start:] {
		if _, err := catalog.GetBook(id); err != nil {
			return err
		}
	}
	for _, id := range l.ids[start:] {
		if err := catalog.IncrementReadCount(id); err != nil {
			return err
		}
	}
	l.cursor = 1
	return nil
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func selectionError(n int) error {
	return fmt.Errorf("selection number %d is out of range: %w", n, ErrInvalidSelection)
}
