package main

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// BookRow is the rendered form of a single book in the table.
type BookRow struct {
	ID         BookID
	Title      string
	Author     string
	Price      string
	EditPath   string
	DeletePath string
}

// BookTable renders a collection of books and deletes them on demand.
// It does not own the collection: deletions are reported through the
// setter given by the page which owns it.
type BookTable struct {
	logger    *zap.Logger
	backend   BookBackend
	confirmer Confirmer
	notifier  Notifier
	books     []Book
	setBooks  func([]Book)
}

// NewBookTable provides a table over books. setBooks replaces the owner's collection.
func NewBookTable(logger *zap.Logger, backend BookBackend, confirmer Confirmer, notifier Notifier, books []Book, setBooks func([]Book)) *BookTable {
	return &BookTable{
		logger:    logger,
		backend:   backend,
		confirmer: confirmer,
		notifier:  notifier,
		books:     books,
		setBooks:  setBooks,
	}
}

// EditPath returns the route of the edit page of a book.
func EditPath(id BookID) string {
	return "/edit/" + url.PathEscape(id.String())
}

// DeletePath returns the route of the delete confirmation of a book.
func DeletePath(id BookID) string {
	return "/delete/" + url.PathEscape(id.String())
}

// FormatPrice renders a price with a dollar sign and the shortest decimal form.
func FormatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', -1, 64)
}

// Rows returns one row per book in the input order.
func (t *BookTable) Rows() []BookRow {
	rows := make([]BookRow, 0, len(t.books))
	for _, b := range t.books {
		rows = append(rows, BookRow{
			ID:         b.ID,
			Title:      b.Title,
			Author:     b.Author,
			Price:      FormatPrice(b.Price),
			EditPath:   EditPath(b.ID),
			DeletePath: DeletePath(b.ID),
		})
	}
	return rows
}

// Delete asks the user to confirm then removes the book from the backend.
// On success every record with the given id is dropped from the collection.
// Failures are logged and reported to the user, nothing is retried.
func (t *BookTable) Delete(ctx context.Context, id BookID) {
	if !t.confirmer.Confirm(ConfirmDeletePrompt) {
		return
	}

	if err := t.backend.DeleteBook(ctx, id); err != nil {
		t.logger.Error("Error deleting book", zap.String("book.id", id.String()), zap.Error(err))
		t.notifier.Notify(NoticeDeleteFailure)
		return
	}

	remaining := make([]Book, 0, len(t.books))
	for _, b := range t.books {
		if b.ID != id {
			remaining = append(remaining, b)
		}
	}
	t.books = remaining
	t.setBooks(remaining)
	t.notifier.Notify(NoticeDeleteSuccess)
}
