package main

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrPageNotReady is returned when a page is asked to submit before its record is loaded.
var ErrPageNotReady = errors.New("page is not ready")

// PageState tracks the lifecycle of a page controller.
type PageState int

const (
	StateNotLoaded PageState = iota
	StateLoading
	StateLoaded
	StateSubmitting
)

func (s PageState) String() string {
	switch s {
	case StateNotLoaded:
		return "not-loaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

// ListPage owns the catalog shown at `/`.
type ListPage struct {
	logger  *zap.Logger
	backend BookBackend
	ui      ConfirmNotifier

	mu    sync.Mutex
	books []Book
	state PageState
}

// NewListPage provides a list page with an empty collection which is not loaded yet.
func NewListPage(logger *zap.Logger, backend BookBackend, ui ConfirmNotifier) *ListPage {
	return &ListPage{logger: logger, backend: backend, ui: ui, books: []Book{}, state: StateNotLoaded}
}

// Mount fetches the catalog once in the background. The returned channel is
// closed when the fetch ends. A failed fetch is logged and leaves the page
// empty and not loaded. A result arriving after ctx is done is dropped.
func (p *ListPage) Mount(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		books, err := p.backend.ListBooks(ctx)
		if err != nil {
			p.logger.Error("Error fetching books", zap.Error(err))
			return
		}
		if ctx.Err() != nil {
			return
		}
		p.mu.Lock()
		p.books = books
		p.state = StateLoaded
		p.mu.Unlock()
	}()
	return done
}

// State reports whether the catalog was received.
func (p *ListPage) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Books returns a copy of the current collection.
func (p *ListPage) Books() []Book {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Book{}, p.books...)
}

// SetBooks replaces the current collection.
func (p *ListPage) SetBooks(books []Book) {
	p.mu.Lock()
	p.books = books
	p.mu.Unlock()
}

// Table returns a table bound to the current collection.
func (p *ListPage) Table() *BookTable {
	return NewBookTable(p.logger, p.backend, p.ui, p.ui, p.Books(), p.SetBooks)
}

// CreatePage drives the creation of a book at `/add`.
type CreatePage struct {
	logger    *zap.Logger
	backend   BookBackend
	notifier  Notifier
	navigator Navigator
	form      *BookForm
}

// NewCreatePage provides a create page with an empty form.
func NewCreatePage(logger *zap.Logger, backend BookBackend, notifier Notifier, navigator Navigator) *CreatePage {
	return &CreatePage{
		logger:    logger,
		backend:   backend,
		notifier:  notifier,
		navigator: navigator,
		form:      NewBookForm(nil),
	}
}

// Form returns the page form.
func (p *CreatePage) Form() *BookForm {
	return p.form
}

// Submit sends the new book to the backend. On success the user is notified
// and sent back to the list. On failure the user stays on the page.
func (p *CreatePage) Submit(ctx context.Context, book BookInput) error {
	if err := p.backend.CreateBook(ctx, book); err != nil {
		p.logger.Error("Error adding book", zap.Error(err))
		p.notifier.Notify(NoticeCreateFailure)
		return err
	}
	p.notifier.Notify(NoticeCreateSuccess)
	p.navigator.Navigate("/")
	return nil
}

// EditPage drives the update of the book identified by the route.
type EditPage struct {
	id        BookID
	logger    *zap.Logger
	backend   BookBackend
	notifier  Notifier
	navigator Navigator

	mu    sync.Mutex
	state PageState
	book  Book
	form  *BookForm
}

// NewEditPage provides an edit page for the given id in loading state.
func NewEditPage(id BookID, logger *zap.Logger, backend BookBackend, notifier Notifier, navigator Navigator) *EditPage {
	return &EditPage{
		id:        id,
		logger:    logger,
		backend:   backend,
		notifier:  notifier,
		navigator: navigator,
		state:     StateLoading,
	}
}

// ID returns the route id of the page.
func (p *EditPage) ID() BookID {
	return p.id
}

// Mount fetches the book in the background. The returned channel is closed
// when the fetch ends. A failed fetch is logged and the page keeps loading.
func (p *EditPage) Mount(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		book, err := p.backend.GetBook(ctx, p.id)
		if err != nil {
			p.logger.Error("Error fetching book", zap.String("book.id", p.id.String()), zap.Error(err))
			return
		}
		if ctx.Err() != nil {
			return
		}
		p.mu.Lock()
		p.book = book
		p.form = NewBookForm(&book)
		p.state = StateLoaded
		p.mu.Unlock()
	}()
	return done
}

// State returns the current state of the page.
func (p *EditPage) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Book returns the fetched record and whether it was received.
func (p *EditPage) Book() (Book, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.book, p.state != StateLoading
}

// Form returns the form seeded from the fetched record. It is
// only available once the record was received.
func (p *EditPage) Form() (*BookForm, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form, p.form != nil
}

// Submit sends the new values of the book to the backend, always for the route id.
// On success the user is notified and sent back to the list. On failure the
// user is notified and the page is left loaded.
func (p *EditPage) Submit(ctx context.Context, book BookInput) error {
	p.mu.Lock()
	if p.state != StateLoaded {
		p.mu.Unlock()
		return ErrPageNotReady
	}
	p.state = StateSubmitting
	p.mu.Unlock()

	err := p.backend.UpdateBook(ctx, p.id, book)

	p.mu.Lock()
	p.state = StateLoaded
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("Error updating book", zap.String("book.id", p.id.String()), zap.Error(err))
		p.notifier.Notify(NoticeUpdateFailure)
		return err
	}
	p.notifier.Notify(NoticeUpdateSuccess)
	p.navigator.Navigate("/")
	return nil
}
