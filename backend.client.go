package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrBackendCall is matched by every failure of the books backend.
var ErrBackendCall = errors.New("backend call failed")

var _ BookBackend = (*restyBookBackend)(nil) // ensure restyBookBackend implements BookBackend.

// BookBackend describes the books REST service consumed by the pages.
type BookBackend interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id BookID) (Book, error)
	CreateBook(ctx context.Context, book BookInput) error
	UpdateBook(ctx context.Context, id BookID, book BookInput) error
	DeleteBook(ctx context.Context, id BookID) error
}

// BackendError reports a failed backend call. Path holds the
// resolved url. Status is zero when no response was received.
type BackendError struct {
	Op     string
	Method string
	Path   string
	Status int
	Err    error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend: %s: %s %s: unexpected status %d", e.Op, e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("backend: %s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
}

// Unwrap exposes ErrBackendCall and the transport error if any.
func (e *BackendError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrBackendCall, e.Err}
	}
	return []error{ErrBackendCall}
}

type restyBookBackend struct {
	logger *zap.Logger
	client *resty.Client
}

// NewBookBackend provides a resty-based client of the books backend.
func NewBookBackend(logger *zap.Logger, config *BackendConfig) BookBackend {
	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", config.UserAgent)
	return &restyBookBackend{logger: logger, client: client}
}

// ListBooks fetches the whole catalog with `GET /books`.
func (rb *restyBookBackend) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	req := rb.client.R().SetResult(&books)
	if err := rb.execute(ctx, "list books", http.MethodGet, "/books", req); err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// GetBook fetches a single record with `GET /book/{id}`.
func (rb *restyBookBackend) GetBook(ctx context.Context, id BookID) (Book, error) {
	var book Book
	req := rb.client.R().SetPathParam("id", id.String()).SetResult(&book)
	err := rb.execute(ctx, "get book", http.MethodGet, "/book/{id}", req)
	return book, err
}

// CreateBook sends a new record with `POST /books`. The
// created record returned by the backend is not used.
func (rb *restyBookBackend) CreateBook(ctx context.Context, book BookInput) error {
	req := rb.client.R().SetBody(book)
	return rb.execute(ctx, "create book", http.MethodPost, "/books", req)
}

// UpdateBook replaces the fields of a record with `PUT /book/{id}`.
func (rb *restyBookBackend) UpdateBook(ctx context.Context, id BookID, book BookInput) error {
	req := rb.client.R().SetPathParam("id", id.String()).SetBody(book)
	return rb.execute(ctx, "update book", http.MethodPut, "/book/{id}", req)
}

// DeleteBook removes a record with `DELETE /book/{id}`.
func (rb *restyBookBackend) DeleteBook(ctx context.Context, id BookID) error {
	req := rb.client.R().SetPathParam("id", id.String())
	return rb.execute(ctx, "delete book", http.MethodDelete, "/book/{id}", req)
}

// execute sends the request and turns transport failures and
// non-2xx answers into a *BackendError.
func (rb *restyBookBackend) execute(ctx context.Context, op, method, path string, req *resty.Request) error {
	resp, err := req.SetContext(ctx).ExpectContentType("application/json").Execute(method, path)
	if err != nil {
		return &BackendError{Op: op, Method: method, Path: req.URL, Err: err}
	}

	rb.logger.Debug("backend call",
		zap.String("backend.op", op),
		zap.String("backend.method", method),
		zap.String("backend.url", req.URL),
		zap.Int("backend.status", resp.StatusCode()),
		zap.Duration("backend.duration", resp.Time()),
	)

	if !resp.IsSuccess() {
		return &BackendError{Op: op, Method: method, Path: req.URL, Status: resp.StatusCode()}
	}
	return nil
}
