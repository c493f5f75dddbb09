package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookBackend struct {
	ListBooksFunc  func(ctx context.Context) ([]Book, error)
	GetBookFunc    func(ctx context.Context, id BookID) (Book, error)
	CreateBookFunc func(ctx context.Context, book BookInput) error
	UpdateBookFunc func(ctx context.Context, id BookID, book BookInput) error
	DeleteBookFunc func(ctx context.Context, id BookID) error
}

// ListBooks mocks the behavior of fetching the catalog from the backend.
func (m *MockBookBackend) ListBooks(ctx context.Context) ([]Book, error) {
	return m.ListBooksFunc(ctx)
}

// GetBook mocks the behavior of fetching a book from the backend.
func (m *MockBookBackend) GetBook(ctx context.Context, id BookID) (Book, error) {
	return m.GetBookFunc(ctx, id)
}

// CreateBook mocks the behavior of book creation by the backend.
func (m *MockBookBackend) CreateBook(ctx context.Context, book BookInput) error {
	return m.CreateBookFunc(ctx, book)
}

// UpdateBook mocks the behavior of book update by the backend.
func (m *MockBookBackend) UpdateBook(ctx context.Context, id BookID, book BookInput) error {
	return m.UpdateBookFunc(ctx, id, book)
}

// DeleteBook mocks the behavior of book deletion by the backend.
func (m *MockBookBackend) DeleteBook(ctx context.Context, id BookID) error {
	return m.DeleteBookFunc(ctx, id)
}

type MockFlashStore struct {
	PushFunc func(ctx context.Context, sid string, messages ...string) error
	PopFunc  func(ctx context.Context, sid string) ([]string, error)
}

// Push mocks the behavior of saving notices for the next page.
func (m *MockFlashStore) Push(ctx context.Context, sid string, messages ...string) error {
	return m.PushFunc(ctx, sid, messages...)
}

// Pop mocks the behavior of draining the notices of a session.
func (m *MockFlashStore) Pop(ctx context.Context, sid string) ([]string, error) {
	return m.PopFunc(ctx, sid)
}

// Close does nothing.
func (m *MockFlashStore) Close() error {
	return nil
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
