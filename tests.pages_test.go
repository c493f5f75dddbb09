package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestListPage_Mount ensures the catalog is fetched once and kept in backend order.
func TestListPage_Mount(t *testing.T) {
	calls := 0
	backend := &MockBookBackend{ListBooksFunc: func(context.Context) ([]Book, error) {
		calls++
		return testBooks(), nil
	}}
	page := NewListPage(zap.NewNop(), backend, NewInteraction(false))
	assert.Equal(t, StateNotLoaded, page.State())
	assert.Empty(t, page.Books())

	<-page.Mount(context.Background())

	assert.Equal(t, 1, calls)
	assert.Equal(t, StateLoaded, page.State())
	assert.Equal(t, testBooks(), page.Books())
	assert.Len(t, page.Table().Rows(), 2)
}

// TestListPage_MountFailure ensures a failed fetch leaves an empty page not loaded.
func TestListPage_MountFailure(t *testing.T) {
	backend := &MockBookBackend{ListBooksFunc: func(context.Context) ([]Book, error) {
		return nil, errors.New("connection refused")
	}}
	page := NewListPage(zap.NewNop(), backend, NewInteraction(false))
	<-page.Mount(context.Background())

	assert.Equal(t, StateNotLoaded, page.State())
	assert.Empty(t, page.Books())
	assert.Empty(t, page.Table().Rows())
}

// TestListPage_MountCancelled ensures a result received after cancellation is dropped.
func TestListPage_MountCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	backend := &MockBookBackend{ListBooksFunc: func(context.Context) ([]Book, error) {
		cancel()
		return testBooks(), nil
	}}
	page := NewListPage(zap.NewNop(), backend, NewInteraction(false))
	<-page.Mount(ctx)

	assert.Equal(t, StateNotLoaded, page.State())
	assert.Empty(t, page.Books())
}

// TestListPage_TableDelete ensures a table deletion updates the page collection.
func TestListPage_TableDelete(t *testing.T) {
	backend := &MockBookBackend{
		ListBooksFunc:  func(context.Context) ([]Book, error) { return testBooks(), nil },
		DeleteBookFunc: func(context.Context, BookID) error { return nil },
	}
	ia := NewInteraction(true)
	page := NewListPage(zap.NewNop(), backend, ia)
	<-page.Mount(context.Background())

	page.Table().Delete(context.Background(), "1")

	assert.Equal(t, []Book{testBooks()[1]}, page.Books())
	assert.Equal(t, []string{NoticeDeleteSuccess}, ia.Notices())
}

// TestCreatePage_Submit ensures the navigation only happens on success.
func TestCreatePage_Submit(t *testing.T) {
	input := BookInput{Title: "Dune", Author: "Frank Herbert", Price: 12.5}

	t.Run("success", func(t *testing.T) {
		var received []BookInput
		backend := &MockBookBackend{CreateBookFunc: func(_ context.Context, b BookInput) error {
			received = append(received, b)
			return nil
		}}
		ia := NewInteraction(false)
		page := NewCreatePage(zap.NewNop(), backend, ia, ia)
		assert.Equal(t, BookForm{}, *page.Form())

		require.NoError(t, page.Submit(context.Background(), input))
		assert.Equal(t, []BookInput{input}, received)
		assert.Equal(t, []string{NoticeCreateSuccess}, ia.Notices())
		target, ok := ia.Target()
		assert.True(t, ok)
		assert.Equal(t, "/", target)
	})

	t.Run("failure", func(t *testing.T) {
		backend := &MockBookBackend{CreateBookFunc: func(context.Context, BookInput) error {
			return errors.New("boom")
		}}
		ia := NewInteraction(false)
		page := NewCreatePage(zap.NewNop(), backend, ia, ia)

		assert.Error(t, page.Submit(context.Background(), input))
		assert.Equal(t, []string{NoticeCreateFailure}, ia.Notices())
		_, ok := ia.Target()
		assert.False(t, ok)
	})
}

// TestEditPage_Mount ensures the form is seeded from the fetched book.
func TestEditPage_Mount(t *testing.T) {
	var fetched []BookID
	backend := &MockBookBackend{GetBookFunc: func(_ context.Context, id BookID) (Book, error) {
		fetched = append(fetched, id)
		return Book{ID: id, Title: "Dune", Author: "Frank Herbert", Price: 9.99}, nil
	}}
	page := NewEditPage("42", zap.NewNop(), backend, nil, nil)
	assert.Equal(t, StateLoading, page.State())
	_, ok := page.Form()
	assert.False(t, ok)

	<-page.Mount(context.Background())

	assert.Equal(t, []BookID{"42"}, fetched)
	assert.Equal(t, StateLoaded, page.State())
	book, ok := page.Book()
	assert.True(t, ok)
	assert.Equal(t, BookID("42"), book.ID)
	form, ok := page.Form()
	require.True(t, ok)
	assert.Equal(t, BookForm{Title: "Dune", Author: "Frank Herbert", Price: "9.99"}, *form)
}

// TestEditPage_MountUnknown ensures an unknown id keeps the page loading.
func TestEditPage_MountUnknown(t *testing.T) {
	backend := &MockBookBackend{GetBookFunc: func(context.Context, BookID) (Book, error) {
		return Book{}, &BackendError{Op: "get book", Method: "GET", Path: "/book/404", Status: 404}
	}}
	ia := NewInteraction(false)
	page := NewEditPage("404", zap.NewNop(), backend, ia, ia)
	<-page.Mount(context.Background())

	assert.Equal(t, StateLoading, page.State())
	_, ok := page.Form()
	assert.False(t, ok)
	assert.Empty(t, ia.Notices())
	assert.ErrorIs(t, page.Submit(context.Background(), BookInput{Title: "x", Author: "y", Price: 1}), ErrPageNotReady)
}

// TestEditPage_Submit ensures updates always target the route id.
func TestEditPage_Submit(t *testing.T) {
	input := BookInput{Title: "Dune Messiah", Author: "Frank Herbert", Price: 11}

	t.Run("success", func(t *testing.T) {
		type update struct {
			id   BookID
			book BookInput
		}
		var updates []update
		backend := &MockBookBackend{
			GetBookFunc: func(_ context.Context, id BookID) (Book, error) {
				return Book{ID: "other", Title: "Dune", Author: "Frank Herbert", Price: 9.99}, nil
			},
			UpdateBookFunc: func(_ context.Context, id BookID, b BookInput) error {
				updates = append(updates, update{id, b})
				return nil
			},
		}
		ia := NewInteraction(false)
		page := NewEditPage("7", zap.NewNop(), backend, ia, ia)
		<-page.Mount(context.Background())

		require.NoError(t, page.Submit(context.Background(), input))
		assert.Equal(t, []update{{"7", input}}, updates)
		assert.Equal(t, StateLoaded, page.State())
		assert.Equal(t, []string{NoticeUpdateSuccess}, ia.Notices())
		target, _ := ia.Target()
		assert.Equal(t, "/", target)
	})

	t.Run("failure", func(t *testing.T) {
		backend := &MockBookBackend{
			GetBookFunc: func(_ context.Context, id BookID) (Book, error) {
				return Book{ID: id, Title: "Dune", Author: "Frank Herbert", Price: 9.99}, nil
			},
			UpdateBookFunc: func(context.Context, BookID, BookInput) error {
				return errors.New("boom")
			},
		}
		ia := NewInteraction(false)
		page := NewEditPage("7", zap.NewNop(), backend, ia, ia)
		<-page.Mount(context.Background())

		assert.Error(t, page.Submit(context.Background(), input))
		assert.Equal(t, StateLoaded, page.State())
		assert.Equal(t, []string{NoticeUpdateFailure}, ia.Notices())
		_, ok := ia.Target()
		assert.False(t, ok)
	})
}

// TestPageState_String ensures each state has a readable name.
func TestPageState_String(t *testing.T) {
	assert.Equal(t, "not-loaded", StateNotLoaded.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "unknown", PageState(42).String())
}
