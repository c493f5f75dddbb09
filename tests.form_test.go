package main

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewBookForm ensures the fields are seeded from the given book.
func TestNewBookForm(t *testing.T) {
	testCases := []struct {
		name string
		book *Book
		want BookForm
	}{
		{"no book", nil, BookForm{}},
		{"full book", &Book{ID: "1", Title: "Dune", Author: "Frank Herbert", Price: 9.99}, BookForm{Title: "Dune", Author: "Frank Herbert", Price: "9.99"}},
		{"integral price", &Book{ID: "2", Title: "Emma", Author: "Jane Austen", Price: 5}, BookForm{Title: "Emma", Author: "Jane Austen", Price: "5"}},
		{"zero price", &Book{ID: "3", Title: "Free", Author: "Anon", Price: 0}, BookForm{Title: "Free", Author: "Anon", Price: ""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, *NewBookForm(tc.book))
		})
	}
}

// TestBookForm_Submit ensures a valid form hands the parsed record to the callback.
func TestBookForm_Submit(t *testing.T) {
	testCases := []struct {
		name   string
		title  string
		author string
		price  string
		want   BookInput
	}{
		{"decimal price", "Dune", "Frank Herbert", "12.5", BookInput{Title: "Dune", Author: "Frank Herbert", Price: 12.5}},
		{"integral price", "Emma", "Jane Austen", "7", BookInput{Title: "Emma", Author: "Jane Austen", Price: 7}},
		{"padded price", "Emma", "Jane Austen", " 3.25 ", BookInput{Title: "Emma", Author: "Jane Austen", Price: 3.25}},
		{"negative price", "Refund", "Clerk", "-2", BookInput{Title: "Refund", Author: "Clerk", Price: -2}},
		{"verbatim text", "  Dune ", " Frank Herbert", "1", BookInput{Title: "  Dune ", Author: " Frank Herbert", Price: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewBookForm(nil)
			f.Set(FieldTitle, tc.title)
			f.Set(FieldAuthor, tc.author)
			f.Set(FieldPrice, tc.price)

			var got []BookInput
			err := f.Submit(func(b BookInput) { got = append(got, b) })
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0])
			assert.Nil(t, f.Errors)
		})
	}
}

// TestBookForm_SubmitInvalid ensures an invalid form never reaches the callback
// and keeps the values typed by the user.
func TestBookForm_SubmitInvalid(t *testing.T) {
	testCases := []struct {
		name   string
		form   BookForm
		errors FormErrors
	}{
		{"empty form", BookForm{}, FormErrors{
			FieldTitle:  "title is required",
			FieldAuthor: "author is required",
			FieldPrice:  "price is required",
		}},
		{"blank title", BookForm{Title: "   ", Author: "Jane Austen", Price: "5"}, FormErrors{FieldTitle: "title is required"}},
		{"text price", BookForm{Title: "Emma", Author: "Jane Austen", Price: "cheap"}, FormErrors{FieldPrice: "price must be a number"}},
		{"nan price", BookForm{Title: "Emma", Author: "Jane Austen", Price: "NaN"}, FormErrors{FieldPrice: "price must be a number"}},
		{"infinite price", BookForm{Title: "Emma", Author: "Jane Austen", Price: "Inf"}, FormErrors{FieldPrice: "price must be a number"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.form
			called := false
			err := f.Submit(func(BookInput) { called = true })
			require.Error(t, err)
			assert.False(t, called)

			var formErrs FormErrors
			require.True(t, errors.As(err, &formErrs))
			assert.Equal(t, tc.errors, formErrs)
			assert.Equal(t, tc.errors, f.Errors)
			assert.Equal(t, tc.form.Title, f.Title)
			assert.Equal(t, tc.form.Price, f.Price)
		})
	}
}

// TestBookForm_Bind ensures only posted fields replace the current values.
func TestBookForm_Bind(t *testing.T) {
	f := NewBookForm(&Book{ID: "1", Title: "Dune", Author: "Frank Herbert", Price: 9.99})
	f.Bind(url.Values{FieldPrice: {"11"}, "id": {"9"}})
	assert.Equal(t, "Dune", f.Title)
	assert.Equal(t, "Frank Herbert", f.Author)
	assert.Equal(t, "11", f.Price)

	f.Bind(url.Values{FieldTitle: {""}})
	assert.Equal(t, "", f.Title)
}

// TestFormErrors_Error ensures the message lists the fields in a stable order.
func TestFormErrors_Error(t *testing.T) {
	fe := FormErrors{FieldTitle: "title is required", FieldAuthor: "author is required"}
	assert.Equal(t, "invalid form: author is required, title is required", fe.Error())
}
