package main

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Form field names.
const (
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldPrice  = "price"
)

type invalidFieldError string

func (m invalidFieldError) Error() string {
	return string(m) + " must be a number"
}

// FormErrors maps a field name to the reason it was rejected.
type FormErrors map[string]string

func (fe FormErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fe[f])
	}
	return "invalid form: " + strings.Join(msgs, ", ")
}

// BookForm holds the three editable fields of a book as typed by the user.
// Values are kept as entered so a failed submission can be shown again.
type BookForm struct {
	Title  string
	Author string
	Price  string
	Errors FormErrors
}

// NewBookForm seeds the fields from the given book. A nil book gives
// empty fields. A zero price also seeds an empty price field.
func NewBookForm(book *Book) *BookForm {
	f := &BookForm{}
	if book == nil {
		return f
	}
	f.Title = book.Title
	f.Author = book.Author
	if book.Price != 0 {
		f.Price = strconv.FormatFloat(book.Price, 'f', -1, 64)
	}
	return f
}

// Set replaces the value of a single field. Unknown fields are ignored.
func (f *BookForm) Set(field, value string) {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldAuthor:
		f.Author = value
	case FieldPrice:
		f.Price = value
	}
}

// Bind copies the posted fields into the form.
func (f *BookForm) Bind(values url.Values) {
	for _, field := range []string{FieldTitle, FieldAuthor, FieldPrice} {
		if _, ok := values[field]; ok {
			f.Set(field, values.Get(field))
		}
	}
}

// Validate checks every field is filled and the price is numeric.
func (f *BookForm) Validate() (BookInput, error) {
	errs := FormErrors{}
	if strings.TrimSpace(f.Title) == "" {
		errs[FieldTitle] = missingFieldError(FieldTitle).Error()
	}
	if strings.TrimSpace(f.Author) == "" {
		errs[FieldAuthor] = missingFieldError(FieldAuthor).Error()
	}

	var price float64
	if raw := strings.TrimSpace(f.Price); raw == "" {
		errs[FieldPrice] = missingFieldError(FieldPrice).Error()
	} else if p, err := strconv.ParseFloat(raw, 64); err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		errs[FieldPrice] = invalidFieldError(FieldPrice).Error()
	} else {
		price = p
	}

	if len(errs) != 0 {
		f.Errors = errs
		return BookInput{}, errs
	}
	f.Errors = nil
	return BookInput{Title: f.Title, Author: f.Author, Price: price}, nil
}

// Submit validates the form and hands the composed record to onSubmit.
// The callback is not invoked when validation fails. Fields are kept.
func (f *BookForm) Submit(onSubmit func(BookInput)) error {
	book, err := f.Validate()
	if err != nil {
		return err
	}
	onSubmit(book)
	return nil
}
