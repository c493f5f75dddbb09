package main

import (
	"encoding/json"
	"fmt"
)

// BookID is the identifier assigned to a book by the backend. It is
// opaque to the UI. The backend may send it as a JSON string or number.
type BookID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *BookID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("book id: %w", err)
		}
		*id = BookID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("book id: %w", err)
	}
	*id = BookID(n.String())
	return nil
}

func (id BookID) String() string {
	return string(id)
}

// Book is a catalog record as displayed by the UI. Records
// fetched from the backend always carry a non-empty ID.
type Book struct {
	ID     BookID  `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Price  float64 `json:"price"`
}

// BookInput is a record being composed by the user. It has no
// identifier and is the body of creation and update calls.
type BookInput struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Price  float64 `json:"price"`
}

// Input returns the editable part of the book.
func (b Book) Input() BookInput {
	return BookInput{Title: b.Title, Author: b.Author, Price: b.Price}
}
