package main

import (
	"sync"
)

// User-facing messages.
const (
	ConfirmDeletePrompt = "Are you sure you want to delete this book?"
	NoticeDeleteSuccess = "Book deleted successfully!"
	NoticeDeleteFailure = "Failed to delete the book. Please check the logs for details."
	NoticeCreateSuccess = "Book added successfully!"
	NoticeCreateFailure = "Failed to add the book. Please try again."
	NoticeUpdateSuccess = "Book updated successfully!"
	NoticeUpdateFailure = "Failed to update the book. Please try again."
)

var (
	_ Notifier  = (*Interaction)(nil) // ensure Interaction implements Notifier.
	_ Confirmer = (*Interaction)(nil) // ensure Interaction implements Confirmer.
	_ Navigator = (*Interaction)(nil) // ensure Interaction implements Navigator.
)

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(message string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(path string)
}

// ConfirmNotifier is needed by pages which delete records.
type ConfirmNotifier interface {
	Confirmer
	Notifier
}

// Interaction collects the user capabilities of a single web request.
// Confirm answers with the decision already posted by the user, the
// notices and the navigation target are read back by the handler.
type Interaction struct {
	mu        sync.Mutex
	confirmed bool
	prompts   []string
	notices   []string
	target    string
}

// NewInteraction provides an Interaction which answers confirmations with `confirmed`.
func NewInteraction(confirmed bool) *Interaction {
	return &Interaction{confirmed: confirmed}
}

func (ia *Interaction) Notify(message string) {
	ia.mu.Lock()
	ia.notices = append(ia.notices, message)
	ia.mu.Unlock()
}

func (ia *Interaction) Confirm(prompt string) bool {
	ia.mu.Lock()
	defer ia.mu.Unlock()
	ia.prompts = append(ia.prompts, prompt)
	return ia.confirmed
}

func (ia *Interaction) Navigate(path string) {
	ia.mu.Lock()
	ia.target = path
	ia.mu.Unlock()
}

// Notices returns the messages raised so far.
func (ia *Interaction) Notices() []string {
	ia.mu.Lock()
	defer ia.mu.Unlock()
	return append([]string(nil), ia.notices...)
}

// Prompts returns the questions asked so far.
func (ia *Interaction) Prompts() []string {
	ia.mu.Lock()
	defer ia.mu.Unlock()
	return append([]string(nil), ia.prompts...)
}

// Target returns the navigation target and whether one was requested.
func (ia *Interaction) Target() (string, bool) {
	ia.mu.Lock()
	defer ia.mu.Unlock()
	return ia.target, ia.target != ""
}
