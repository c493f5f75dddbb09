package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const (
	titleList   = "Book List"
	titleAdd    = "Add New Book"
	titleEdit   = "Edit Book"
	titleDelete = "Delete Book"
)

// ListBooks renders the catalog at `/`. The card layout is used with `?view=cards`.
func (wh *WebHandler) ListBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	logger := wh.GetLoggerFromContext(ctx)
	notices := wh.popFlashes(r)

	page := NewListPage(logger, wh.backend, NewInteraction(false))
	if err := waitMounted(ctx, page.Mount(ctx)); err != nil {
		logger.Warn("request ended before books were fetched", zap.Error(err))
		w.WriteHeader(abortedStatus(err))
		return
	}

	view := ViewList
	if r.URL.Query().Get("view") == "cards" {
		view = ViewCards
	}
	wh.render(w, r, http.StatusOK, view, titleList, notices, &ListView{
		Rows:   page.Table().Rows(),
		Loaded: page.State() == StateLoaded,
	})
}

// AddBookForm renders an empty book form at `/add`.
func (wh *WebHandler) AddBookForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	notices := wh.popFlashes(r)
	page := NewCreatePage(wh.GetLoggerFromContext(r.Context()), wh.backend, nil, nil)
	wh.render(w, r, http.StatusOK, ViewForm, titleAdd, notices, &FormView{
		Heading: titleAdd,
		Action:  "/add",
		Form:    page.Form(),
	})
}

// CreateBook submits the posted form of `/add`. On success the browser is
// redirected to the list. Otherwise the form is shown again with its values.
func (wh *WebHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	logger := wh.GetLoggerFromContext(ctx)
	if err := r.ParseForm(); err != nil {
		logger.Error("failed to parse book form", zap.Error(err))
		wh.render(w, r, http.StatusBadRequest, ViewError, titleAdd, nil, &ErrorView{Message: "The submitted form could not be read."})
		return
	}

	ia := NewInteraction(false)
	page := NewCreatePage(logger, wh.backend, ia, ia)
	form := page.Form()
	form.Bind(r.PostForm)

	var submitErr error
	err := form.Submit(func(book BookInput) {
		submitErr = page.Submit(ctx, book)
	})
	if target, ok := ia.Target(); ok {
		wh.redirectWithFlashes(w, r, target, ia.Notices())
		return
	}

	wh.render(w, r, formStatus(err, submitErr), ViewForm, titleAdd, ia.Notices(), &FormView{
		Heading: titleAdd,
		Action:  "/add",
		Form:    form,
	})
}

// EditBookForm renders the form of the book identified by the route at `/edit/:id`.
// While the book is not received the loading indicator is shown.
func (wh *WebHandler) EditBookForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	logger := wh.GetLoggerFromContext(ctx)
	notices := wh.popFlashes(r)

	id := BookID(ps.ByName("id"))
	page := NewEditPage(id, logger, wh.backend, nil, nil)
	if err := waitMounted(ctx, page.Mount(ctx)); err != nil {
		logger.Warn("request ended before book was fetched", zap.String("book.id", id.String()), zap.Error(err))
		w.WriteHeader(abortedStatus(err))
		return
	}

	form, ok := page.Form()
	if !ok {
		wh.render(w, r, http.StatusOK, ViewLoading, titleEdit, notices, &LoadingView{Heading: titleEdit})
		return
	}
	wh.render(w, r, http.StatusOK, ViewForm, titleEdit, notices, &FormView{
		Heading: titleEdit,
		Action:  EditPath(id),
		Form:    form,
	})
}

// UpdateBook submits the posted form of `/edit/:id` for the route id.
func (wh *WebHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	logger := wh.GetLoggerFromContext(ctx)
	if err := r.ParseForm(); err != nil {
		logger.Error("failed to parse book form", zap.Error(err))
		wh.render(w, r, http.StatusBadRequest, ViewError, titleEdit, nil, &ErrorView{Message: "The submitted form could not be read."})
		return
	}

	id := BookID(ps.ByName("id"))
	ia := NewInteraction(false)
	page := NewEditPage(id, logger, wh.backend, ia, ia)
	if err := waitMounted(ctx, page.Mount(ctx)); err != nil {
		logger.Warn("request ended before book was fetched", zap.String("book.id", id.String()), zap.Error(err))
		w.WriteHeader(abortedStatus(err))
		return
	}

	form, ok := page.Form()
	if !ok {
		wh.render(w, r, http.StatusOK, ViewLoading, titleEdit, nil, &LoadingView{Heading: titleEdit})
		return
	}
	form.Bind(r.PostForm)

	var submitErr error
	err := form.Submit(func(book BookInput) {
		submitErr = page.Submit(ctx, book)
	})
	if target, ok := ia.Target(); ok {
		wh.redirectWithFlashes(w, r, target, ia.Notices())
		return
	}

	wh.render(w, r, formStatus(err, submitErr), ViewForm, titleEdit, ia.Notices(), &FormView{
		Heading: titleEdit,
		Action:  EditPath(id),
		Form:    form,
	})
}

// ConfirmDeleteBook asks the user to confirm the deletion of the route book.
func (wh *WebHandler) ConfirmDeleteBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := BookID(ps.ByName("id"))
	wh.render(w, r, http.StatusOK, ViewConfirm, titleDelete, nil, &ConfirmView{
		Prompt: ConfirmDeletePrompt,
		Action: DeletePath(id),
		ID:     id,
	})
}

// DeleteBook applies the posted answer of the confirmation page. The catalog
// is fetched, the table deletes the book, and the resulting list is shown.
func (wh *WebHandler) DeleteBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	logger := wh.GetLoggerFromContext(ctx)
	if err := r.ParseForm(); err != nil {
		logger.Error("failed to parse delete confirmation", zap.Error(err))
		wh.render(w, r, http.StatusBadRequest, ViewError, titleDelete, nil, &ErrorView{Message: "The submitted form could not be read."})
		return
	}

	id := BookID(ps.ByName("id"))
	ia := NewInteraction(r.PostForm.Get("confirm") == "yes")
	page := NewListPage(logger, wh.backend, ia)
	if err := waitMounted(ctx, page.Mount(ctx)); err != nil {
		logger.Warn("request ended before books were fetched", zap.Error(err))
		w.WriteHeader(abortedStatus(err))
		return
	}

	page.Table().Delete(ctx, id)

	wh.render(w, r, http.StatusOK, ViewList, titleList, ia.Notices(), &ListView{
		Rows:   page.Table().Rows(),
		Loaded: page.State() == StateLoaded,
	})
}

// formStatus picks the status of a form page shown again after a submission.
func formStatus(validationErr, submitErr error) int {
	var formErrs FormErrors
	switch {
	case errors.As(validationErr, &formErrs):
		return http.StatusUnprocessableEntity
	case submitErr != nil:
		return http.StatusBadGateway
	}
	return http.StatusOK
}

// NotFound renders the page of unknown routes.
func (wh *WebHandler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wh.render(w, r, http.StatusNotFound, ViewNotFound, "Not Found", nil, &NotFoundView{Path: r.URL.Path})
	})
}
