package handler

import (
	"errors"
	"net/http"
	"time"

	catalogdomain "borrowbee/internal/domain/catalog"
	"borrowbee/internal/transport/httpserver/middleware"
)

type createBookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Genre       string  `json:"genre" validate:"required"`
	AgeGroup    *string `json:"ageGroup"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	// Ignored: the owner always comes from the token.
	OwnerID int `json:"ownerId"`
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	AgeGroup    *string `json:"ageGroup"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	IsAvailable *bool   `json:"isAvailable"`
}

type rateBookRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
	// Ignored: identity comes from the token.
	UserID int `json:"userId"`
}

type bookResponse struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	AgeGroup      *string   `json:"ageGroup"`
	Description   *string   `json:"description"`
	ImageURL      *string   `json:"imageUrl"`
	IsAvailable   bool      `json:"isAvailable"`
	OwnerID       int       `json:"ownerId"`
	CreatedAt     time.Time `json:"createdAt"`
	AverageRating float64   `json:"averageRating"`
	RatingCount   int64     `json:"ratingCount"`
}

type bookListResponse struct {
	Items    []bookResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type ratingResponse struct {
	BookID int `json:"bookId"`
	UserID int `json:"userId"`
	Rating int `json:"rating"`
}

func toBookResponse(book catalogdomain.BookWithRating) bookResponse {
	return bookResponse{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		Genre:         book.Genre,
		AgeGroup:      book.AgeGroup,
		Description:   book.Description,
		ImageURL:      book.ImageURL,
		IsAvailable:   book.IsAvailable,
		OwnerID:       book.OwnerID,
		CreatedAt:     book.CreatedAt,
		AverageRating: roundRating(book.AverageRating),
		RatingCount:   book.RatingCount,
	}
}

func (h *Handlers) SearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rawMinRating := query.Get("minRating")
	if rawMinRating == "" {
		rawMinRating = query.Get("min_rating")
	}
	minRating, err := parseFloatParam(rawMinRating, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid minRating")
		return
	}
	page, err := parseIntParam(query.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	rawPageSize := query.Get("pageSize")
	if rawPageSize == "" {
		rawPageSize = query.Get("page_size")
	}
	pageSize, err := parseIntParam(rawPageSize, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid pageSize")
		return
	}

	input := catalogdomain.SearchInput{
		Query:     query.Get("search"),
		Genre:     query.Get("genre"),
		MinRating: minRating,
		Page:      page,
		PageSize:  pageSize,
	}

	items, total, err := h.Catalog.Search(r.Context(), input)
	if err != nil {
		h.log.InternalError("books.search: search failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch books")
		return
	}

	response := make([]bookResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toBookResponse(item))
	}

	// Echo the page size the service actually paged by, not the request value.
	if pageSize <= 0 {
		pageSize = h.Catalog.PageSize()
	}
	if page < 1 {
		page = 1
	}

	writeJSON(w, http.StatusOK, bookListResponse{
		Items:    response,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid book id")
		return
	}

	book, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "book_not_found", "book not found")
			return
		}
		h.log.InternalError("books.get: fetch failed", err, "book_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch book")
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(*book))
}

func (h *Handlers) MyBooks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Catalog.ListByOwner(r.Context(), userID)
	if err != nil {
		h.log.InternalError("books.my_books: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch user books")
		return
	}

	response := make([]bookResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toBookResponse(item))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid book data")
		return
	}

	book, err := h.Catalog.Create(r.Context(), catalogdomain.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		AgeGroup:    req.AgeGroup,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		OwnerID:     userID,
	})
	if err != nil {
		if errors.Is(err, catalogdomain.ErrInvalidBook) {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid book data")
			return
		}
		h.log.InternalError("books.create: create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create book")
		return
	}

	writeJSON(w, http.StatusCreated, toBookResponse(catalogdomain.BookWithRating{Book: *book}))
}

func (h *Handlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid book id")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	current, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "book_not_found", "book not found")
			return
		}
		h.log.InternalError("books.update: fetch failed", err, "book_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update book")
		return
	}
	if current.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden", "only the owner can update this book")
		return
	}

	book, err := h.Catalog.Update(r.Context(), id, catalogdomain.UpdateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		AgeGroup:    req.AgeGroup,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrBookNotFound):
			writeError(w, http.StatusNotFound, "book_not_found", "book not found")
		case errors.Is(err, catalogdomain.ErrInvalidBook):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid book data")
		default:
			h.log.InternalError("books.update: update failed", err, "book_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to update book")
		}
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(*book))
}

func (h *Handlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid book id")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	current, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "book_not_found", "book not found")
			return
		}
		h.log.InternalError("books.delete: fetch failed", err, "book_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete book")
		return
	}
	if current.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden", "only the owner can delete this book")
		return
	}

	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		if errors.Is(err, catalogdomain.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "book_not_found", "book not found")
			return
		}
		h.log.InternalError("books.delete: delete failed", err, "book_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete book")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}

func (h *Handlers) RateBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid book id")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req rateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_rating", "rating must be between 1 and 5")
		return
	}

	rating, err := h.Catalog.Rate(r.Context(), bookID, userID, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, catalogdomain.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, "invalid_rating", "rating must be between 1 and 5")
		case errors.Is(err, catalogdomain.ErrBookNotFound):
			writeError(w, http.StatusNotFound, "book_not_found", "book not found")
		default:
			h.log.InternalError("books.rate: upsert failed", err, "book_id", bookID, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to rate book")
		}
		return
	}

	writeJSON(w, http.StatusOK, ratingResponse{BookID: rating.BookID, UserID: rating.UserID, Rating: rating.Rating})
}

// UserRating returns the given user's rating for a book, {rating: 0} when
// they have not rated it.
func (h *Handlers) UserRating(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid book id")
		return
	}
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	rating, err := h.Catalog.UserRating(r.Context(), bookID, userID)
	if err != nil {
		h.log.InternalError("books.user_rating: fetch failed", err, "book_id", bookID, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch rating")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"rating": rating})
}
