package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"borrowbee/pkg/logger"
)

type fakeCatalogRepo struct {
	books      map[int]*Book
	ratings    map[int]*Rating
	nextBookID int
	nextRating int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		books:      make(map[int]*Book),
		ratings:    make(map[int]*Rating),
		nextBookID: 1,
		nextRating: 1,
	}
}

func (r *fakeCatalogRepo) aggregate(bookID int) (float64, int64) {
	var sum, count int64
	for _, rating := range r.ratings {
		if rating.BookID == bookID {
			sum += int64(rating.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return float64(sum) / float64(count), count
}

func (r *fakeCatalogRepo) annotate(book *Book) BookWithRating {
	avg, count := r.aggregate(book.ID)
	return BookWithRating{Book: *book, AverageRating: avg, RatingCount: count}
}

func containsFold(haystack *string, needle string) bool {
	if haystack == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*haystack), needle)
}

func (r *fakeCatalogRepo) Search(ctx context.Context, filter Filter) ([]BookWithRating, int64, error) {
	var matched []BookWithRating
	for _, book := range r.books {
		if filter.Query != "" {
			needle := strings.ToLower(filter.Query)
			title := book.Title
			author := book.Author
			if !containsFold(&title, needle) && !containsFold(&author, needle) && !containsFold(book.Description, needle) {
				continue
			}
		}
		if len(filter.Genres) > 0 {
			found := false
			for _, genre := range filter.Genres {
				if book.Genre == genre {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		annotated := r.annotate(book)
		if filter.MinRating > 0 && annotated.AverageRating < filter.MinRating {
			continue
		}
		matched = append(matched, annotated)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.PageSize
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeCatalogRepo) GetByID(ctx context.Context, id int) (*BookWithRating, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	annotated := r.annotate(book)
	return &annotated, nil
}

func (r *fakeCatalogRepo) ListByOwner(ctx context.Context, ownerID int) ([]BookWithRating, error) {
	var owned []BookWithRating
	for _, book := range r.books {
		if book.OwnerID == ownerID {
			owned = append(owned, r.annotate(book))
		}
	}
	return owned, nil
}

func (r *fakeCatalogRepo) CreateBook(ctx context.Context, book *Book) error {
	book.ID = r.nextBookID
	r.nextBookID++
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now().UTC()
	}
	stored := *book
	r.books[book.ID] = &stored
	return nil
}

func (r *fakeCatalogRepo) UpdateBook(ctx context.Context, book *Book) error {
	if _, ok := r.books[book.ID]; !ok {
		return ErrBookNotFound
	}
	stored := *book
	r.books[book.ID] = &stored
	return nil
}

func (r *fakeCatalogRepo) DeleteBook(ctx context.Context, id int) (bool, error) {
	if _, ok := r.books[id]; !ok {
		return false, nil
	}
	delete(r.books, id)
	return true, nil
}

func (r *fakeCatalogRepo) UpsertRating(ctx context.Context, rating *Rating) error {
	for _, existing := range r.ratings {
		if existing.BookID == rating.BookID && existing.UserID == rating.UserID {
			existing.Rating = rating.Rating
			rating.ID = existing.ID
			return nil
		}
	}
	rating.ID = r.nextRating
	r.nextRating++
	stored := *rating
	r.ratings[rating.ID] = &stored
	return nil
}

func (r *fakeCatalogRepo) GetUserRating(ctx context.Context, bookID, userID int) (int, error) {
	for _, rating := range r.ratings {
		if rating.BookID == bookID && rating.UserID == userID {
			return rating.Rating, nil
		}
	}
	return 0, nil
}

func (r *fakeCatalogRepo) GetAverageRating(ctx context.Context, bookID int) (float64, int64, error) {
	avg, count := r.aggregate(bookID)
	return avg, count, nil
}

func (r *fakeCatalogRepo) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var expired int64
	for _, book := range r.books {
		if book.IsAvailable && book.CreatedAt.Before(cutoff) {
			book.IsAvailable = false
			expired++
		}
	}
	return expired, nil
}

func newTestService(repo *fakeCatalogRepo, opts Options) *Service {
	return NewService(repo, opts, logger.NewNop())
}

func addBook(t *testing.T, service *Service, title, author, genre string, description *string) *Book {
	t.Helper()
	book, err := service.Create(context.Background(), CreateBookInput{
		Title:       title,
		Author:      author,
		Genre:       genre,
		Description: description,
		OwnerID:     1,
	})
	if err != nil {
		t.Fatalf("create book %q: %v", title, err)
	}
	return book
}

func strPtr(s string) *string { return &s }

func TestSearchMatchesDescriptionSubstring(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})

	addBook(t, service, "Watership Down", "Richard Adams", "fiction", strPtr("Rabbits flee their warren"))
	addBook(t, service, "Dune", "Frank Herbert", "fiction", strPtr("Desert planet politics"))

	items, total, err := service.Search(context.Background(), SearchInput{Query: "warren"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 match, got total=%d len=%d", total, len(items))
	}
	if items[0].Title != "Watership Down" {
		t.Fatalf("unexpected match %q", items[0].Title)
	}
}

func TestSearchEducationalGenreSynonym(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})

	addBook(t, service, "Cosmos", "Carl Sagan", "science", nil)
	addBook(t, service, "Knots", "A. Author", "guide", nil)
	addBook(t, service, "Dune", "Frank Herbert", "fiction", nil)

	items, total, err := service.Search(context.Background(), SearchInput{Genre: "educational"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected science and guide books, got total=%d", total)
	}
	for _, item := range items {
		if item.Genre != "science" && item.Genre != "guide" {
			t.Fatalf("genre %q leaked through the educational filter", item.Genre)
		}
	}
}

func TestSearchMinRatingExcludesUnrated(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})

	rated := addBook(t, service, "Rated", "A", "fiction", nil)
	addBook(t, service, "Unrated", "B", "fiction", nil)

	if _, err := service.Rate(context.Background(), rated.ID, 7, 4); err != nil {
		t.Fatalf("rate: %v", err)
	}

	items, total, err := service.Search(context.Background(), SearchInput{MinRating: 3})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != rated.ID {
		t.Fatalf("minRating must treat unrated books as 0, got total=%d", total)
	}
}

func TestSearchPaginationCoversAllItems(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{PageSize: 3})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		book := addBook(t, service, "Book", "A", "fiction", nil)
		repo.books[book.ID].CreatedAt = base.Add(time.Duration(i) * time.Hour)
	}

	seen := make(map[int]bool)
	var lastPageLens []int
	for page := 1; page <= 3; page++ {
		items, total, err := service.Search(context.Background(), SearchInput{Page: page})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if total != 7 {
			t.Fatalf("page %d: total=%d, want 7", page, total)
		}
		lastPageLens = append(lastPageLens, len(items))
		for _, item := range items {
			if seen[item.ID] {
				t.Fatalf("book %d returned on more than one page", item.ID)
			}
			seen[item.ID] = true
		}
	}

	if len(seen) != 7 {
		t.Fatalf("pages covered %d of 7 books", len(seen))
	}
	if lastPageLens[0] != 3 || lastPageLens[1] != 3 || lastPageLens[2] != 1 {
		t.Fatalf("unexpected page sizes %v", lastPageLens)
	}

	items, _, err := service.Search(context.Background(), SearchInput{Page: 4})
	if err != nil {
		t.Fatalf("page past the end: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("page past the end must be empty, got %d items", len(items))
	}
}

func TestSearchOrderNewestFirst(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := addBook(t, service, "First", "A", "fiction", nil)
	second := addBook(t, service, "Second", "A", "fiction", nil)
	tied := addBook(t, service, "Tied", "A", "fiction", nil)
	repo.books[first.ID].CreatedAt = base
	repo.books[second.ID].CreatedAt = base.Add(time.Hour)
	repo.books[tied.ID].CreatedAt = base.Add(time.Hour)

	items, _, err := service.Search(context.Background(), SearchInput{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	got := []int{items[0].ID, items[1].ID, items[2].ID}
	want := []int{tied.ID, second.ID, first.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRateOverwritesPriorRating(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})

	book := addBook(t, service, "Dune", "Frank Herbert", "fiction", nil)

	if _, err := service.Rate(context.Background(), book.ID, 7, 5); err != nil {
		t.Fatalf("first rate: %v", err)
	}
	if _, err := service.Rate(context.Background(), book.ID, 7, 3); err != nil {
		t.Fatalf("second rate: %v", err)
	}

	avg, count, err := service.GetAverage(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("get average: %v", err)
	}
	if count != 1 {
		t.Fatalf("re-rating must not add a row, count=%d", count)
	}
	if avg != 3 {
		t.Fatalf("average=%v, want 3 after overwrite", avg)
	}

	stored, err := service.UserRating(context.Background(), book.ID, 7)
	if err != nil {
		t.Fatalf("user rating: %v", err)
	}
	if stored != 3 {
		t.Fatalf("stored rating=%d, want 3", stored)
	}
}

func TestRateRejectsOutOfRange(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})
	book := addBook(t, service, "Dune", "Frank Herbert", "fiction", nil)

	for _, value := range []int{0, 6, -1} {
		if _, err := service.Rate(context.Background(), book.ID, 7, value); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("value %d: expected ErrInvalidRating, got %v", value, err)
		}
	}
	if len(repo.ratings) != 0 {
		t.Fatalf("rejected ratings must not persist, have %d", len(repo.ratings))
	}
}

func TestRateUnknownBook(t *testing.T) {
	service := newTestService(newFakeCatalogRepo(), Options{})
	if _, err := service.Rate(context.Background(), 99, 7, 4); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestUnratedBookAggregates(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})
	book := addBook(t, service, "Dune", "Frank Herbert", "fiction", nil)

	avg, count, err := service.GetAverage(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("get average: %v", err)
	}
	if avg != 0 || count != 0 {
		t.Fatalf("unrated book must report avg=0 count=0, got avg=%v count=%d", avg, count)
	}

	stored, err := service.UserRating(context.Background(), book.ID, 7)
	if err != nil {
		t.Fatalf("user rating: %v", err)
	}
	if stored != 0 {
		t.Fatalf("missing user rating must be 0, got %d", stored)
	}
}

func TestCreateDefaultsToAvailable(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})
	book := addBook(t, service, "Dune", "Frank Herbert", "fiction", nil)
	if !repo.books[book.ID].IsAvailable {
		t.Fatal("new listing must start available")
	}
}

func TestExpirySweepFlipsStaleListings(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{ExpiryEnabled: true, ActiveWindow: 24 * time.Hour})

	stale := addBook(t, service, "Stale", "A", "fiction", nil)
	fresh := addBook(t, service, "Fresh", "A", "fiction", nil)
	repo.books[stale.ID].CreatedAt = time.Now().UTC().Add(-48 * time.Hour)

	if _, _, err := service.Search(context.Background(), SearchInput{}); err != nil {
		t.Fatalf("search: %v", err)
	}

	if repo.books[stale.ID].IsAvailable {
		t.Fatal("listing past the active window must flip to unavailable")
	}
	if !repo.books[fresh.ID].IsAvailable {
		t.Fatal("fresh listing must stay available")
	}
}

func TestExpirySweepDisabledByDefault(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{ActiveWindow: 24 * time.Hour})

	stale := addBook(t, service, "Stale", "A", "fiction", nil)
	repo.books[stale.ID].CreatedAt = time.Now().UTC().Add(-48 * time.Hour)

	if _, _, err := service.Search(context.Background(), SearchInput{}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if !repo.books[stale.ID].IsAvailable {
		t.Fatal("sweep must not run when expiry is disabled")
	}
}

func TestCreateRejectsBlankFields(t *testing.T) {
	mutations := map[string]func(*CreateBookInput){
		"title":  func(in *CreateBookInput) { in.Title = "   " },
		"author": func(in *CreateBookInput) { in.Author = "" },
		"genre":  func(in *CreateBookInput) { in.Genre = "\t" },
	}

	for field, mutate := range mutations {
		repo := newFakeCatalogRepo()
		service := newTestService(repo, Options{})
		input := CreateBookInput{Title: "Dune", Author: "Frank Herbert", Genre: "fiction", OwnerID: 1}
		mutate(&input)
		if _, err := service.Create(context.Background(), input); !errors.Is(err, ErrInvalidBook) {
			t.Fatalf("blank %s: expected ErrInvalidBook, got %v", field, err)
		}
		if len(repo.books) != 0 {
			t.Fatalf("blank %s: rejected create must not persist", field)
		}
	}
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newTestService(repo, Options{})
	book := addBook(t, service, "Dune", "Frank Herbert", "fiction", nil)

	blank := "   "
	if _, err := service.Update(context.Background(), book.ID, UpdateBookInput{Title: &blank}); !errors.Is(err, ErrInvalidBook) {
		t.Fatalf("expected ErrInvalidBook, got %v", err)
	}
	if repo.books[book.ID].Title != "Dune" {
		t.Fatal("rejected update must not change the stored title")
	}
}
