package importers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/services"
)

type mockStore struct {
	mu      sync.Mutex
	created []entities.Book
	failOn  map[string]error // book name -> error returned by Create
	nextID  uint
}

func (m *mockStore) Create(_ context.Context, draft entities.BookDraft) (*entities.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[draft.Name]; ok {
		return nil, err
	}
	m.nextID++
	book := draft.ToBook()
	book.ID = m.nextID
	m.created = append(m.created, book)
	return &book, nil
}

func (m *mockStore) ListAll(context.Context) ([]entities.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Book(nil), m.created...), nil
}

type mockRecorder struct {
	mu      sync.Mutex
	records []services.IngestRecord
}

func (m *mockRecorder) RecordIngest(_ context.Context, record services.IngestRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
}

func TestPipeline_IngestOne_Valid(t *testing.T) {
	store := &mockStore{}
	recorder := &mockRecorder{}
	pipeline := NewPipeline(store, recorder)

	book, err := pipeline.IngestOne(context.Background(), catalog.RawCandidate{
		"name":       "Dune",
		"author":     "Frank Herbert",
		"userRating": "4.5",
		"year":       "1965",
	}, OriginManual)

	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, "Dune", book.Name)
	require.NotNil(t, book.UserRating)
	assert.Equal(t, 4.5, *book.UserRating)
	require.NotNil(t, book.Year)
	assert.Equal(t, int64(1965), *book.Year)
	assert.Nil(t, book.Price)
	assert.Nil(t, book.Genre)

	require.Len(t, store.created, 1)
	require.Len(t, recorder.records, 1)
	assert.Equal(t, "manual", recorder.records[0].Origin)
	assert.Equal(t, 1, recorder.records[0].Ingested)
	assert.Equal(t, book.ID, *recorder.records[0].BookID)
}

func TestPipeline_IngestOne_InvalidNeverReachesStore(t *testing.T) {
	store := &mockStore{}
	recorder := &mockRecorder{}
	pipeline := NewPipeline(store, recorder)

	book, err := pipeline.IngestOne(context.Background(), catalog.RawCandidate{
		"name":       "",
		"author":     "X",
		"userRating": 7,
	}, OriginManual)

	assert.Nil(t, book)
	var verr *catalog.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, "name", verr.Errors[0].Field)
	assert.Equal(t, "userRating", verr.Errors[1].Field)

	assert.Empty(t, store.created)
	require.Len(t, recorder.records, 1)
	assert.Equal(t, 1, recorder.records[0].Rejected)
	assert.Error(t, recorder.records[0].Err)
}

func TestPipeline_IngestOne_StoreError(t *testing.T) {
	store := &mockStore{failOn: map[string]error{"Dune": errors.New("disk full")}}
	pipeline := NewPipeline(store, nil)

	_, err := pipeline.IngestOne(context.Background(), catalog.RawCandidate{
		"name": "Dune", "author": "Frank Herbert",
	}, OriginManual)

	var storeErr *services.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.EqualError(t, storeErr.Err, "disk full")
}

func TestPipeline_IngestOne_ChatOriginSameRules(t *testing.T) {
	store := &mockStore{}
	pipeline := NewPipeline(store, nil)

	raw, err := ChatCandidate(json.RawMessage(`{"name":"Dune","author":"Frank Herbert","userRating":9,"price":"cheap"}`))
	require.NoError(t, err)

	_, err = pipeline.IngestOne(context.Background(), raw, OriginChat)

	var verr *catalog.ValidationError
	require.True(t, errors.As(err, &verr))
	rating, ok := verr.Field("userRating")
	require.True(t, ok)
	assert.Equal(t, "User rating must be between 0 and 5", rating.Message)
	price, ok := verr.Field("price")
	require.True(t, ok)
	assert.True(t, price.IsCoercion())
	assert.Empty(t, store.created)
}

func TestPipeline_IngestBatch_OneCreatePerValidRow(t *testing.T) {
	rows := []catalog.RawCandidate{
		{"name": "A", "author": "X"},
		{"name": "", "author": "X"},
		{"name": "B", "author": "Y", "reviews": "10"},
		{"name": "C", "author": "Z", "userRating": "11"},
		{"name": "D", "author": "W"},
	}

	// The invalid rows are moved around to show position does not matter.
	orders := [][]int{{0, 1, 2, 3, 4}, {1, 3, 0, 2, 4}, {0, 2, 4, 1, 3}}
	for _, order := range orders {
		store := &mockStore{}
		pipeline := NewPipeline(store, nil)

		batch := make([]catalog.RawCandidate, 0, len(order))
		for _, i := range order {
			batch = append(batch, rows[i])
		}

		result, err := pipeline.IngestBatch(context.Background(), batch)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Ingested)
		assert.Equal(t, 2, result.Rejected)
		assert.Len(t, store.created, 3)
		require.Len(t, result.Outcomes, 5)
		for i, o := range result.Outcomes {
			assert.Equal(t, i, o.Index)
		}
	}
}

func TestPipeline_IngestBatch_StoreFailureDoesNotStopBatch(t *testing.T) {
	store := &mockStore{failOn: map[string]error{"B": &services.StoreError{Op: "create", Err: errors.New("constraint")}}}
	recorder := &mockRecorder{}
	pipeline := NewPipeline(store, recorder)

	result, err := pipeline.IngestBatch(context.Background(), []catalog.RawCandidate{
		{"name": "A", "author": "X"},
		{"name": "B", "author": "X"},
		{"name": "C", "author": "X"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Ingested)
	assert.Equal(t, 1, result.Rejected)
	assert.True(t, result.Outcomes[0].Ingested())
	assert.False(t, result.Outcomes[1].Ingested())
	assert.Nil(t, result.Outcomes[1].Errors)

	var storeErr *services.StoreError
	assert.True(t, errors.As(result.Outcomes[1].Err, &storeErr))
	assert.Len(t, store.created, 2)

	summary := result.Summary()
	assert.Equal(t, services.IngestResult{TotalRows: 3, Ingested: 2, Rejected: 1}, summary)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, "bulk-import", recorder.records[0].Origin)
	assert.Equal(t, 2, recorder.records[0].Ingested)
}

func TestPipeline_IngestBatch_ValidationDetails(t *testing.T) {
	pipeline := NewPipeline(&mockStore{}, nil)

	result, err := pipeline.IngestBatch(context.Background(), []catalog.RawCandidate{
		{"name": "A", "author": ""},
	})

	require.NoError(t, err)
	require.Len(t, result.Outcomes[0].Errors, 1)
	assert.Equal(t, "author", result.Outcomes[0].Errors[0].Field)
	assert.Equal(t, "Author is required", result.Outcomes[0].Errors[0].Message)
}

func TestPipeline_IngestBatch_Cancelled(t *testing.T) {
	store := &mockStore{}
	pipeline := NewPipeline(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := pipeline.IngestBatch(ctx, []catalog.RawCandidate{
		{"name": "A", "author": "X"},
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Outcomes)
	assert.Empty(t, store.created)
}

func TestPipeline_IngestBatch_Empty(t *testing.T) {
	pipeline := NewPipeline(&mockStore{}, nil)

	result, err := pipeline.IngestBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, result.Ingested)
	assert.Zero(t, result.Rejected)
}

func TestPipeline_ConcurrentIngestions(t *testing.T) {
	store := &mockStore{}
	pipeline := NewPipeline(store, &mockRecorder{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = pipeline.IngestOne(context.Background(), catalog.RawCandidate{"name": "N", "author": "A"}, OriginManual)
		}()
	}
	wg.Wait()

	assert.Len(t, store.created, 20)
}
