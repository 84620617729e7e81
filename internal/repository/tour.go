package repository

import (
	"context"
	"errors"

	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/model"
)

// TourRepository handles tour data access
type TourRepository struct {
	db database.Database
}

// NewTourRepository creates a new tour repository
func NewTourRepository(db database.Database) *TourRepository {
	return &TourRepository{db: db}
}

// Create creates a new tour with the default rating summary
func (r *TourRepository) Create(ctx context.Context, tour *model.Tour) error {
	query := `
		CREATE tour CONTENT {
			name: $name,
			ratings_quantity: 0,
			ratings_average: $ratings_average,
			created_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":            tour.Name,
		"ratings_average": model.DefaultRatingsAverage,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return duplicateError("tour", err)
	}

	records := extractQueryResults(result)
	if len(records) == 0 {
		return database.ErrNotFound
	}
	created, err := parseTour(records[0])
	if err != nil {
		return err
	}

	*tour = *created
	return nil
}

// GetByID retrieves a tour by ID. Returns nil if it does not exist.
func (r *TourRepository) GetByID(ctx context.Context, id string) (*model.Tour, error) {
	rid, err := recordID("tour", "id", id)
	if err != nil {
		return nil, err
	}

	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": rid}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	tour, err := parseTour(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tour, nil
}

// ListIDs returns the id of every tour
func (r *TourRepository) ListIDs(ctx context.Context) ([]string, error) {
	result, err := r.db.Query(ctx, `SELECT VALUE id FROM tour`, nil)
	if err != nil {
		return nil, err
	}

	values := extractQueryResults(result)
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id := convertSurrealID(v); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// UpdateRatingSummary overwrites the stored rating summary of a tour
func (r *TourRepository) UpdateRatingSummary(ctx context.Context, tourID string, summary model.RatingSummary) error {
	rid, err := recordID("tour", "id", tourID)
	if err != nil {
		return err
	}

	query := `
		UPDATE type::record($id) SET
			ratings_quantity = $quantity,
			ratings_average = <float>$average
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":       rid,
		"quantity": summary.Quantity,
		"average":  summary.Average,
	}

	// database.ErrNotFound when the tour no longer exists
	_, err = r.db.QueryOne(ctx, query, vars)
	return err
}

func parseTour(result interface{}) (*model.Tour, error) {
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}

	summary := model.RatingSummary{
		Quantity: getInt(data, "ratings_quantity"),
		Average:  model.DefaultRatingsAverage,
	}
	if _, ok := data["ratings_average"]; ok {
		summary.Average = getFloat(data, "ratings_average")
	}

	return &model.Tour{
		ID:            convertSurrealID(data["id"]),
		Name:          getString(data, "name"),
		RatingSummary: summary,
		CreatedAt:     getTimeValue(data, "created_at"),
	}, nil
}
