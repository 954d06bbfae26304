package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/observability/metrics"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ backend = (*PostgresRepository)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const itineraryColumns = `id, user_id, title, destination, start_date, end_date, total_days,
       total_budget, actual_cost, travelers, travel_style, days, summary,
       recommendations, status, tags, is_public, created_at, updated_at`

// PostgresRepository stores itineraries in the itineraries table, scoped by
// owning user on every query.
type PostgresRepository struct {
	db     DB
	logger *zap.Logger
	now    func() time.Time
}

func NewPostgresRepository(db DB, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// recordQueryError counts a failed query against the db error metric.
func recordQueryError(ctx context.Context, op string) {
	metrics.Get().DBQueryErrorsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("operation", op)))
}

// itineraryRow mirrors the itineraries table. The days subtree and the
// recommendation list are stored as JSONB documents, tags as text[].
type itineraryRow struct {
	ID              string
	UserID          string
	Title           string
	Destination     string
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int
	TotalBudget     int
	ActualCost      float64
	Travelers       int
	TravelStyle     string
	Days            []byte
	Summary         string
	Recommendations []byte
	Status          string
	Tags            []string
	IsPublic        bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// toRow maps the in-memory entity to its storage representation.
func toRow(it models.Itinerary) (itineraryRow, error) {
	days, err := json.Marshal(it.Days)
	if err != nil {
		return itineraryRow{}, fmt.Errorf("failed to serialize days: %w", err)
	}
	recs, err := json.Marshal(it.Recommendations)
	if err != nil {
		return itineraryRow{}, fmt.Errorf("failed to serialize recommendations: %w", err)
	}
	return itineraryRow{
		ID:              it.ID,
		UserID:          it.UserID,
		Title:           it.Title,
		Destination:     it.Destination,
		StartDate:       it.StartDate,
		EndDate:         it.EndDate,
		TotalDays:       it.TotalDays,
		TotalBudget:     it.TotalBudget,
		ActualCost:      it.ActualCost,
		Travelers:       it.Travelers,
		TravelStyle:     it.TravelStyle,
		Days:            days,
		Summary:         it.Summary,
		Recommendations: recs,
		Status:          string(it.Status),
		Tags:            it.Tags,
		IsPublic:        it.IsPublic,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}, nil
}

// fromRow maps a storage row back to the entity shape callers see.
func fromRow(row itineraryRow) (models.Itinerary, error) {
	var days []models.Day
	if len(row.Days) > 0 {
		if err := json.Unmarshal(row.Days, &days); err != nil {
			return models.Itinerary{}, fmt.Errorf("failed to parse days: %w", err)
		}
	}
	var recs []string
	if len(row.Recommendations) > 0 {
		if err := json.Unmarshal(row.Recommendations, &recs); err != nil {
			return models.Itinerary{}, fmt.Errorf("failed to parse recommendations: %w", err)
		}
	}
	return models.Itinerary{
		ID:              row.ID,
		UserID:          row.UserID,
		Title:           row.Title,
		Destination:     row.Destination,
		StartDate:       row.StartDate,
		EndDate:         row.EndDate,
		TotalDays:       row.TotalDays,
		TotalBudget:     row.TotalBudget,
		ActualCost:      row.ActualCost,
		Travelers:       row.Travelers,
		TravelStyle:     row.TravelStyle,
		Days:            days,
		Summary:         row.Summary,
		Recommendations: recs,
		Status:          models.ItineraryStatus(row.Status),
		Tags:            row.Tags,
		IsPublic:        row.IsPublic,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

func scanItinerary(row pgx.Row) (models.Itinerary, error) {
	var r itineraryRow
	err := row.Scan(
		&r.ID, &r.UserID, &r.Title, &r.Destination, &r.StartDate, &r.EndDate, &r.TotalDays,
		&r.TotalBudget, &r.ActualCost, &r.Travelers, &r.TravelStyle, &r.Days, &r.Summary,
		&r.Recommendations, &r.Status, &r.Tags, &r.IsPublic, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return models.Itinerary{}, err
	}
	return fromRow(r)
}

// filterConditions translates the filter descriptor into SQL predicates,
// always including the owning-user scope.
func filterConditions(userID string, f models.ItineraryFilter) []sq.Sqlizer {
	conds := []sq.Sqlizer{sq.Eq{"user_id": userID}}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"destination": pattern},
			sq.ILike{"summary": pattern},
		})
	}
	if f.Destination != "" {
		conds = append(conds, sq.Eq{"destination": f.Destination})
	}
	if f.Status != "" {
		conds = append(conds, sq.Eq{"status": string(f.Status)})
	}
	if f.DateFrom != nil {
		conds = append(conds, sq.GtOrEq{"start_date": *f.DateFrom})
	}
	if f.DateTo != nil {
		conds = append(conds, sq.LtOrEq{"start_date": *f.DateTo})
	}
	if f.BudgetMin != nil {
		conds = append(conds, sq.GtOrEq{"total_budget": *f.BudgetMin})
	}
	if f.BudgetMax != nil {
		conds = append(conds, sq.LtOrEq{"total_budget": *f.BudgetMax})
	}
	if len(f.Tags) > 0 {
		conds = append(conds, sq.Expr("tags && ?", f.Tags))
	}
	return conds
}

// List runs the count query and the page query concurrently; the total always
// reflects the filter before pagination.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.ItineraryFilter) (*models.ItineraryPage, error) {
	filter.Normalize()
	conds := filterConditions(userID, filter)

	countQB := psql.Select("COUNT(*)").From("itineraries")
	pageQB := psql.Select(itineraryColumns).From("itineraries")
	for _, c := range conds {
		countQB = countQB.Where(c)
		pageQB = pageQB.Where(c)
	}
	pageQB = pageQB.
		OrderBy(fmt.Sprintf("%s %s", filter.SortBy, sortDirection(filter.SortOrder))).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		Limit(uint64(filter.Limit))

	var (
		total int
		items []models.Itinerary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query, args, err := countQB.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build count query: %w", err)
		}
		if err := r.db.QueryRow(gctx, query, args...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count itineraries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		query, args, err := pageQB.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build page query: %w", err)
		}
		rows, err := r.db.Query(gctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to list itineraries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			it, err := scanItinerary(rows)
			if err != nil {
				return fmt.Errorf("failed to scan itinerary: %w", err)
			}
			items = append(items, it)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating itinerary rows: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		r.logger.Error("Failed to list itineraries", zap.Error(err))
		recordQueryError(ctx, "list")
		return nil, err
	}

	if items == nil {
		items = []models.Itinerary{}
	}
	return &models.ItineraryPage{
		Total: total,
		Items: items,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.Itinerary, error) {
	query := `
        SELECT ` + itineraryColumns + `
        FROM itineraries
        WHERE id = $1 AND user_id = $2
    `
	it, err := scanItinerary(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get itinerary", zap.String("id", id), zap.Error(err))
		recordQueryError(ctx, "get")
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	return &it, nil
}

// Save upserts by primary key; a conflicting id replaces every column.
func (r *PostgresRepository) Save(ctx context.Context, it *models.Itinerary, userID string) (*models.Itinerary, error) {
	entity := it.Clone()
	entity.UserID = userID
	now := r.now()
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = now
	}
	stamped := now
	entity.UpdatedAt = &stamped
	if entity.Status == "" {
		entity.Status = models.StatusDraft
	}

	row, err := toRow(entity)
	if err != nil {
		return nil, err
	}

	query := `
        INSERT INTO itineraries (
            id, user_id, title, destination, start_date, end_date, total_days,
            total_budget, actual_cost, travelers, travel_style, days, summary,
            recommendations, status, tags, is_public, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
        )
        ON CONFLICT (id) DO UPDATE SET
            user_id = EXCLUDED.user_id, title = EXCLUDED.title,
            destination = EXCLUDED.destination, start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date, total_days = EXCLUDED.total_days,
            total_budget = EXCLUDED.total_budget, actual_cost = EXCLUDED.actual_cost,
            travelers = EXCLUDED.travelers, travel_style = EXCLUDED.travel_style,
            days = EXCLUDED.days, summary = EXCLUDED.summary,
            recommendations = EXCLUDED.recommendations, status = EXCLUDED.status,
            tags = EXCLUDED.tags, is_public = EXCLUDED.is_public,
            updated_at = EXCLUDED.updated_at
    `
	_, err = r.db.Exec(ctx, query,
		row.ID, row.UserID, row.Title, row.Destination, row.StartDate, row.EndDate, row.TotalDays,
		row.TotalBudget, row.ActualCost, row.Travelers, row.TravelStyle, row.Days, row.Summary,
		row.Recommendations, row.Status, row.Tags, row.IsPublic, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save itinerary", zap.String("id", entity.ID), zap.Error(err))
		recordQueryError(ctx, "save")
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}
	return &entity, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	query := `DELETE FROM itineraries WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete itinerary", zap.String("id", id), zap.Error(err))
		recordQueryError(ctx, "delete")
		return false, fmt.Errorf("failed to delete itinerary: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) All(ctx context.Context, userID string) ([]models.Itinerary, error) {
	query := `
        SELECT ` + itineraryColumns + `
        FROM itineraries
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to load itineraries", zap.Error(err))
		recordQueryError(ctx, "all")
		return nil, fmt.Errorf("failed to load itineraries: %w", err)
	}
	defer rows.Close()

	var items []models.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan itinerary: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating itinerary rows: %w", err)
	}
	return items, nil
}

func sortDirection(o models.SortOrder) string {
	if o == models.SortAsc {
		return "ASC"
	}
	return "DESC"
}

// undefinedTableCode is SQLSTATE 42P01 ("undefined_table"), the signal the
// facade treats as "remote schema missing" and degrades on.
const undefinedTableCode = "42P01"

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}
