package catalog

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/hideyanjp01-maker/workbench/pkg/database"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
)

// CatalogRepository defines the catalog data access used by the dashboards.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByStage(ctx context.Context, stage models.Stage) ([]models.Product, error)
	ListMetricsByStage(ctx context.Context, stage models.Stage) ([]models.Metric, error)
	UpsertProduct(ctx context.Context, product *models.Product) (*models.Product, error)
}

// Repository implements CatalogRepository.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new catalog repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetProduct retrieves a product by ID.
func (r *Repository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogRepository.GetProduct")
	defer span.End()

	sb := productStruct.SelectFrom(productsTable)
	sb.Where(sb.Equal("id", id))

	sql, args := sb.Build()

	var row ProductRow
	err := r.db.GetContext(ctx, &row, sql, args...)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "product not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get product")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get product")
	}

	return ToProduct(&row), nil
}

// ListProducts retrieves every product in the catalog.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogRepository.ListProducts")
	defer span.End()

	sb := productStruct.SelectFrom(productsTable)
	sb.OrderBy("created_at").Asc()

	sql, args := sb.Build()

	var rows []ProductRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list products")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list products")
	}

	return ToProducts(rows), nil
}

// ListProductsByStage retrieves the products in one lifecycle stage.
func (r *Repository) ListProductsByStage(ctx context.Context, stage models.Stage) ([]models.Product, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogRepository.ListProductsByStage")
	defer span.End()

	sb := productStruct.SelectFrom(productsTable)
	sb.Where(sb.Equal("stage", string(stage)))
	sb.OrderBy("created_at").Asc()

	sql, args := sb.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"stage": string(stage),
	}).Debug("Listing products by stage")

	var rows []ProductRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list products by stage")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list products")
	}

	return ToProducts(rows), nil
}

// ListMetricsByStage retrieves the standalone metrics tagged for one stage.
func (r *Repository) ListMetricsByStage(ctx context.Context, stage models.Stage) ([]models.Metric, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogRepository.ListMetricsByStage")
	defer span.End()

	sb := metricStruct.SelectFrom(metricsTable)
	sb.Where(sb.Equal("stage", string(stage)))
	sb.OrderBy("name").Asc()

	sql, args := sb.Build()

	var rows []MetricRow
	err := r.db.SelectContext(ctx, &rows, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list metrics by stage")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list metrics")
	}

	return ToMetrics(rows), nil
}

// UpsertProduct inserts a product, or refreshes its stage and metrics when
// the ID already exists. Confirmed planning products land here as cold
// start entries.
func (r *Repository) UpsertProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	ctx, span := tracing.StartSpan(ctx, "CatalogRepository.UpsertProduct")
	defer span.End()

	now := Now()
	if product.CreatedTS.IsZero() {
		product.CreatedTS = now
	}
	product.UpdatedTS = now

	row := FromProduct(product)
	ib := productStruct.InsertInto(productsTable, row)
	ub := ib.OnConflict("id")
	ub.Set(
		ub.Assign("name", database.Excluded("name")),
		ub.Assign("category", database.Excluded("category")),
		ub.Assign("stage", database.Excluded("stage")),
		ub.Assign("target_metrics", database.Excluded("target_metrics")),
		ub.Assign("current_metrics", database.Excluded("current_metrics")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)

	sql, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":    product.ID,
		"name":  product.Name,
		"stage": string(product.Stage),
	}).Debug("Upserting product")

	_, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to upsert product")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert product")
	}

	return product, nil
}
