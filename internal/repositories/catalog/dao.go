// Package catalog is the Postgres-backed product and metric catalog that
// feeds the role dashboards.
package catalog

import (
	"database/sql"
	"time"

	"github.com/hideyanjp01-maker/workbench/pkg/database"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
)

const (
	productsTable = "products"
	metricsTable  = "metrics"
)

// ProductRow represents the database row for a product.
type ProductRow struct {
	ID             sql.NullString                     `db:"id"`
	Name           sql.NullString                     `db:"name"`
	Category       sql.NullString                     `db:"category"`
	Stage          sql.NullString                     `db:"stage"`
	TargetMetrics  database.JSONB[map[string]float64] `db:"target_metrics"`
	CurrentMetrics database.JSONB[map[string]float64] `db:"current_metrics"`
	CreatedAt      sql.NullTime                       `db:"created_at"`
	UpdatedAt      sql.NullTime                       `db:"updated_at"`
}

var productStruct = database.NewStruct(new(ProductRow))

// MetricRow represents the database row for a standalone metric.
type MetricRow struct {
	ID    sql.NullString  `db:"id"`
	Name  sql.NullString  `db:"name"`
	Value sql.NullFloat64 `db:"value"`
	Unit  sql.NullString  `db:"unit"`
	Trend sql.NullString  `db:"trend"`
	Stage sql.NullString  `db:"stage"`
}

var metricStruct = database.NewStruct(new(MetricRow))

// FromProduct converts a domain model to a database row.
func FromProduct(p *models.Product) *ProductRow {
	return &ProductRow{
		ID:             sql.NullString{String: p.ID, Valid: p.ID != ""},
		Name:           sql.NullString{String: p.Name, Valid: p.Name != ""},
		Category:       sql.NullString{String: p.Category, Valid: p.Category != ""},
		Stage:          sql.NullString{String: string(p.Stage), Valid: p.Stage != ""},
		TargetMetrics:  database.JSONB[map[string]float64]{Data: p.TargetMetrics},
		CurrentMetrics: database.JSONB[map[string]float64]{Data: p.CurrentMetrics},
		CreatedAt:      sql.NullTime{Time: p.CreatedTS, Valid: !p.CreatedTS.IsZero()},
		UpdatedAt:      sql.NullTime{Time: p.UpdatedTS, Valid: !p.UpdatedTS.IsZero()},
	}
}

// ToProduct converts a database row to a domain model.
func ToProduct(row *ProductRow) *models.Product {
	return &models.Product{
		ID:             row.ID.String,
		Name:           row.Name.String,
		Category:       row.Category.String,
		Stage:          models.Stage(row.Stage.String),
		TargetMetrics:  row.TargetMetrics.Data,
		CurrentMetrics: row.CurrentMetrics.Data,
		CreatedTS:      row.CreatedAt.Time,
		UpdatedTS:      row.UpdatedAt.Time,
	}
}

// ToProducts converts a slice of database rows to domain models.
func ToProducts(rows []ProductRow) []models.Product {
	products := make([]models.Product, len(rows))
	for i, row := range rows {
		products[i] = *ToProduct(&row)
	}
	return products
}

// ToMetric converts a database row to a domain model.
func ToMetric(row *MetricRow) *models.Metric {
	return &models.Metric{
		ID:    row.ID.String,
		Name:  row.Name.String,
		Value: row.Value.Float64,
		Unit:  row.Unit.String,
		Trend: models.MetricTrend(row.Trend.String),
		Stage: models.Stage(row.Stage.String),
	}
}

// ToMetrics converts a slice of database rows to domain models.
func ToMetrics(rows []MetricRow) []models.Metric {
	metrics := make([]models.Metric, len(rows))
	for i, row := range rows {
		metrics[i] = *ToMetric(&row)
	}
	return metrics
}

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}
