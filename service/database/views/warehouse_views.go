/*
 * @module service/database/views/warehouse_views
 * @description Analytical view definitions over the cost star schema
 * @architecture Database view layer - PostgreSQL views over fact/dimension joins
 * @stateFlow Recreated idempotently during migration
 * @rules Views never store data; DROP + CREATE keeps definitions in sync with the schema
 * @dependencies PostgreSQL, GORM model tables
 * @refs service/models/warehouse.go, service/analysis
 */

package views

// WarehouseViews maps view name to its DDL.
var WarehouseViews = map[string]string{
	// Fully joined fact rows at source granularity.
	"v_full_costs": `
		DROP VIEW IF EXISTS v_full_costs;
		CREATE VIEW v_full_costs AS
		SELECT
			f.id AS fact_id,
			u.code AS unit_code,
			u.name AS unit_name,
			u.level,
			u.region_code,
			t.code AS cost_type_code,
			t.name AS cost_type_name,
			t.category,
			p.year,
			f.value,
			f.import_id
		FROM fact_cost f
		JOIN dim_unit u ON f.unit_id = u.id
		JOIN dim_cost_type t ON f.cost_type_id = t.id
		JOIN dim_period p ON f.period_id = p.id;
	`,

	// Total cost per region per year.
	"v_region_costs": `
		DROP VIEW IF EXISTS v_region_costs;
		CREATE VIEW v_region_costs AS
		SELECT
			u.code AS unit_code,
			u.name AS unit_name,
			p.year,
			SUM(f.value) AS total_value
		FROM fact_cost f
		JOIN dim_unit u ON f.unit_id = u.id
		JOIN dim_period p ON f.period_id = p.id
		WHERE u.level = 'WOJEWODZTWO'
		GROUP BY u.code, u.name, p.year;
	`,

	// Yearly totals per administrative level.
	"v_yearly_trend": `
		DROP VIEW IF EXISTS v_yearly_trend;
		CREATE VIEW v_yearly_trend AS
		SELECT
			u.level,
			p.year,
			SUM(f.value) AS total_value,
			AVG(f.value) AS avg_value,
			COUNT(*) AS fact_count
		FROM fact_cost f
		JOIN dim_unit u ON f.unit_id = u.id
		JOIN dim_period p ON f.period_id = p.id
		GROUP BY u.level, p.year;
	`,

	// Category share of total cost per year at region level.
	"v_cost_structure": `
		DROP VIEW IF EXISTS v_cost_structure;
		CREATE VIEW v_cost_structure AS
		SELECT
			p.year,
			t.category,
			SUM(f.value) AS total_value,
			SUM(f.value) * 100.0 / NULLIF(SUM(SUM(f.value)) OVER (PARTITION BY p.year), 0) AS share_pct
		FROM fact_cost f
		JOIN dim_unit u ON f.unit_id = u.id
		JOIN dim_cost_type t ON f.cost_type_id = t.id
		JOIN dim_period p ON f.period_id = p.id
		WHERE u.level = 'WOJEWODZTWO'
		GROUP BY p.year, t.category;
	`,

	// Most recent import run.
	"v_latest_import": `
		DROP VIEW IF EXISTS v_latest_import;
		CREATE VIEW v_latest_import AS
		SELECT *
		FROM import_run
		ORDER BY started_at DESC
		LIMIT 1;
	`,
}
