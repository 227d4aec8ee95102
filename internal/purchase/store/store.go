package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nafaymotors/inventory/internal/apierror"
	"github.com/nafaymotors/inventory/internal/purchase"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectPurchaseColumns = `
	id, purchase_date, auction_number, maker, chassis_number,
	push, tax, auction_fee, recycle, risko, total, sold_price,
	auction, yard, load_date, eta, model_year, expiry_date, status,
	created_by, created_by_name, updated_by, updated_by_name,
	created_at, updated_at
`

// scanPurchase reads a purchase row in selectPurchaseColumns order.
func scanPurchase(s scanner) (*purchase.Purchase, error) {
	var p purchase.Purchase

	var (
		statusStr string
		soldPrice sql.NullFloat64
		loadDate  sql.NullTime
		eta       sql.NullTime
		createdBy uuid.NullUUID
		updatedBy uuid.NullUUID
	)

	if err := s.Scan(
		&p.ID, &p.PurchaseDate, &p.AuctionNumber, &p.Maker, &p.ChassisNumber,
		&p.Push, &p.Tax, &p.AuctionFee, &p.Recycle, &p.Risko, &p.Total, &soldPrice,
		&p.Auction, &p.Yard, &loadDate, &eta, &p.ModelYear, &p.ExpiryDate, &statusStr,
		&createdBy, &p.CreatedByName, &updatedBy, &p.UpdatedByName,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = purchase.Status(statusStr)

	if soldPrice.Valid {
		p.SoldPrice = &soldPrice.Float64
	}

	if loadDate.Valid {
		p.LoadDate = &loadDate.Time
	}

	if eta.Valid {
		p.ETA = &eta.Time
	}

	if createdBy.Valid {
		p.CreatedBy = &createdBy.UUID
	}

	if updatedBy.Valid {
		p.UpdatedBy = &updatedBy.UUID
	}

	return &p, nil
}

func (s *Store) CreatePurchase(ctx context.Context, p *purchase.Purchase) error {
	query := `
		INSERT INTO purchases (
			purchase_date, auction_number, maker, chassis_number,
			push, tax, auction_fee, recycle, risko, total, sold_price,
			auction, yard, load_date, eta, model_year, expiry_date, status,
			created_by, created_by_name, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.PurchaseDate, p.AuctionNumber, p.Maker, p.ChassisNumber,
		p.Push, p.Tax, p.AuctionFee, p.Recycle, p.Risko, p.Total, p.SoldPrice,
		p.Auction, p.Yard, p.LoadDate, p.ETA, p.ModelYear, p.ExpiryDate, p.Status,
		nullUUID(p.CreatedBy), p.CreatedByName,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}

		return fmt.Errorf("creating purchase: %w", err)
	}

	return nil
}

func (s *Store) GetPurchase(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	query := `SELECT ` + selectPurchaseColumns + ` FROM purchases WHERE id = $1`

	p, err := scanPurchase(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NotFound("Purchase not found")
		}

		return nil, fmt.Errorf("getting purchase: %w", err)
	}

	return p, nil
}

func (s *Store) UpdatePurchase(ctx context.Context, p *purchase.Purchase) error {
	query := `
		UPDATE purchases
		SET purchase_date = $1, auction_number = $2, maker = $3, chassis_number = $4,
			push = $5, tax = $6, auction_fee = $7, recycle = $8, risko = $9,
			total = $10, sold_price = $11, auction = $12, yard = $13,
			load_date = $14, eta = $15, model_year = $16, expiry_date = $17, status = $18,
			updated_by = $19, updated_by_name = $20, updated_at = NOW()
		WHERE id = $21
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.PurchaseDate, p.AuctionNumber, p.Maker, p.ChassisNumber,
		p.Push, p.Tax, p.AuctionFee, p.Recycle, p.Risko,
		p.Total, p.SoldPrice, p.Auction, p.Yard,
		p.LoadDate, p.ETA, p.ModelYear, p.ExpiryDate, p.Status,
		nullUUID(p.UpdatedBy), p.UpdatedByName, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apierror.NotFound("Purchase not found")
		}

		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}

		return fmt.Errorf("updating purchase: %w", err)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status purchase.Status, updatedBy *uuid.UUID, updatedByName string) (*purchase.Purchase, error) {
	query := `
		UPDATE purchases
		SET status = $1,
			updated_by = COALESCE($2::uuid, updated_by),
			updated_by_name = CASE WHEN $2::uuid IS NULL THEN updated_by_name ELSE $3 END,
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + selectPurchaseColumns

	p, err := scanPurchase(s.db.QueryRowContext(ctx, query, status, nullUUID(updatedBy), updatedByName, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NotFound("Purchase not found")
		}

		return nil, fmt.Errorf("updating status: %w", err)
	}

	return p, nil
}

func (s *Store) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting purchase: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting purchase: %w", err)
	}

	if affected == 0 {
		return apierror.NotFound("Record not found")
	}

	return nil
}

func (s *Store) FindByChassisNumber(ctx context.Context, chassisNumber string, exclude uuid.UUID) (*purchase.Purchase, error) {
	query := `SELECT ` + selectPurchaseColumns + ` FROM purchases WHERE chassis_number = $1 AND id <> $2 LIMIT 1`

	p, err := scanPurchase(s.db.QueryRowContext(ctx, query, chassisNumber, exclude))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding purchase by chassis number: %w", err)
	}

	return p, nil
}

func (s *Store) FindByAuctionNumber(ctx context.Context, auctionNumber int64, exclude uuid.UUID) (*purchase.Purchase, error) {
	query := `SELECT ` + selectPurchaseColumns + ` FROM purchases WHERE auction_number = $1 AND id <> $2 LIMIT 1`

	p, err := scanPurchase(s.db.QueryRowContext(ctx, query, auctionNumber, exclude))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding purchase by auction number: %w", err)
	}

	return p, nil
}

// parsableExpiry restricts rows to those whose expiry_date parses as a real
// YYYY-MM value, so the derived-date sort can order them.
const parsableExpiry = `expiry_date <> '' AND expiry_date ~ '^\d{4}-\d{2}$'`

func (s *Store) ListPurchases(ctx context.Context, q purchase.ListQuery) ([]*purchase.Purchase, int64, error) {
	conds, args := buildFilter(q)

	if q.SortBy == purchase.SortExpiryDate {
		conds = append(conds, parsableExpiry)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting purchases: %w", err)
	}

	query := `SELECT ` + selectPurchaseColumns + ` FROM purchases` + where +
		orderClause(q) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := s.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*purchase.Purchase

	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning purchase: %w", err)
		}

		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating purchase rows: %w", err)
	}

	return purchases, total, nil
}

// buildFilter translates the normalized query into WHERE conditions. All
// clauses combine with AND; each search term must match at least one of the
// searchable columns.
func buildFilter(q purchase.ListQuery) ([]string, []any) {
	var conds []string

	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Status != "" {
		conds = append(conds, "status = "+arg(string(q.Status)))
	}

	for _, term := range q.SearchTerms {
		ph := arg("%" + term + "%")
		conds = append(conds, fmt.Sprintf(
			"(maker ILIKE %[1]s OR model_year ILIKE %[1]s OR chassis_number ILIKE %[1]s OR auction ILIKE %[1]s)", ph))
	}

	if q.ChassisNumber != "" {
		conds = append(conds, "chassis_number ILIKE "+arg("%"+q.ChassisNumber+"%"))
	}

	if q.ModelYear != "" {
		conds = append(conds, "model_year ILIKE "+arg("%"+q.ModelYear+"%"))
	}

	if q.Maker != "" {
		conds = append(conds, "maker ILIKE "+arg("%"+q.Maker+"%"))
	}

	if q.AuctionNumber != nil {
		conds = append(conds, "auction_number = "+arg(*q.AuctionNumber))
	}

	return conds, args
}

func orderClause(q purchase.ListQuery) string {
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	if q.SortBy == purchase.SortExpiryDate {
		// expiry_date is a text column; order by the parsed date with a
		// fixed created_at tie-break.
		return fmt.Sprintf(" ORDER BY to_date(expiry_date || '-01', 'YYYY-MM-DD') %s, created_at DESC", dir)
	}

	columns := map[purchase.SortKey]string{
		purchase.SortModelYear:    "model_year",
		purchase.SortPurchaseDate: "purchase_date",
		purchase.SortLoadDate:     "load_date",
		purchase.SortETA:          "eta",
	}

	column, ok := columns[q.SortBy]
	if !ok {
		column = "created_at"
	}

	return fmt.Sprintf(" ORDER BY %s %s", column, dir)
}

func (s *Store) Stats(ctx context.Context, now time.Time) (*purchase.Stats, error) {
	stats := &purchase.Stats{
		CountByStatus: make(map[purchase.Status]int64),
		CostByStatus:  make(map[purchase.Status]float64),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(sold_price), 0)
		FROM purchases
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregating status stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status    string
			count     int64
			totalCost float64
			soldPrice float64
		)

		if err := rows.Scan(&status, &count, &totalCost, &soldPrice); err != nil {
			return nil, fmt.Errorf("scanning status stats: %w", err)
		}

		stats.CountByStatus[purchase.Status(status)] = count
		stats.CostByStatus[purchase.Status(status)] = totalCost

		if purchase.Status(status) == purchase.StatusSold {
			stats.SoldRevenue = soldPrice
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status stats: %w", err)
	}

	placeholders := make([]string, len(purchase.ActiveStatuses))
	args := make([]any, 0, len(purchase.ActiveStatuses)+2)

	for i, st := range purchase.ActiveStatuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, string(st))
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	args = append(args, today, today.AddDate(0, 3, 0))

	expiringQuery := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM purchases
		WHERE %s
		  AND status IN (%s)
		  AND to_date(expiry_date || '-01', 'YYYY-MM-DD') BETWEEN $%d AND $%d
	`, parsableExpiry, strings.Join(placeholders, ", "), len(placeholders)+1, len(placeholders)+2)

	if err := s.db.QueryRowContext(ctx, expiringQuery, args...).Scan(&stats.ExpiringSoonCount, &stats.ExpiringSoonCost); err != nil {
		return nil, fmt.Errorf("aggregating expiring-soon stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(sold_price), 0)
		FROM purchases
	`).Scan(&stats.TotalVehicles, &stats.TotalInvestment, &stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("aggregating overall stats: %w", err)
	}

	return stats, nil
}

// mapUniqueViolation remaps a Postgres duplicate-key error to the conflict
// kind. The unique indexes are the correctness backstop when concurrent
// writers race past the application-level duplicate check.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	switch pgErr.ConstraintName {
	case "purchases_chassis_number_key":
		return apierror.Conflict("A vehicle with this chassis number already exists")
	case "purchases_auction_number_key":
		return apierror.Conflict("A purchase with this auction number already exists")
	default:
		return apierror.Conflict("Resource already exists")
	}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: *id, Valid: true}
}
