package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"jargas/internal/core/types"
	"jargas/internal/domain"
	"jargas/internal/domain/discrepancy"
	"jargas/internal/infrastructure/storage/postgres"
)

const notificationsTable = "notifications"

// The per-project advisory lock key puts discrepancyLockSpace in the top 16
// bits and the project id in the low 48, so every project gets its own key.
const (
	discrepancyLockSpace int64 = 0x4a47
	lockProjectBits            = 48
	maxLockedProjectID         = int64(1)<<lockProjectBits - 1
)

func projectLockKey(projectID int64) (int64, error) {
	if projectID <= 0 || projectID > maxLockedProjectID {
		return 0, fmt.Errorf("project id %d out of advisory lock range", projectID)
	}
	return discrepancyLockSpace<<lockProjectBits | projectID, nil
}

// releasedReissue matches stock-outs created by releasing a return.
const releasedReissue = "NOT EXISTS (SELECT 1 FROM returns r WHERE r.reissued_stock_out_id = so.id AND r.is_released)"

// DiscrepancyRepo implements discrepancy.Repository.
type DiscrepancyRepo struct {
	db         postgres.QuerierProvider
	selectCols []string
}

// NewDiscrepancyRepo creates the pair totals and notifications repository.
func NewDiscrepancyRepo(db postgres.QuerierProvider) *DiscrepancyRepo {
	return &DiscrepancyRepo{
		db:         db,
		selectCols: postgres.DBColumns[discrepancy.Notification](),
	}
}

func (r *DiscrepancyRepo) LockProject(ctx context.Context, projectID int64) error {
	key, err := projectLockKey(projectID)
	if err != nil {
		return err
	}
	if _, err := r.db.GetQuerier(ctx).Exec(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
		return fmt.Errorf("lock project %d: %w", projectID, err)
	}
	return nil
}

type pairTotal struct {
	discrepancy.Pair
	Total types.Quantity `db:"total"`
}

func pairQuery(table, alias string, projectID int64) squirrel.SelectBuilder {
	from := table
	if alias != "" {
		from = table + " " + alias
	}
	mandor, material := "mandor_id", "material_id"
	if alias != "" {
		mandor, material = alias+"."+mandor, alias+"."+material
	}

	q := postgres.Builder().
		Select(mandor, material).
		From(from)
	q = postgres.NotDeleted(q, alias)
	q = postgres.ApplyProjectScope(q, alias, &projectID)
	return q.GroupBy(mandor, material)
}

func issuedQuery(projectID int64) squirrel.SelectBuilder {
	return pairQuery("stock_out", "so", projectID).
		Column("COALESCE(SUM(so.quantity), 0) AS total").
		Where(releasedReissue)
}

func installedPairQuery(projectID int64) squirrel.SelectBuilder {
	return pairQuery("installed", "", projectID).
		Column("COALESCE(SUM(quantity), 0) AS total")
}

func pendingReturnsQuery(projectID int64) squirrel.SelectBuilder {
	return pairQuery("returns", "", projectID).
		Column("COALESCE(SUM(quantity_kembali), 0) AS total").
		Where(squirrel.Eq{"is_released": false})
}

func (r *DiscrepancyRepo) sumByPair(ctx context.Context, q squirrel.SelectBuilder) (map[discrepancy.Pair]types.Quantity, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []pairTotal
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, err
	}

	totals := make(map[discrepancy.Pair]types.Quantity, len(rows))
	for _, row := range rows {
		totals[row.Pair] = row.Total
	}
	return totals, nil
}

func (r *DiscrepancyRepo) SumIssuedByPair(ctx context.Context, projectID int64) (map[discrepancy.Pair]types.Quantity, error) {
	return r.sumByPair(ctx, issuedQuery(projectID))
}

func (r *DiscrepancyRepo) SumInstalledByPair(ctx context.Context, projectID int64) (map[discrepancy.Pair]types.Quantity, error) {
	return r.sumByPair(ctx, installedPairQuery(projectID))
}

func (r *DiscrepancyRepo) SumPendingReturnsByPair(ctx context.Context, projectID int64) (map[discrepancy.Pair]types.Quantity, error) {
	return r.sumByPair(ctx, pendingReturnsQuery(projectID))
}

func (r *DiscrepancyRepo) ListByProject(ctx context.Context, projectID int64) ([]discrepancy.Notification, error) {
	sql, args, err := postgres.Builder().
		Select(r.selectCols...).
		From(notificationsTable).
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []discrepancy.Notification
	if err := pgxscan.Select(ctx, r.db.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	return rows, nil
}

func insertNotificationsQuery(rows []discrepancy.Notification) squirrel.InsertBuilder {
	q := postgres.Builder().
		Insert(notificationsTable).
		Columns("project_id", "mandor_id", "material_id", "barang_keluar", "barang_terpasang",
			"selisih", "status", "message", "is_read")
	for _, n := range rows {
		q = q.Values(n.ProjectID, n.MandorID, n.MaterialID, n.BarangKeluar, n.BarangTerpasang,
			n.Selisih, n.Status, n.Message, n.IsRead)
	}
	return q
}

func (r *DiscrepancyRepo) Insert(ctx context.Context, rows []discrepancy.Notification) error {
	if len(rows) == 0 {
		return nil
	}

	sql, args, err := insertNotificationsQuery(rows).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert notifications: %w", err), notificationsTable)
	}
	return nil
}

func updateNotificationQuery(n discrepancy.Notification) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(notificationsTable).
		Set("barang_keluar", n.BarangKeluar).
		Set("barang_terpasang", n.BarangTerpasang).
		Set("selisih", n.Selisih).
		Set("status", n.Status).
		Set("message", n.Message).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": n.ID, "project_id": n.ProjectID})
}

func (r *DiscrepancyRepo) Update(ctx context.Context, rows []discrepancy.Notification) error {
	q := r.db.GetQuerier(ctx)
	for _, n := range rows {
		sql, args, err := updateNotificationQuery(n).ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return postgres.MapError(fmt.Errorf("update notification %d: %w", n.ID, err), notificationsTable)
		}
	}
	return nil
}

func (r *DiscrepancyRepo) Delete(ctx context.Context, projectID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	sql, args, err := postgres.Builder().
		Delete(notificationsTable).
		Where(squirrel.Eq{"project_id": projectID, "id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}

func (r *DiscrepancyRepo) listQuery(f discrepancy.ListFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(r.selectCols...).
		From(notificationsTable).
		Where(squirrel.Eq{"project_id": f.ProjectID})
	if f.UnreadOnly {
		q = q.Where(squirrel.Eq{"is_read": false})
	}
	if f.MandorID != nil {
		q = q.Where(squirrel.Eq{"mandor_id": *f.MandorID})
	}
	q = postgres.ApplyDateRange(q, "created_at", f.DateFrom, f.DateTo)
	return postgres.ApplySearch(q, f.Search, "message")
}

func (r *DiscrepancyRepo) List(ctx context.Context, f discrepancy.ListFilter) (domain.ListResult[*discrepancy.Notification], error) {
	res := domain.ListResult[*discrepancy.Notification]{
		Items:  []*discrepancy.Notification{},
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	orderBy, err := postgres.ParseOrderBy(f.OrderBy, "created_at DESC, id DESC",
		"created_at", "updated_at", "selisih", "id")
	if err != nil {
		return res, err
	}

	q := r.listQuery(f)
	querier := r.db.GetQuerier(ctx)

	countSQL, countArgs, err := postgres.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return res, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&res.TotalCount); err != nil {
		return res, fmt.Errorf("count notifications: %w", err)
	}

	sql, args, err := postgres.ApplyPage(q.OrderBy(orderBy), f.Limit, f.Offset).ToSql()
	if err != nil {
		return res, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &res.Items, sql, args...); err != nil {
		return res, fmt.Errorf("select notifications: %w", err)
	}
	return res, nil
}

func markReadQuery(projectID int64, ids []int64) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(notificationsTable).
		Set("is_read", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"project_id": projectID, "id": ids, "is_read": false})
}

func (r *DiscrepancyRepo) MarkRead(ctx context.Context, projectID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sql, args, err := markReadQuery(projectID, ids).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	tag, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ discrepancy.Repository = (*DiscrepancyRepo)(nil)
