package resource

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"

	"github.com/go-sql-driver/mysql"
)

// SQLStore is the MySQL-backed Store. Payload keys are filtered through
// information_schema probing, so unknown keys are ignored rather than
// rejected, matching the schema-validates-does-not-project contract.
type SQLStore struct {
	DB *sql.DB
}

func (s SQLStore) List(table string, q ListQuery) ([]map[string]any, int, error) {
	where, args := s.buildWhere(table, q)

	var total int
	countQuery := `SELECT COUNT(*) FROM ` + table + where
	if err := s.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM ` + table + where
	if q.SortBy != "" {
		query += ` ORDER BY ` + q.SortBy + ` ` + q.SortOrder
	}
	query += ` LIMIT ? OFFSET ?`
	listArgs := append(append([]any{}, args...), q.Limit, q.Offset)

	rows, err := s.DB.Query(query, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s SQLStore) Get(table string, id string) (map[string]any, error) {
	rows, err := s.DB.Query(`SELECT * FROM `+table+` WHERE id = ? LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NotFoundError{Resource: table}
	}
	return items[0], nil
}

func (s SQLStore) Insert(table string, data map[string]any) (map[string]any, error) {
	cols, vals := s.filterColumns(table, data)
	if len(cols) == 0 {
		return nil, domain.NewValidationError("body", "no storable fields in payload")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	query := `INSERT INTO ` + table + ` (` + strings.Join(cols, ",") + `) VALUES (` + placeholders + `)`
	res, err := s.DB.Exec(query, vals...)
	if err != nil {
		return nil, mapSQLError(table, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.Get(table, fmt.Sprintf("%d", id))
}

func (s SQLStore) InsertMany(table string, items []map[string]any) ([]map[string]any, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		cols, vals := s.filterColumns(table, item)
		if len(cols) == 0 {
			_ = tx.Rollback()
			return nil, domain.NewValidationError("body", "no storable fields in payload")
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
		res, err := tx.Exec(`INSERT INTO `+table+` (`+strings.Join(cols, ",")+`) VALUES (`+placeholders+`)`, vals...)
		if err != nil {
			_ = tx.Rollback()
			return nil, mapSQLError(table, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		item, err := s.Get(table, fmt.Sprintf("%d", id))
		if err != nil {
			return nil, err
		}
		created = append(created, item)
	}
	return created, nil
}

func (s SQLStore) Update(table string, id string, data map[string]any) (map[string]any, error) {
	cols, vals := s.filterColumns(table, data)
	if len(cols) == 0 {
		return s.Get(table, id)
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + "=?"
	}
	vals = append(vals, id)
	if _, err := s.DB.Exec(`UPDATE `+table+` SET `+strings.Join(sets, ",")+` WHERE id = ?`, vals...); err != nil {
		return nil, mapSQLError(table, err)
	}
	return s.Get(table, id)
}

func (s SQLStore) Delete(table string, id string) error {
	_, err := s.DB.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
	return err
}

func (s SQLStore) SoftDelete(table string, id string) error {
	if !intdb.HasColumn(s.DB, table, "deleted_at") {
		return domain.InternalError{Msg: table + " does not support soft delete"}
	}
	_, err := s.DB.Exec(`UPDATE `+table+` SET deleted_at = NOW() WHERE id = ?`, id)
	return err
}

func (s SQLStore) DeleteMany(table string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.DB.Exec(`DELETE FROM `+table+` WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// buildWhere assembles the WHERE clause from equality filters, a full-text
// LIKE search, and the implicit soft-delete filter when the table carries one.
func (s SQLStore) buildWhere(table string, q ListQuery) (string, []any) {
	conds := []string{}
	args := []any{}

	if q.Search != "" && len(q.SearchFields) > 0 {
		like := "%" + q.Search + "%"
		parts := make([]string, len(q.SearchFields))
		for i, f := range q.SearchFields {
			parts[i] = f + " LIKE ?"
			args = append(args, like)
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}

	whereCols := make([]string, 0, len(q.Where))
	for col := range q.Where {
		whereCols = append(whereCols, col)
	}
	sort.Strings(whereCols)
	for _, col := range whereCols {
		conds = append(conds, col+" = ?")
		args = append(args, q.Where[col])
	}

	if intdb.HasColumn(s.DB, table, "deleted_at") {
		conds = append(conds, "deleted_at IS NULL")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// filterColumns keeps only payload keys that exist as columns on the table.
// Keys are sorted so the generated SQL is stable.
func (s SQLStore) filterColumns(table string, data map[string]any) ([]string, []any) {
	keys := make([]string, 0, len(data))
	for key := range data {
		if key == "id" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cols := []string{}
	vals := []any{}
	for _, key := range keys {
		if intdb.HasColumn(s.DB, table, key) {
			cols = append(cols, key)
			vals = append(vals, data[key])
		}
	}
	return cols, vals
}

func mapSQLError(table string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return domain.ConflictError{Resource: table, Msg: "duplicate entry", Err: err}
	}
	return err
}

// scanRows reads arbitrary columns into generic maps, converting byte slices
// to strings so values render as JSON text instead of base64.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		item := make(map[string]any, len(cols))
		for i, col := range cols {
			switch v := vals[i].(type) {
			case []byte:
				item[col] = string(v)
			default:
				item[col] = v
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
