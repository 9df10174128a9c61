package resource

import (
	"testing"

	"backoffice/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func expectColumn(mock sqlmock.Sqlmock, table, column string, exists bool) {
	rows := sqlmock.NewRows([]string{"column_name"})
	if exists {
		rows.AddRow(column)
	}
	mock.ExpectQuery("information_schema\\.columns").WithArgs(table, column).WillReturnRows(rows)
}

func TestSQLStoreInsert_FiltersUnknownColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	// "ghost" is not a column on the table and must be dropped, not rejected
	expectColumn(mock, "customers", "ghost", false)
	expectColumn(mock, "customers", "name", true)

	mock.ExpectExec("INSERT INTO customers").
		WithArgs("Ada").
		WillReturnResult(sqlmock.NewResult(7, 1))

	mock.ExpectQuery("SELECT \\* FROM customers WHERE id = \\?").
		WithArgs("7").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Ada"))

	store := SQLStore{DB: db}
	item, err := store.Insert("customers", map[string]any{"name": "Ada", "ghost": true})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if item["name"] != "Ada" {
		t.Fatalf("unexpected item: %v", item)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLStoreGet_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM customers WHERE id = \\?").
		WithArgs("404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	store := SQLStore{DB: db}
	if _, err := store.Get("customers", "404"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSQLStoreList_SearchAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	// no soft-delete column on this table
	expectColumn(mock, "customers", "deleted_at", false)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM customers WHERE \\(name LIKE \\? OR email LIKE \\?\\)").
		WithArgs("%ada%", "%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT \\* FROM customers WHERE \\(name LIKE \\? OR email LIKE \\?\\) ORDER BY created_at DESC LIMIT \\? OFFSET \\?").
		WithArgs("%ada%", "%ada%", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(1, "Ada", "ada@example.com"))

	store := SQLStore{DB: db}
	items, total, err := store.List("customers", ListQuery{
		Search:       "ada",
		SearchFields: []string{"name", "email"},
		SortBy:       "created_at",
		SortOrder:    "DESC",
		Limit:        20,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total=%d items=%d", total, len(items))
	}
	// byte-slice columns must come back as strings
	if items[0]["name"] != "Ada" {
		t.Fatalf("unexpected row: %v", items[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLStoreDeleteMany_ReportsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM customers WHERE id IN").
		WithArgs("1", "404", "2").
		WillReturnResult(sqlmock.NewResult(0, 2))

	store := SQLStore{DB: db}
	n, err := store.DeleteMany("customers", []string{"1", "404", "2"})
	if err != nil {
		t.Fatalf("delete many: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 affected, got %d", n)
	}
}
