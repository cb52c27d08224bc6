package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepository(t *testing.T) (PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresRepositoryGet(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"array", `[{"nome":"Aveia","tipo":"UNITARIO","total":9.9,"qtd_desc":"1 un","qtd_numerica":2}]`},
		{"wrapped string", `"[{\"nome\":\"Aveia\",\"tipo\":\"UNITARIO\",\"total\":9.9,\"qtd_desc\":\"1 un\",\"qtd_numerica\":2}]"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectQuery(getCartQuery).
				WithArgs("42").
				WillReturnRows(sqlmock.NewRows([]string{ItemsFieldPath}).AddRow(tt.stored))

			items, err := repo.Get(context.Background(), "42")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 1 || items[0].Nome != "Aveia" || items[0].QtdNumerica != 2 || items[0].Total != 9.9 {
				t.Fatalf("unexpected items %+v", items)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestPostgresRepositoryGetMissing(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(getCartQuery).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{ItemsFieldPath}))

	if _, err := repo.Get(context.Background(), "nobody"); !errors.Is(err, ierr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestPostgresRepositoryGetBroken(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(getCartQuery).
		WithArgs("42").
		WillReturnRows(sqlmock.NewRows([]string{ItemsFieldPath}).AddRow(`{not json`))

	_, err := repo.Get(context.Background(), "42")
	if err == nil || errors.Is(err, ierr.NotFound) {
		t.Fatalf("err = %v, want a decode error", err)
	}
}

func TestPostgresRepositoryUpsert(t *testing.T) {
	repo, mock := newMockRepository(t)
	items := []model.CartItem{{Nome: "Whey", Tipo: model.ItemKindUnit, Total: 120, QtdDesc: "1 un", QtdNumerica: 1}}
	want, _ := json.Marshal(items)

	mock.ExpectExec(upsertCartQuery).
		WithArgs("42", string(want), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), "42", items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresRepositoryUpsertFailure(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(upsertCartQuery).WillReturnError(errors.New("connection reset"))

	if err := repo.Upsert(context.Background(), "42", nil); err == nil {
		t.Fatal("expected an error")
	}
}
