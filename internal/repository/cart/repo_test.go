package cart

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"hema-storefront/internal/database"
	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

func TestDecodeItemsField(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"missing", nil, 0},
		{"json text", `[{"nome":"Aveia","qtd_numerica":2},{"nome":"Whey","qtd_numerica":1}]`, 2},
		{"native array", []interface{}{
			map[string]interface{}{"nome": "Aveia", "tipo": "UNITARIO", "total": 9.9, "qtd_desc": "1 un", "qtd_numerica": int64(3)},
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeItemsField(tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if items == nil || len(items) != tt.want {
				t.Fatalf("got %#v", items)
			}
		})
	}

	items, _ := decodeItemsField([]interface{}{map[string]interface{}{"nome": "Aveia", "qtd_numerica": int64(3)}})
	if items[0].QtdNumerica != 3 {
		t.Fatalf("quantity = %d, want 3", items[0].QtdNumerica)
	}

	if _, err := decodeItemsField("[{"); err == nil {
		t.Fatal("expected a decode error")
	}
}

// newEmulatorClient connects to a local firestore emulator, the only way to get real
// document snapshots in a test.
func newEmulatorClient(t *testing.T) database.FirestoreClient {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "hema-test")
	if err != nil {
		t.Fatalf("firestore client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return database.New(client, 5*time.Second)
}

func TestCartRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newEmulatorClient(t)
	repo := New(db)
	customer := uuid.NewString()

	if _, err := repo.Get(ctx, customer); !errors.Is(err, ierr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	items := []model.CartItem{{Nome: "Granola", Tipo: model.ItemKindUnit, Total: 25.5, QtdDesc: "1 un", QtdNumerica: 2}}
	if err := repo.Upsert(ctx, customer, items); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.Get(ctx, customer)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0] != items[0] {
		t.Fatalf("got %+v, want %+v", got, items)
	}

	// another client stored the items as a native array
	_, err = db.SetDoc(ctx, db.Collection(cartNode).Doc(customer), map[string]interface{}{
		ItemsFieldPath: []interface{}{map[string]interface{}{"nome": "Mel", "qtd_numerica": 4}},
	})
	if err != nil {
		t.Fatalf("set doc: %v", err)
	}
	got, err = repo.Get(ctx, customer)
	if err != nil || len(got) != 1 || got[0].Nome != "Mel" || got[0].QtdNumerica != 4 {
		t.Fatalf("got %+v, err %v", got, err)
	}
}
