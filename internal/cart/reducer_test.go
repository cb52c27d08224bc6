package cart

import (
	"testing"

	"hema-storefront/internal/model"
)

func item(nome string, price float64, qty int) model.CartItem {
	return model.CartItem{Nome: nome, Tipo: model.ItemKindUnit, Total: price, QtdDesc: model.DefaultQuantityDesc, QtdNumerica: qty}
}

func TestReduceAddSameNameIncrements(t *testing.T) {
	items := Reduce(nil, Action{Kind: ActionAdd, Item: item("Aveia", 9.9, 1)})
	// the incoming quantity is ignored for an existing name
	items = Reduce(items, Action{Kind: ActionAdd, Item: item("Aveia", 9.9, 5)})

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].QtdNumerica != 2 {
		t.Fatalf("qty = %d, want 2", items[0].QtdNumerica)
	}
}

func TestReduceAddNewAppendsUnchanged(t *testing.T) {
	items := Reduce([]model.CartItem{item("Aveia", 9.9, 1)}, Action{Kind: ActionAdd, Item: item("Whey", 120, 3)})
	if len(items) != 2 || items[1] != item("Whey", 120, 3) {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestReduceQuantityFloor(t *testing.T) {
	items := []model.CartItem{item("Aveia", 9.9, 2), item("Whey", 120, 1)}

	items = Reduce(items, Action{Kind: ActionDecrease, Nome: "Aveia"})
	items = Reduce(items, Action{Kind: ActionDecrease, Nome: "Aveia"})
	items = Reduce(items, Action{Kind: ActionDecrease, Nome: "Aveia"})
	if len(items) != 2 || items[0].QtdNumerica != 1 {
		t.Fatalf("decrease must stop at 1 and keep the item: %+v", items)
	}

	items = Reduce(items, Action{Kind: ActionIncrease, Nome: "Whey"})
	if items[1].QtdNumerica != 2 {
		t.Fatalf("qty = %d, want 2", items[1].QtdNumerica)
	}

	same := Reduce(items, Action{Kind: ActionIncrease, Nome: "missing"})
	if Count(same) != Count(items) {
		t.Fatal("unknown name changed the cart")
	}
}

func TestReduceRemoveAndClear(t *testing.T) {
	items := []model.CartItem{item("Aveia", 9.9, 2), item("Whey", 120, 1)}

	removed := Reduce(items, Action{Kind: ActionRemove, Nome: "Aveia"})
	if len(removed) != 1 || removed[0].Nome != "Whey" {
		t.Fatalf("unexpected items %+v", removed)
	}

	cleared := Reduce(items, Action{Kind: ActionClear})
	if cleared == nil || len(cleared) != 0 {
		t.Fatalf("clear should yield an empty list, got %#v", cleared)
	}
}

func TestReduceDoesNotModifyInput(t *testing.T) {
	items := []model.CartItem{item("Aveia", 9.9, 1)}
	Reduce(items, Action{Kind: ActionAdd, Item: item("Aveia", 9.9, 1)})
	Reduce(items, Action{Kind: ActionIncrease, Nome: "Aveia"})

	if items[0].QtdNumerica != 1 {
		t.Fatalf("input was modified: %+v", items)
	}
}

func TestCount(t *testing.T) {
	if Count(nil) != 0 {
		t.Fatal("empty cart should count 0")
	}
	if n := Count([]model.CartItem{item("a", 1, 2), item("b", 1, 3)}); n != 5 {
		t.Fatalf("count = %d, want 5", n)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(" Increase"); err != nil || d != Increase {
		t.Fatalf("got %q %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestItemFromProduct(t *testing.T) {
	it := ItemFromProduct(model.Product{Id: "1", Name: "Aveia", Price: 9.9, ImageUrl: "a.png"})
	want := model.CartItem{Nome: "Aveia", Tipo: "UNITARIO", Total: 9.9, QtdDesc: "1 un", QtdNumerica: 1, ImageUrl: "a.png"}
	if it != want {
		t.Fatalf("got %+v", it)
	}
}
