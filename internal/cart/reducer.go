package cart

import (
	"fmt"
	"strings"

	"hema-storefront/internal/model"
)

type ActionKind int

const (
	ActionAdd ActionKind = iota
	ActionIncrease
	ActionDecrease
	ActionRemove
	ActionClear
)

// Action is one cart transition. Item is used by ActionAdd, Nome by the
// quantity and remove actions.
type Action struct {
	Kind ActionKind
	Item model.CartItem
	Nome string
}

// Direction of a quantity change as sent by clients.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Increase, Decrease:
		return d, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

func (d Direction) action(nome string) Action {
	if d == Increase {
		return Action{Kind: ActionIncrease, Nome: nome}
	}
	return Action{Kind: ActionDecrease, Nome: nome}
}

// Reduce applies a to items and returns the new list. items is never modified.
func Reduce(items []model.CartItem, a Action) []model.CartItem {
	switch a.Kind {
	case ActionAdd:
		for i, item := range items {
			if item.Nome == a.Item.Nome {
				next := clone(items)
				next[i].QtdNumerica = item.QtdNumerica + 1
				return next
			}
		}
		return append(clone(items), a.Item)

	case ActionIncrease, ActionDecrease:
		next := clone(items)
		for i := range next {
			if next[i].Nome != a.Nome {
				continue
			}
			qty := next[i].QtdNumerica + 1
			if a.Kind == ActionDecrease {
				qty = next[i].QtdNumerica - 1
			}
			if qty < 1 {
				qty = 1
			}
			next[i].QtdNumerica = qty
		}
		return next

	case ActionRemove:
		next := make([]model.CartItem, 0, len(items))
		for _, item := range items {
			if item.Nome != a.Nome {
				next = append(next, item)
			}
		}
		return next

	case ActionClear:
		return []model.CartItem{}
	}
	return clone(items)
}

// Count is the number of units in the cart.
func Count(items []model.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.QtdNumerica
	}
	return n
}

// ItemFromProduct builds the line item added by the storefront for p.
func ItemFromProduct(p model.Product) model.CartItem {
	return model.CartItem{
		Nome:        p.Name,
		Tipo:        model.ItemKindUnit,
		Total:       p.Price,
		QtdDesc:     model.DefaultQuantityDesc,
		QtdNumerica: 1,
		ImageUrl:    p.ImageUrl,
	}
}

func clone(items []model.CartItem) []model.CartItem {
	next := make([]model.CartItem, len(items))
	copy(next, items)
	return next
}
