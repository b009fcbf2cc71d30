package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func product(id string, price int64) Item {
	return Item{
		ID:    ItemID(id),
		URL:   "san-pham-" + id,
		Name:  "Sản phẩm " + id,
		Image: "https://cdn.test/" + id + ".jpg",
		Price: decimal.NewFromInt(price),
	}
}

func TestAddMergesSameID(t *testing.T) {
	s := Empty()
	s = Add(s, product("1", 100000), 1)
	s = Add(s, product("1", 100000), 2)

	if len(s.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(s.Items))
	}
	if s.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", s.Items[0].Quantity)
	}
	if want := decimal.NewFromInt(300000); !Total(s).Equal(want) {
		t.Fatalf("expected total %s, got %s", want, Total(s))
	}
	if Count(s) != 3 {
		t.Fatalf("expected count 3, got %d", Count(s))
	}
}

func TestAddKeepsFirstPriceSnapshot(t *testing.T) {
	s := Add(Empty(), product("1", 100), 1)
	s = Add(s, product("1", 250), 1)
	if !s.Items[0].Price.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected price snapshot to stay at 100, got %s", s.Items[0].Price)
	}
}

func TestAddClampsQuantityBelowOne(t *testing.T) {
	s := Add(Empty(), product("1", 10), 0)
	if s.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", s.Items[0].Quantity)
	}
	s = Add(s, product("1", 10), -5)
	if s.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", s.Items[0].Quantity)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s := Add(Empty(), product("b", 1), 1)
	s = Add(s, product("a", 1), 1)
	s = Add(s, product("b", 1), 1)
	if s.Items[0].ID != "b" || s.Items[1].ID != "a" {
		t.Fatalf("unexpected order %+v", s.Items)
	}
}

func TestSetQuantityClampsToOne(t *testing.T) {
	s := Add(Empty(), product("1", 10), 4)
	for _, q := range []int{0, -3} {
		got := SetQuantity(s, "1", q)
		if got.Items[0].Quantity != 1 {
			t.Fatalf("SetQuantity(%d) stored %d", q, got.Items[0].Quantity)
		}
	}
	if got := SetQuantity(s, "1", 9); got.Items[0].Quantity != 9 {
		t.Fatalf("expected 9, got %d", got.Items[0].Quantity)
	}
}

func TestSetQuantityUnknownIDIsNoop(t *testing.T) {
	s := Add(Empty(), product("1", 10), 2)
	got := SetQuantity(s, "404", 7)
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected state %+v", got.Items)
	}
}

func TestRemoveUnknownIDLeavesCartUnchanged(t *testing.T) {
	s := Add(Empty(), product("1", 100), 1)
	s = Add(s, product("2", 50), 2)
	before := Total(s)

	got := Remove(s, "3")
	if len(got.Items) != 2 {
		t.Fatalf("expected two items, got %d", len(got.Items))
	}
	if !Total(got).Equal(before) {
		t.Fatalf("expected total %s, got %s", before, Total(got))
	}

	got = Remove(got, "1")
	if len(got.Items) != 1 || got.Items[0].ID != "2" {
		t.Fatalf("expected only item 2 left, got %+v", got.Items)
	}
}

func TestClearZeroesTotals(t *testing.T) {
	s := Add(Empty(), product("1", 100), 3)
	s = Clear(s)
	if !Total(s).IsZero() || Count(s) != 0 {
		t.Fatalf("expected empty totals, got total=%s count=%d", Total(s), Count(s))
	}
}

func TestTotalIsExactForFractionalPrices(t *testing.T) {
	s := Empty()
	for i := 0; i < 10; i++ {
		item := product(string(rune('a'+i)), 0)
		item.Price = decimal.RequireFromString("0.1")
		s = Add(s, item, 1)
	}
	if !Total(s).Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected exactly 1, got %s", Total(s))
	}
}

func TestMutationsDoNotAliasPreviousState(t *testing.T) {
	s1 := Add(Empty(), product("1", 10), 1)
	s2 := SetQuantity(s1, "1", 5)
	if s1.Items[0].Quantity != 1 {
		t.Fatalf("previous snapshot was mutated: %+v", s1.Items)
	}
	_ = Add(s2, product("2", 10), 1)
	if len(s2.Items) != 1 {
		t.Fatalf("previous snapshot grew: %+v", s2.Items)
	}
}

func TestItemIDAcceptsNumbersAndStrings(t *testing.T) {
	var items []Item
	raw := `[{"id":12,"price":"5","quantity":1},{"id":"12","price":5,"quantity":2},{"id":" 7 ","price":1,"quantity":1}]`
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if items[0].ID != items[1].ID {
		t.Fatalf("numeric and string ids should compare equal: %q vs %q", items[0].ID, items[1].ID)
	}
	if items[2].ID != "7" {
		t.Fatalf("expected trimmed id, got %q", items[2].ID)
	}

	merged := Normalize(State{Items: items})
	if len(merged.Items) != 2 || merged.Items[0].Quantity != 3 {
		t.Fatalf("expected duplicates merged, got %+v", merged.Items)
	}
}

func TestReduce(t *testing.T) {
	s := Empty()
	s = Reduce(s, AddItem{Item: product("1", 100000), Quantity: 1})
	s = Reduce(s, AddItem{Item: product("2", 5000), Quantity: 2})
	s = Reduce(s, UpdateQuantity{ID: "1", Quantity: 0})
	s = Reduce(s, RemoveItem{ID: "2"})
	if len(s.Items) != 1 || s.Items[0].Quantity != 1 {
		t.Fatalf("unexpected state %+v", s.Items)
	}
	s = Reduce(s, struct{}{})
	if len(s.Items) != 1 {
		t.Fatalf("unknown action should be ignored")
	}
	s = Reduce(s, ClearCart{})
	if len(s.Items) != 0 {
		t.Fatalf("expected cleared cart")
	}
}

func TestSubtractLeavesLinesAddedAfterTheOrder(t *testing.T) {
	ordered := Add(Add(Empty(), product("1", 100), 2), product("2", 50), 1)
	current := Add(Add(ordered, product("1", 100), 3), product("3", 10), 1)

	s := Reduce(current, RemoveOrdered{Items: ordered.Items})
	if len(s.Items) != 2 {
		t.Fatalf("expected two remaining lines, got %+v", s.Items)
	}
	if s.Items[0].ID != "1" || s.Items[0].Quantity != 3 {
		t.Fatalf("expected the extra quantity of 1 to stay, got %+v", s.Items[0])
	}
	if s.Items[1].ID != "3" {
		t.Fatalf("expected the new line to stay, got %+v", s.Items[1])
	}
	if again := Subtract(Empty(), ordered.Items); len(again.Items) != 0 {
		t.Fatalf("subtracting from an empty cart should stay empty")
	}
}
