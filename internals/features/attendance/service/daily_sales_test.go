package service

import (
	"testing"
	"time"

	salesModel "canvassers_backend/internals/features/sales/model"
)

func TestDailySalesCounter(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	d1 := time.Date(2024, 5, 1, 22, 30, 0, 0, loc)

	c := NewDailySalesCounter(loc)
	c.Append(salesModel.SaleModel{CustomerName: "a", CreatedAt: d1})
	c.Append(salesModel.SaleModel{CustomerName: "b", CreatedAt: d1.Add(time.Minute)})

	got := c.Get(d1.Add(time.Hour))
	if len(got) != 2 || got[0].CustomerName != "a" || got[1].CustomerName != "b" {
		t.Fatalf("want [a b], got %+v", got)
	}

	// salinan, bukan slice internal
	got[0].CustomerName = "mutated"
	if c.Get(d1)[0].CustomerName != "a" {
		t.Fatal("Get must return a copy")
	}

	// 23:30 UTC = 00:30 WAT hari berikutnya
	next := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	if got := c.Get(next); len(got) != 0 {
		t.Fatalf("want reset at local midnight, got %d", len(got))
	}
	if c.Day() != "2024-05-02" {
		t.Fatalf("day = %s", c.Day())
	}

	c.Replace(next, []salesModel.SaleModel{{CustomerName: "x", CreatedAt: next}})
	if got := c.Get(next); len(got) != 1 {
		t.Fatalf("replace failed: %+v", got)
	}
	c.Clear()
	if got := c.Get(next); len(got) != 0 {
		t.Fatal("clear failed")
	}
}

func TestFeedbackGate(t *testing.T) {
	var g FeedbackGate
	if g.IsSatisfied() {
		t.Fatal("zero gate must be closed")
	}
	g.Satisfy()
	if !g.IsSatisfied() {
		t.Fatal("gate should open after Satisfy")
	}
	g.Reset()
	if g.IsSatisfied() {
		t.Fatal("gate should close after Reset")
	}
}
