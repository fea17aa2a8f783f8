package service

import (
	"time"

	salesModel "canvassers_backend/internals/features/sales/model"
	"canvassers_backend/internals/helpers/dbtime"
)

// DailySalesCounter menyimpan penjualan hari ini (urutan insert, terbaru di akhir).
// Reset terjadi secara lazy saat tanggal (di zona waktu bisnis) berganti.
// Tidak aman dipakai bersamaan; pemiliknya adalah goroutine Session.
type DailySalesCounter struct {
	loc   *time.Location
	day   string
	sales []salesModel.SaleModel
}

func NewDailySalesCounter(loc *time.Location) *DailySalesCounter {
	return &DailySalesCounter{loc: loc}
}

func (d *DailySalesCounter) roll(t time.Time) {
	if key := dbtime.DateKey(t, d.loc); key != d.day {
		d.day = key
		d.sales = nil
	}
}

func (d *DailySalesCounter) Get(asOf time.Time) []salesModel.SaleModel {
	d.roll(asOf)
	out := make([]salesModel.SaleModel, len(d.sales))
	copy(out, d.sales)
	return out
}

func (d *DailySalesCounter) Append(sale salesModel.SaleModel) {
	d.roll(sale.CreatedAt)
	d.sales = append(d.sales, sale)
}

// Replace mengganti isi hari `day` dengan hasil fetch dari store.
func (d *DailySalesCounter) Replace(day time.Time, sales []salesModel.SaleModel) {
	d.day = dbtime.DateKey(day, d.loc)
	d.sales = append([]salesModel.SaleModel(nil), sales...)
}

func (d *DailySalesCounter) Clear() {
	d.sales = nil
}

func (d *DailySalesCounter) Day() string { return d.day }
