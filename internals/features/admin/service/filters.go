package service

import (
	"sort"
	"strings"
	"time"

	"canvassers_backend/internals/features/admin/dto"
	attendanceModel "canvassers_backend/internals/features/attendance/model"
	"canvassers_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// FilterCheckIns menyaring dan mengurutkan check-in. Input tidak diubah.
func FilterCheckIns(rows []attendanceModel.CheckInModel, f dto.CheckInFilter, loc *time.Location) []attendanceModel.CheckInModel {
	f.Normalize()
	suffix := strings.ToLower(f.EmailSuffix)

	out := make([]attendanceModel.CheckInModel, 0, len(rows))
	for _, r := range rows {
		if f.Date != "" && dbtime.DateKey(r.CheckInTime, loc) != f.Date {
			continue
		}
		if f.Branch != "" && !containsFold(r.BranchAddress, f.Branch) {
			continue
		}
		if f.Name != "" && !containsFold(r.Name, f.Name) {
			continue
		}
		if suffix != "" && !strings.HasSuffix(strings.ToLower(r.Email), suffix) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if f.Order == dto.OrderAsc {
			return out[i].CheckInTime.Before(out[j].CheckInTime)
		}
		return out[i].CheckInTime.After(out[j].CheckInTime)
	})
	return out
}

// FilterSales: name cocok ke nama canvasser atau nama customer. Urutan terbaru dulu.
func FilterSales(rows []dto.SaleRow, f dto.SaleFilter, loc *time.Location) []dto.SaleRow {
	f.Normalize()

	out := make([]dto.SaleRow, 0, len(rows))
	for _, r := range rows {
		if f.Date != "" && dbtime.DateKey(r.CreatedAt, loc) != f.Date {
			continue
		}
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.Name != "" && !containsFold(r.UserName, f.Name) && !containsFold(r.CustomerName, f.Name) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// CountCheckInsPerDay: jumlah check-in per tanggal bisnis, urut tanggal naik.
func CountCheckInsPerDay(rows []attendanceModel.CheckInModel, loc *time.Location) []dto.DayCount {
	byDay := map[string]*dto.DayCount{}
	for _, r := range rows {
		key := dbtime.DateKey(r.CheckInTime, loc)
		dc, ok := byDay[key]
		if !ok {
			dc = &dto.DayCount{Date: key}
			byDay[key] = dc
		}
		dc.Total++
		if r.Within400Meters {
			dc.Within++
		} else {
			dc.Outside++
		}
	}

	out := make([]dto.DayCount, 0, len(byDay))
	for _, dc := range byDay {
		out = append(out, *dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CountSalesPerUser: customer unik dihitung dari customer_name (trim, case-insensitive).
func CountSalesPerUser(rows []dto.SaleRow) []dto.UserSalesCount {
	type acc struct {
		count     dto.UserSalesCount
		customers map[string]struct{}
	}
	byUser := map[uuid.UUID]*acc{}
	for _, r := range rows {
		a, ok := byUser[r.UserID]
		if !ok {
			name := r.UserName
			if name == "" {
				name = r.UserID.String()
			}
			a = &acc{
				count:     dto.UserSalesCount{UserID: r.UserID, Name: name},
				customers: map[string]struct{}{},
			}
			byUser[r.UserID] = a
		}
		a.count.Sales++
		a.customers[strings.ToLower(strings.TrimSpace(r.CustomerName))] = struct{}{}
	}

	out := make([]dto.UserSalesCount, 0, len(byUser))
	for _, a := range byUser {
		a.count.UniqueCustomers = len(a.customers)
		out = append(out, a.count)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UniqueCustomers != out[j].UniqueCustomers {
			return out[i].UniqueCustomers > out[j].UniqueCustomers
		}
		return out[i].Name < out[j].Name
	})
	return out
}
