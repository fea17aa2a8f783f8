package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"canvassers_backend/internals/features/attendance/dto"
	branchModel "canvassers_backend/internals/features/branches/model"
	branchService "canvassers_backend/internals/features/branches/service"
	"canvassers_backend/internals/features/geo"
	"canvassers_backend/internals/features/notify"
	salesDto "canvassers_backend/internals/features/sales/dto"

	"github.com/google/uuid"
)

type fixture struct {
	store    *memStore
	dir      *staticDirectory
	clock    *fakeClock
	notifier *recordingNotifier
	manager  *Manager
	user     UserInfo
	session  *Session
}

func newFixture(t *testing.T, mutate func(*Policy)) *fixture {
	t.Helper()
	lagos, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		lagos = time.FixedZone("WAT", 3600)
	}

	f := &fixture{
		store: newMemStore(),
		dir: &staticDirectory{branches: []branchModel.BranchModel{
			{ID: uuid.New(), Address: "Near Branch", Lat: 40.0, Long: -74.003},
			{ID: uuid.New(), Address: "Far Branch", Lat: 40.01, Long: -74.0},
		}},
		clock:    &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, lagos)},
		notifier: &recordingNotifier{ch: make(chan notify.OutOfRangeEvent, 4)},
	}
	p := Policy{
		PollInterval:    time.Hour,
		LocationTimeout: time.Second,
		Location:        lagos,
		Now:             f.clock.Now,
	}
	if mutate != nil {
		mutate(&p)
	}
	f.manager = NewManager(f.store, f.dir, f.notifier, p)
	t.Cleanup(f.manager.Close)

	f.user = UserInfo{ID: uuid.New(), Name: "Ada", Email: "ada@axa.ng", SlotLocation: "Near Branch"}
	f.session, err = f.manager.Session(f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func validSale(name string) salesDto.CreateSaleRequest {
	return salesDto.CreateSaleRequest{
		CustomerName:           name,
		CustomerPhone:          "08031234567",
		AXAInsuranceCardSerial: "AXA-" + name,
	}
}

func mustStatus(t *testing.T, s *Session) Snapshot {
	t.Helper()
	snap, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	return snap
}

func TestCheckInWithinRange(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	ev, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0))
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if !ev.Within400Meters {
		t.Fatalf("want within_400_meters=true, distance=%.1f", ev.DistanceToBranch)
	}
	if math.Abs(ev.DistanceToBranch-257) > 5 {
		t.Fatalf("distance = %.1f, want ~257", ev.DistanceToBranch)
	}
	if ev.Within400Meters != (ev.DistanceToBranch <= geo.GeofenceRadiusMeters) {
		t.Fatal("within flag disagrees with distance")
	}
	if !ev.CheckInTime.Equal(f.clock.Now()) {
		t.Fatalf("check-in time must be server time, got %v", ev.CheckInTime)
	}
	if ev.Branch.Data().Address != "Near Branch" || ev.BranchAddress != "Near Branch" {
		t.Fatalf("branch snapshot not recorded: %+v", ev.Branch.Data())
	}

	snap := mustStatus(t, f.session)
	if snap.State != StateCheckedIn || snap.FeedbackSubmitted {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.OpenCheckIn == nil || snap.OpenCheckIn.ID != ev.ID {
		t.Fatal("open check-in missing from snapshot")
	}
}

func TestCheckInOutsideRangeIsAdvisory(t *testing.T) {
	f := newFixture(t, nil)
	f.user.SlotLocation = "far branch"

	ev, err := f.session.CheckIn(context.Background(), f.user, at(40.0, -74.0))
	if err != nil {
		t.Fatalf("advisory policy must allow check-in: %v", err)
	}
	if ev.Within400Meters {
		t.Fatalf("want within_400_meters=false at %.1f m", ev.DistanceToBranch)
	}
	if math.Abs(ev.DistanceToBranch-1112) > 10 {
		t.Fatalf("distance = %.1f, want ~1112", ev.DistanceToBranch)
	}

	select {
	case n := <-f.notifier.ch:
		if n.BranchAddress != "Far Branch" || n.Email != "ada@axa.ng" {
			t.Fatalf("unexpected notification: %+v", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("out-of-range check-in was not notified")
	}
}

func TestCheckInOutsideRangeEnforced(t *testing.T) {
	f := newFixture(t, func(p *Policy) { p.EnforceGeofence = true })
	f.user.SlotLocation = "Far Branch"

	_, err := f.session.CheckIn(context.Background(), f.user, at(40.0, -74.0))
	if !errors.Is(err, ErrOutsideGeofence) {
		t.Fatalf("want ErrOutsideGeofence, got %v", err)
	}
	if n, _, _, _, _ := f.store.counts(); n != 0 {
		t.Fatalf("rejected check-in must not be persisted, got %d rows", n)
	}
	if snap := mustStatus(t, f.session); snap.State != StateCheckedOut {
		t.Fatalf("state = %s, want CHECKED_OUT", snap.State)
	}
}

func TestCheckInTwiceFails(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	_, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0))
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("want ErrAlreadyCheckedIn, got %v", err)
	}
	if n, _, _, _, _ := f.store.counts(); n != 1 {
		t.Fatalf("want exactly one check-in row, got %d", n)
	}
}

func TestCheckInPreconditionOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// cabang dicek sebelum lokasi
	f.user.SlotLocation = "Nowhere"
	if _, err := f.session.CheckIn(ctx, f.user, noLocation); !errors.Is(err, branchService.ErrBranchNotFound) {
		t.Fatalf("want ErrBranchNotFound, got %v", err)
	}

	f.user.SlotLocation = "Near Branch"
	if _, err := f.session.CheckIn(ctx, f.user, noLocation); !errors.Is(err, geo.ErrLocationUnavailable) {
		t.Fatalf("want ErrLocationUnavailable, got %v", err)
	}
	if snap := mustStatus(t, f.session); snap.State != StateCheckedOut {
		t.Fatalf("failed check-in changed state to %s", snap.State)
	}
}

func TestCheckInLocatorTimeout(t *testing.T) {
	f := newFixture(t, func(p *Policy) { p.LocationTimeout = 20 * time.Millisecond })

	never := geo.LocatorFunc(func(ctx context.Context) (geo.Coordinate, error) {
		<-ctx.Done()
		return geo.Coordinate{}, ctx.Err()
	})
	_, err := f.session.CheckIn(context.Background(), f.user, never)
	if !errors.Is(err, geo.ErrLocationUnavailable) {
		t.Fatalf("want ErrLocationUnavailable, got %v", err)
	}
}

func TestBranchCacheRefreshesOnMiss(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.user.SlotLocation = "New Branch"

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); !errors.Is(err, branchService.ErrBranchNotFound) {
		t.Fatalf("want ErrBranchNotFound, got %v", err)
	}

	f.dir.mu.Lock()
	f.dir.branches = append(f.dir.branches, branchModel.BranchModel{ID: uuid.New(), Address: "New Branch", Lat: 40.0, Long: -74.0})
	f.dir.mu.Unlock()

	ev, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0))
	if err != nil {
		t.Fatalf("check-in after branch added: %v", err)
	}
	if ev.DistanceToBranch != 0 || !ev.Within400Meters {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestCheckOutRequiresFeedback(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}

	_, err := f.session.CheckOut(ctx, at(40.0, -74.0))
	if !errors.Is(err, ErrFeedbackRequired) {
		t.Fatalf("want ErrFeedbackRequired, got %v", err)
	}
	if _, amends, _, _, _ := f.store.counts(); amends != 0 {
		t.Fatal("blocked checkout must not touch the store")
	}
	if snap := mustStatus(t, f.session); snap.State != StateCheckedIn {
		t.Fatalf("state = %s, want CHECKED_IN", snap.State)
	}
}

func TestCheckOutWhenNotCheckedIn(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.session.CheckOut(context.Background(), at(40.0, -74.0)); !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("want ErrNotCheckedIn, got %v", err)
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.session.SubmitFeedback(ctx, dto.FeedbackRequest{Sales: "3"}); !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("want ErrNotCheckedIn before check-in, got %v", err)
	}

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}

	for _, sales := range []string{"", "   "} {
		_, err := f.session.SubmitFeedback(ctx, dto.FeedbackRequest{Sales: sales, Remark: "slow day"})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("sales=%q: want ValidationError, got %v", sales, err)
		}
		if _, ok := ve.Fields["sales"]; !ok {
			t.Fatalf("want error on sales field, got %v", ve.Fields)
		}
	}
	if snap := mustStatus(t, f.session); snap.FeedbackSubmitted {
		t.Fatal("rejected feedback must not satisfy the gate")
	}
	if _, _, _, fb, _ := f.store.counts(); fb != 0 {
		t.Fatal("rejected feedback must not be persisted")
	}
}

func TestRecordSaleRequiresCheckIn(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.session.RecordSale(ctx, validSale("Bola")); !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("want ErrNotCheckedIn, got %v", err)
	}

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	bad := validSale("Bola")
	bad.CustomerPhone = " "
	_, err := f.session.RecordSale(ctx, bad)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if _, _, sales, _, _ := f.store.counts(); sales != 0 {
		t.Fatal("invalid sale must not be persisted")
	}
}

func TestStoreErrorLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.store.mu.Lock()
	f.store.failInsertCheckIn = errBackendDown
	f.store.mu.Unlock()

	_, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0))
	var se *StoreError
	if !errors.As(err, &se) || !errors.Is(err, errBackendDown) {
		t.Fatalf("want StoreError wrapping backend error, got %v", err)
	}
	if snap := mustStatus(t, f.session); snap.State != StateCheckedOut {
		t.Fatalf("state = %s after failed insert", snap.State)
	}

	f.store.mu.Lock()
	f.store.failInsertCheckIn = nil
	f.store.failInsertSale = errBackendDown
	f.store.mu.Unlock()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatalf("retry check-in: %v", err)
	}
	if _, err := f.session.RecordSale(ctx, validSale("Bola")); !errors.As(err, &se) {
		t.Fatalf("want StoreError, got %v", err)
	}
	if snap := mustStatus(t, f.session); snap.SalesCount != 0 {
		t.Fatalf("failed sale must not be counted, got %d", snap.SalesCount)
	}
}

func TestHappyPath(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Bola", "Chidi"} {
		f.clock.Set(f.clock.Now().Add(30 * time.Minute))
		if _, err := f.session.RecordSale(ctx, validSale(name)); err != nil {
			t.Fatalf("sale %s: %v", name, err)
		}
	}
	if _, err := f.session.SubmitFeedback(ctx, dto.FeedbackRequest{Sales: "2", Remark: "good", Challenges: "rain"}); err != nil {
		t.Fatal(err)
	}
	if snap := mustStatus(t, f.session); !snap.FeedbackSubmitted {
		t.Fatal("gate should be satisfied after feedback")
	}

	f.clock.Set(f.clock.Now().Add(time.Hour))
	out, err := f.session.CheckOut(ctx, at(40.001, -74.0))
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if out.CheckOutTime == nil || !out.CheckOutTime.Equal(f.clock.Now()) {
		t.Fatalf("checkout time not recorded: %v", out.CheckOutTime)
	}
	if out.CheckOutDistanceToBranch == nil || out.IsWithin400m == nil {
		t.Fatal("checkout distance not recomputed")
	}
	want := geo.DistanceMeters(geo.Coordinate{Latitude: 40.001, Longitude: -74.0}, geo.Coordinate{Latitude: 40.0, Longitude: -74.003})
	if math.Abs(*out.CheckOutDistanceToBranch-want) > 1e-6 {
		t.Fatalf("checkout distance = %.2f, want %.2f", *out.CheckOutDistanceToBranch, want)
	}
	if *out.IsWithin400m != (want <= geo.GeofenceRadiusMeters) {
		t.Fatal("checkout within flag disagrees with distance")
	}
	if len(out.Feedback) == 0 {
		t.Fatal("feedback payload missing from checkout amendment")
	}

	snap := mustStatus(t, f.session)
	if snap.State != StateCheckedOut {
		t.Fatalf("state = %s, want CHECKED_OUT", snap.State)
	}
	if snap.SalesCount != 2 || snap.DailySales[0].CustomerName != "Bola" || snap.DailySales[1].CustomerName != "Chidi" {
		t.Fatalf("want 2 sales in insertion order, got %+v", snap.DailySales)
	}
	if _, amends, _, _, _ := f.store.counts(); amends != 1 {
		t.Fatalf("want one checkout amendment, got %d", amends)
	}
}

func TestCheckOutClearsSalesWhenConfigured(t *testing.T) {
	f := newFixture(t, func(p *Policy) { p.ClearSalesOnCheckout = true })
	ctx := context.Background()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.session.RecordSale(ctx, validSale("Bola")); err != nil {
		t.Fatal(err)
	}
	if _, err := f.session.SubmitFeedback(ctx, dto.FeedbackRequest{Sales: "1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.session.CheckOut(ctx, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	if snap := mustStatus(t, f.session); snap.SalesCount != 0 {
		t.Fatalf("want sales cleared on checkout, got %d", snap.SalesCount)
	}
}

func TestCheckOutFallsBackToLastCoordinate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.session.SubmitFeedback(ctx, dto.FeedbackRequest{Sales: "0"}); err != nil {
		t.Fatal(err)
	}
	out, err := f.session.CheckOut(ctx, noLocation)
	if err != nil {
		t.Fatalf("checkout with last known coordinate: %v", err)
	}
	if math.Abs(*out.CheckOutDistanceToBranch-out.DistanceToBranch) > 1e-9 {
		t.Fatalf("fallback should reuse check-in coordinate: %.2f vs %.2f", *out.CheckOutDistanceToBranch, out.DistanceToBranch)
	}
}

func TestCheckOutUsesStoredLocationAfterHydrate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// check-in dari instance lain, sesi ini belum pernah melihat koordinat
	m2 := NewManager(f.store, f.dir, nil, Policy{PollInterval: time.Hour, Location: f.clock.Now().Location(), Now: f.clock.Now})
	defer m2.Close()
	s2, _ := m2.Session(f.user.ID)
	if _, err := s2.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	if _, err := s2.SubmitFeedback(ctx, dto.FeedbackRequest{Sales: "0"}); err != nil {
		t.Fatal(err)
	}

	// hydrate mengambil koordinat dari check-in yang tersimpan
	out, err := f.session.CheckOut(ctx, noLocation)
	if err != nil {
		t.Fatalf("hydrated session should fall back to stored location: %v", err)
	}
	if out.CheckOutTime == nil {
		t.Fatal("checkout not recorded")
	}
}

func TestDailySalesResetNextDay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"Bola", "Chidi"} {
		if _, err := f.session.RecordSale(ctx, validSale(n)); err != nil {
			t.Fatal(err)
		}
	}
	if got, _ := f.session.DailySales(ctx); len(got) != 2 {
		t.Fatalf("want 2 sales today, got %d", len(got))
	}

	f.clock.Set(f.clock.Now().Add(24 * time.Hour))
	got, err := f.session.DailySales(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty sales on D+1, got %d", len(got))
	}
}

func TestHydrateFromStore(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.session.RecordSale(ctx, validSale("Bola")); err != nil {
		t.Fatal(err)
	}
	if _, err := f.session.SubmitFeedback(ctx, dto.FeedbackRequest{Sales: "1"}); err != nil {
		t.Fatal(err)
	}

	// logout/login: sesi baru harus membaca state dari store
	f.manager.Forget(f.user.ID)
	s, err := f.manager.Session(f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	snap := mustStatus(t, s)
	if snap.State != StateCheckedIn || !snap.FeedbackSubmitted || snap.SalesCount != 1 {
		t.Fatalf("rehydrated snapshot wrong: %+v", snap)
	}
	if _, err := s.CheckOut(ctx, at(40.0, -74.0)); err != nil {
		t.Fatalf("checkout after rehydrate: %v", err)
	}
}

func TestConflictFromOtherInstanceRehydrates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// status dulu supaya sesi ini sudah ter-hydrate sebagai CHECKED_OUT
	mustStatus(t, f.session)

	m2 := NewManager(f.store, f.dir, nil, Policy{PollInterval: time.Hour, Location: f.clock.Now().Location(), Now: f.clock.Now})
	defer m2.Close()
	s2, _ := m2.Session(f.user.ID)
	if _, err := s2.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("want ErrAlreadyCheckedIn from store conflict, got %v", err)
	}
	if snap := mustStatus(t, f.session); snap.State != StateCheckedIn {
		t.Fatalf("session should rehydrate to CHECKED_IN, got %s", snap.State)
	}
}

func TestPeriodicSalesRefresh(t *testing.T) {
	f := newFixture(t, func(p *Policy) { p.PollInterval = 10 * time.Millisecond })
	ctx := context.Background()

	if _, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	_, _, _, _, before := f.store.counts()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, _, _, _, n := f.store.counts(); n >= before+2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("sales were not refreshed by the poll ticker while checked in")
}

func TestManagerClose(t *testing.T) {
	f := newFixture(t, nil)
	f.manager.Close()

	if _, err := f.manager.Session(uuid.New()); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("want ErrSessionClosed, got %v", err)
	}
	if _, err := f.session.Status(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("closed session should reject commands, got %v", err)
	}
}

func waitLen(t *testing.T, m *Manager, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Len() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("manager holds %d sessions, want %d", m.Len(), want)
}

func TestIdleSessionIsReleased(t *testing.T) {
	f := newFixture(t, func(p *Policy) {
		p.PollInterval = 10 * time.Millisecond
		p.IdleTimeout = time.Minute
	})
	ctx := context.Background()

	mustStatus(t, f.session)
	f.clock.Set(f.clock.Now().Add(2 * time.Minute))
	waitLen(t, f.manager, 0)

	if _, err := f.session.Status(ctx); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("released session should reject commands, got %v", err)
	}
	err := f.manager.With(f.user.ID, func(s *Session) error {
		_, err := s.CheckIn(ctx, f.user, at(40.0, -74.0))
		return err
	})
	if err != nil {
		t.Fatalf("check-in after release: %v", err)
	}
	if f.manager.Len() != 1 {
		t.Fatalf("want a fresh session, have %d", f.manager.Len())
	}
}

func TestCheckedInSessionIsKept(t *testing.T) {
	f := newFixture(t, func(p *Policy) {
		p.PollInterval = 10 * time.Millisecond
		p.IdleTimeout = time.Minute
	})
	if _, err := f.session.CheckIn(context.Background(), f.user, at(40.0, -74.0)); err != nil {
		t.Fatal(err)
	}
	f.clock.Set(f.clock.Now().Add(2 * time.Hour))
	time.Sleep(100 * time.Millisecond)

	if f.manager.Len() != 1 {
		t.Fatal("checked-in session must stay registered")
	}
	if snap := mustStatus(t, f.session); snap.State != StateCheckedIn {
		t.Fatalf("state = %s", snap.State)
	}
}

func TestWithRetriesOnClosedSession(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	attempts := 0
	err := f.manager.With(f.user.ID, func(s *Session) error {
		attempts++
		if attempts == 1 {
			f.manager.Forget(f.user.ID)
		}
		_, err := s.Status(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}

	f.manager.Close()
	err = f.manager.With(f.user.ID, func(s *Session) error { return nil })
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("closed manager: want ErrSessionClosed, got %v", err)
	}
}

func TestConcurrentCheckInsCreateOneEvent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := f.session.CheckIn(ctx, f.user, at(40.0, -74.0))
			errs <- err
		}()
	}
	ok := 0
	for i := 0; i < n; i++ {
		err := <-errs
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyCheckedIn):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("want exactly one successful check-in, got %d", ok)
	}
	if rows, _, _, _, _ := f.store.counts(); rows != 1 {
		t.Fatalf("want one stored check-in, got %d", rows)
	}
}
