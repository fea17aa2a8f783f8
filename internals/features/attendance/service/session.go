package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"canvassers_backend/internals/features/attendance/dto"
	"canvassers_backend/internals/features/attendance/model"
	branchModel "canvassers_backend/internals/features/branches/model"
	branchService "canvassers_backend/internals/features/branches/service"
	"canvassers_backend/internals/features/geo"
	"canvassers_backend/internals/features/notify"
	salesDto "canvassers_backend/internals/features/sales/dto"
	salesModel "canvassers_backend/internals/features/sales/model"
	helper "canvassers_backend/internals/helpers"
	"canvassers_backend/internals/helpers/dbtime"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type State string

const (
	StateCheckedOut State = "CHECKED_OUT"
	StateCheckedIn  State = "CHECKED_IN"
)

var errSessionPanic = errors.New("internal error in attendance session")

// UserInfo: data user yang dibutuhkan saat check-in.
type UserInfo struct {
	ID           uuid.UUID
	Name         string
	Email        string
	SlotLocation string
}

type Snapshot struct {
	State             State                  `json:"state"`
	FeedbackSubmitted bool                   `json:"feedback_submitted"`
	OpenCheckIn       *model.CheckInModel    `json:"open_check_in,omitempty"`
	DailySales        []salesModel.SaleModel `json:"daily_sales"`
	SalesCount        int                    `json:"sales_count"`
	Date              string                 `json:"date"`
}

type feedbackPayload struct {
	Sales      string `json:"sales"`
	Remark     string `json:"remark"`
	Challenges string `json:"challenges"`
}

type deps struct {
	store    Store
	branches branchService.Directory
	notifier notify.Notifier
	policy   Policy
	// evict melepas sesi dari Manager; false kalau sesi sudah tidak terdaftar
	evict func(*Session) bool
}

// Session adalah state attendance satu user. Semua state di bawah hanya disentuh
// oleh goroutine loop; method publik mengirim perintah lewat cmds dan menunggu hasilnya.
type Session struct {
	userID uuid.UUID
	deps   *deps

	cmds      chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	lastUsed  time.Time
	hydrated  bool
	state     State
	open      *model.CheckInModel
	gate      FeedbackGate
	feedback  *model.FeedbackModel
	sales     *DailySalesCounter
	lastCoord *geo.Coordinate
	branches  []branchModel.BranchModel
}

func newSession(userID uuid.UUID, d *deps) *Session {
	s := &Session{
		userID: userID,
		deps:   d,
		cmds:   make(chan func()),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		state:    StateCheckedOut,
		sales:    NewDailySalesCounter(d.policy.Location),
		lastUsed: d.policy.Now(),
	}
	go s.loop()
	return s
}

func (s *Session) UserID() uuid.UUID { return s.userID }

func (s *Session) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.deps.policy.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case fn := <-s.cmds:
			fn()
		case <-ticker.C:
			if s.idle() && s.deps.evict != nil && s.deps.evict(s) {
				s.closeOnce.Do(func() { close(s.quit) })
				return
			}
			s.tick()
		}
	}
}

// Close menghentikan loop; perintah yang sedang jalan diselesaikan dulu.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
}

// do menjalankan fn di goroutine loop dan menunggu sampai selesai.
func (s *Session) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	panicked := false
	cmd := func() {
		defer close(finished)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ERROR] attendance session %s panic: %v", s.userID, r)
				panicked = true
			}
		}()
		s.lastUsed = s.deps.policy.Now()
		fn()
	}

	select {
	case s.cmds <- cmd:
	case <-s.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-finished
	if panicked {
		return errSessionPanic
	}
	return nil
}

func (s *Session) now() time.Time {
	return s.deps.policy.Now().In(s.deps.policy.Location)
}

/* ===================== loop-only helpers ===================== */

// idle: sesi CHECKED_IN tidak pernah dilepas karena ticker-nya masih dibutuhkan.
func (s *Session) idle() bool {
	if s.state == StateCheckedIn {
		return false
	}
	return s.deps.policy.Now().Sub(s.lastUsed) >= s.deps.policy.IdleTimeout
}

func (s *Session) tick() {
	if !s.hydrated || s.state != StateCheckedIn {
		s.sales.Get(s.now())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.refreshSales(ctx); err != nil {
		log.Printf("[WARN] attendance %s: periodic sales refresh: %v", s.userID, err)
	}
}

// refreshSales memuat ulang penjualan hari ini dari store.
// Kalau gagal, reset tanggal tetap dijalankan dari cache.
func (s *Session) refreshSales(ctx context.Context) error {
	now := s.now()
	list, err := s.deps.store.ListSalesForUser(ctx, s.userID, dbtime.StartOfDay(now, s.deps.policy.Location))
	if err != nil {
		s.sales.Get(now)
		return storeErr("load today's sales", err)
	}
	s.sales.Replace(now, list)
	return nil
}

// hydrate memuat state dari store pada perintah pertama (atau setelah konflik).
func (s *Session) hydrate(ctx context.Context) error {
	if s.hydrated {
		return nil
	}

	open, err := s.deps.store.FindOpenCheckIn(ctx, s.userID)
	if err != nil {
		return storeErr("load attendance state", err)
	}

	s.state = StateCheckedOut
	s.open = nil
	s.feedback = nil
	s.gate.Reset()

	if open != nil {
		fb, err := s.deps.store.FindLatestFeedback(ctx, open.ID)
		if err != nil {
			return storeErr("load feedback", err)
		}
		s.state = StateCheckedIn
		s.open = open
		c := open.Location.Data()
		s.lastCoord = &c
		if fb != nil {
			s.feedback = fb
			s.gate.Satisfy()
		}
	}

	if err := s.refreshSales(ctx); err != nil {
		return err
	}
	s.hydrated = true
	return nil
}

func (s *Session) resolveBranch(ctx context.Context, slot string) (branchModel.BranchModel, error) {
	reloaded := false
	if s.branches == nil {
		if err := s.loadBranches(ctx); err != nil {
			return branchModel.BranchModel{}, err
		}
		reloaded = true
	}

	b, err := branchService.Resolve(s.branches, slot)
	if errors.Is(err, branchService.ErrBranchNotFound) && !reloaded {
		// cache bisa basi setelah admin menambah cabang
		if err := s.loadBranches(ctx); err != nil {
			return branchModel.BranchModel{}, err
		}
		b, err = branchService.Resolve(s.branches, slot)
	}
	return b, err
}

func (s *Session) loadBranches(ctx context.Context) error {
	list, err := s.deps.branches.ListBranches(ctx)
	if err != nil {
		return storeErr("load branches", err)
	}
	if list == nil {
		list = []branchModel.BranchModel{}
	}
	s.branches = list
	return nil
}

func (s *Session) notifyOutOfRange(user UserInfo, branch branchModel.BranchModel, distance float64, at time.Time) {
	ev := notify.OutOfRangeEvent{
		UserName:       user.Name,
		Email:          user.Email,
		BranchAddress:  branch.Address,
		DistanceMeters: distance,
		At:             at,
	}
	n := s.deps.notifier
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := n.NotifyOutOfRange(ctx, ev); err != nil {
			log.Printf("[WARN] out-of-range notification for %s: %v", ev.Email, err)
		}
	}()
}

/* ===================== operations ===================== */

// CheckIn: urutan cek = state, cabang, lokasi.
func (s *Session) CheckIn(ctx context.Context, user UserInfo, locator geo.Locator) (*model.CheckInModel, error) {
	var (
		branch branchModel.BranchModel
		err    error
	)
	if e := s.do(ctx, func() {
		if err = s.hydrate(ctx); err != nil {
			return
		}
		if s.state == StateCheckedIn {
			err = ErrAlreadyCheckedIn
			return
		}
		branch, err = s.resolveBranch(ctx, user.SlotLocation)
	}); e != nil {
		return nil, e
	}
	if err != nil {
		return nil, err
	}

	// lokasi diambil di luar loop supaya polling tidak ikut menunggu
	coord, err := geo.Acquire(ctx, locator, s.deps.policy.LocationTimeout)
	if err != nil {
		return nil, err
	}

	var ev *model.CheckInModel
	if e := s.do(ctx, func() {
		ev, err = s.commitCheckIn(ctx, user, branch, coord)
	}); e != nil {
		return nil, e
	}
	return ev, err
}

func (s *Session) commitCheckIn(ctx context.Context, user UserInfo, branch branchModel.BranchModel, coord geo.Coordinate) (*model.CheckInModel, error) {
	if err := s.hydrate(ctx); err != nil {
		return nil, err
	}
	if s.state == StateCheckedIn {
		return nil, ErrAlreadyCheckedIn
	}

	distance := geo.DistanceMeters(coord, branch.Coordinate())
	within := geo.WithinRadius(distance)
	if !within && s.deps.policy.EnforceGeofence {
		return nil, fmt.Errorf("%w (%.0f m away)", ErrOutsideGeofence, distance)
	}

	now := s.now()
	ev := &model.CheckInModel{
		ID:               uuid.New(),
		UserID:           s.userID,
		Name:             user.Name,
		Email:            user.Email,
		Location:         datatypes.NewJSONType(coord),
		Branch:           datatypes.NewJSONType(branch.Snapshot()),
		BranchAddress:    branch.Address,
		CheckInTime:      now,
		DistanceToBranch: distance,
		Within400Meters:  within,
	}
	if err := s.deps.store.InsertCheckIn(ctx, ev); err != nil {
		if errors.Is(err, ErrAlreadyCheckedIn) {
			// check-in dari perangkat lain; muat ulang state di perintah berikutnya
			s.hydrated = false
			return nil, ErrAlreadyCheckedIn
		}
		return nil, storeErr("save check-in", err)
	}

	s.state = StateCheckedIn
	s.open = ev
	s.feedback = nil
	s.gate.Reset()
	s.lastCoord = &coord

	if err := s.refreshSales(ctx); err != nil {
		log.Printf("[WARN] attendance %s: sales refresh after check-in: %v", s.userID, err)
	}
	if !within {
		log.Printf("[INFO] attendance %s: check-in %.0f m from %q (outside radius)", s.userID, distance, branch.Address)
		s.notifyOutOfRange(user, branch, distance, now)
	}

	out := *ev
	return &out, nil
}

// RecordSale menyimpan penjualan untuk check-in yang sedang terbuka.
func (s *Session) RecordSale(ctx context.Context, in salesDto.CreateSaleRequest) (*salesModel.SaleModel, error) {
	in.Normalize()

	var (
		out *salesModel.SaleModel
		err error
	)
	if e := s.do(ctx, func() {
		if err = s.hydrate(ctx); err != nil {
			return
		}
		if s.state != StateCheckedIn {
			err = ErrNotCheckedIn
			return
		}
		if fields := helper.ValidateStruct(in); fields != nil {
			err = &ValidationError{Fields: fields}
			return
		}

		openID := s.open.ID
		sale := in.ToModel(s.userID, &openID, s.now())
		if e := s.deps.store.InsertSale(ctx, sale); e != nil {
			err = storeErr("save sale", e)
			return
		}
		s.sales.Append(*sale)
		out = sale
	}); e != nil {
		return nil, e
	}
	return out, err
}

// SubmitFeedback menyimpan feedback dan membuka gate check-out.
func (s *Session) SubmitFeedback(ctx context.Context, in dto.FeedbackRequest) (*model.FeedbackModel, error) {
	in.Normalize()

	var (
		out *model.FeedbackModel
		err error
	)
	if e := s.do(ctx, func() {
		if err = s.hydrate(ctx); err != nil {
			return
		}
		if s.state != StateCheckedIn {
			err = ErrNotCheckedIn
			return
		}
		if fields := helper.ValidateStruct(in); fields != nil {
			err = &ValidationError{Fields: fields}
			return
		}

		fb := &model.FeedbackModel{
			ID:         uuid.New(),
			UserID:     s.userID,
			CheckInID:  s.open.ID,
			Sales:      in.Sales,
			Remark:     in.Remark,
			Challenges: in.Challenges,
			CreatedAt:  s.now(),
		}
		if e := s.deps.store.InsertFeedback(ctx, fb); e != nil {
			err = storeErr("save feedback", e)
			return
		}
		s.feedback = fb
		s.gate.Satisfy()
		out = fb
	}); e != nil {
		return nil, e
	}
	return out, err
}

// CheckOut: gate dicek sebelum menyentuh store. Kalau lokasi baru tidak didapat,
// koordinat terakhir yang diketahui dipakai.
func (s *Session) CheckOut(ctx context.Context, locator geo.Locator) (*model.CheckInModel, error) {
	var (
		fallback *geo.Coordinate
		err      error
	)
	if e := s.do(ctx, func() {
		if err = s.hydrate(ctx); err != nil {
			return
		}
		if err = s.checkOutAllowed(); err != nil {
			return
		}
		if s.lastCoord != nil {
			c := *s.lastCoord
			fallback = &c
		}
	}); e != nil {
		return nil, e
	}
	if err != nil {
		return nil, err
	}

	coord, lerr := geo.Acquire(ctx, locator, s.deps.policy.LocationTimeout)
	if lerr != nil {
		if fallback == nil {
			return nil, lerr
		}
		coord = *fallback
	}

	var ev *model.CheckInModel
	if e := s.do(ctx, func() {
		ev, err = s.commitCheckOut(ctx, coord, lerr == nil)
	}); e != nil {
		return nil, e
	}
	return ev, err
}

func (s *Session) checkOutAllowed() error {
	if s.state != StateCheckedIn {
		return ErrNotCheckedIn
	}
	if !s.gate.IsSatisfied() {
		return ErrFeedbackRequired
	}
	return nil
}

func (s *Session) commitCheckOut(ctx context.Context, coord geo.Coordinate, fresh bool) (*model.CheckInModel, error) {
	if err := s.hydrate(ctx); err != nil {
		return nil, err
	}
	if err := s.checkOutAllowed(); err != nil {
		return nil, err
	}

	branch := s.open.Branch.Data()
	distance := geo.DistanceMeters(coord, branch.Coordinate())
	within := geo.WithinRadius(distance)
	now := s.now()

	var fbJSON datatypes.JSON
	if s.feedback != nil {
		b, err := sonic.Marshal(feedbackPayload{
			Sales:      s.feedback.Sales,
			Remark:     s.feedback.Remark,
			Challenges: s.feedback.Challenges,
		})
		if err != nil {
			return nil, err
		}
		fbJSON = datatypes.JSON(b)
	}
	locJSON, err := sonic.Marshal(coord)
	if err != nil {
		return nil, err
	}

	a := CheckOutAmendment{
		CheckInID:      s.open.ID,
		UserID:         s.userID,
		CheckOutTime:   now,
		Feedback:       fbJSON,
		Location:       coord,
		DistanceMeters: distance,
		Within:         within,
	}
	if err := s.deps.store.AmendCheckOut(ctx, a); err != nil {
		if errors.Is(err, ErrNotCheckedIn) {
			s.hydrated = false
			return nil, ErrNotCheckedIn
		}
		return nil, storeErr("save check-out", err)
	}

	out := *s.open
	out.CheckOutTime = &now
	out.Feedback = fbJSON
	out.CheckOutLocation = datatypes.JSON(locJSON)
	out.CheckOutDistanceToBranch = &distance
	out.IsWithin400m = &within

	s.state = StateCheckedOut
	s.open = nil
	s.feedback = nil
	s.gate.Reset()
	if fresh {
		s.lastCoord = &coord
	}
	if s.deps.policy.ClearSalesOnCheckout {
		s.sales.Clear()
	}
	return &out, nil
}

// Status mengembalikan snapshot state saat ini.
func (s *Session) Status(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if e := s.do(ctx, func() {
		if err = s.hydrate(ctx); err != nil {
			return
		}
		now := s.now()
		sales := s.sales.Get(now)
		snap = Snapshot{
			State:             s.state,
			FeedbackSubmitted: s.gate.IsSatisfied(),
			DailySales:        sales,
			SalesCount:        len(sales),
			Date:              dbtime.DateKey(now, s.deps.policy.Location),
		}
		if s.open != nil {
			open := *s.open
			snap.OpenCheckIn = &open
		}
	}); e != nil {
		return Snapshot{}, e
	}
	return snap, err
}

// DailySales: penjualan hari ini (lazy reset saat tanggal berganti).
func (s *Session) DailySales(ctx context.Context) ([]salesModel.SaleModel, error) {
	snap, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	return snap.DailySales, nil
}
