package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"canvassers_backend/internals/features/attendance/model"
	branchModel "canvassers_backend/internals/features/branches/model"
	"canvassers_backend/internals/features/geo"
	"canvassers_backend/internals/features/notify"
	salesModel "canvassers_backend/internals/features/sales/model"

	"github.com/google/uuid"
)

// memStore adalah Store in-memory untuk test, aman dipanggil dari banyak goroutine.
type memStore struct {
	mu        sync.Mutex
	checkIns  []*model.CheckInModel
	sales     []salesModel.SaleModel
	feedback  []*model.FeedbackModel
	amends    []CheckOutAmendment
	listCalls int

	failInsertCheckIn error
	failAmend         error
	failInsertSale    error
	failList          error
}

func newMemStore() *memStore { return &memStore{} }

func (m *memStore) InsertCheckIn(_ context.Context, ev *model.CheckInModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsertCheckIn != nil {
		return m.failInsertCheckIn
	}
	for _, c := range m.checkIns {
		if c.UserID == ev.UserID && c.CheckOutTime == nil {
			return ErrAlreadyCheckedIn
		}
	}
	cp := *ev
	m.checkIns = append(m.checkIns, &cp)
	return nil
}

func (m *memStore) AmendCheckOut(_ context.Context, a CheckOutAmendment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAmend != nil {
		return m.failAmend
	}
	for _, c := range m.checkIns {
		if c.ID == a.CheckInID && c.UserID == a.UserID && c.CheckOutTime == nil {
			t := a.CheckOutTime
			d := a.DistanceMeters
			w := a.Within
			c.CheckOutTime = &t
			c.CheckOutDistanceToBranch = &d
			c.IsWithin400m = &w
			c.Feedback = a.Feedback
			m.amends = append(m.amends, a)
			return nil
		}
	}
	return ErrNotCheckedIn
}

func (m *memStore) InsertSale(_ context.Context, s *salesModel.SaleModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsertSale != nil {
		return m.failInsertSale
	}
	m.sales = append(m.sales, *s)
	return nil
}

func (m *memStore) InsertFeedback(_ context.Context, fb *model.FeedbackModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *fb
	m.feedback = append(m.feedback, &cp)
	return nil
}

func (m *memStore) ListSalesForUser(_ context.Context, userID uuid.UUID, since time.Time) ([]salesModel.SaleModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.failList != nil {
		return nil, m.failList
	}
	var out []salesModel.SaleModel
	for _, s := range m.sales {
		if s.UserID == userID && !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) FindOpenCheckIn(_ context.Context, userID uuid.UUID) (*model.CheckInModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.checkIns {
		if c.UserID == userID && c.CheckOutTime == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindLatestFeedback(_ context.Context, checkInID uuid.UUID) (*model.FeedbackModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.feedback) - 1; i >= 0; i-- {
		if m.feedback[i].CheckInID == checkInID {
			cp := *m.feedback[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) counts() (checkIns, amends, sales, feedback, lists int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.checkIns), len(m.amends), len(m.sales), len(m.feedback), m.listCalls
}

type staticDirectory struct {
	mu       sync.Mutex
	branches []branchModel.BranchModel
	calls    int
	err      error
}

func (d *staticDirectory) ListBranches(context.Context) ([]branchModel.BranchModel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return append([]branchModel.BranchModel(nil), d.branches...), nil
}

type recordingNotifier struct {
	ch chan notify.OutOfRangeEvent
}

func (r *recordingNotifier) NotifyOutOfRange(_ context.Context, ev notify.OutOfRangeEvent) error {
	r.ch <- ev
	return nil
}

// fakeClock: waktu yang bisa dimajukan dari test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func at(lat, long float64) geo.Locator {
	return geo.StaticLocator{Latitude: &lat, Longitude: &long}
}

var noLocation geo.Locator = geo.StaticLocator{}

var errBackendDown = errors.New("backend down")
