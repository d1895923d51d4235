package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"linque/config"
	reservationRepo "linque/database/repository/reservation"
	slotRepo "linque/database/repository/slot"
	"linque/models"
)

// fakeStore is a shared in-memory stand-in for the Mongo collections. The
// ledger fake applies the same conditional-update rules the real repos do,
// just without a database. The mutex plays the role of the server-side
// atomicity of a conditional FindOneAndUpdate.
type fakeStore struct {
	mu           sync.Mutex
	slots        map[string]*models.Slot
	reservations map[string]*models.Reservation
	nextSlotID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:        make(map[string]*models.Slot),
		reservations: make(map[string]*models.Reservation),
	}
}

func (st *fakeStore) findSlot(restaurantID, date string, bucket int) *models.Slot {
	for _, s := range st.slots {
		if s.RestaurantID == restaurantID && s.Date == date && s.Bucket == bucket {
			return s
		}
	}
	return nil
}

func (st *fakeStore) addSlot(restaurantID, date string, bucket, available int) *models.Slot {
	st.nextSlotID++
	s := &models.Slot{
		ID:           fmt.Sprintf("slot-%d", st.nextSlotID),
		RestaurantID: restaurantID,
		Date:         date,
		Bucket:       bucket,
		Available:    available,
	}
	st.slots[s.ID] = s
	return s
}

func defaultCapacity(bucket int) int {
	if cap, ok := config.DefaultSlotCapacities[bucket]; ok {
		return cap
	}
	return config.FallbackSlotCapacity
}

type fakeSlotRepo struct{ st *fakeStore }

func (r *fakeSlotRepo) EnsureForDate(ctx context.Context, restaurantID, date string) error {
	for _, bucket := range config.SeatBuckets {
		if r.st.findSlot(restaurantID, date, bucket) == nil {
			r.st.addSlot(restaurantID, date, bucket, defaultCapacity(bucket))
		}
	}
	return nil
}

func (r *fakeSlotRepo) EnsureBucket(ctx context.Context, restaurantID, date string, bucket int) error {
	if r.st.findSlot(restaurantID, date, bucket) == nil {
		r.st.addSlot(restaurantID, date, bucket, defaultCapacity(bucket))
	}
	return nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.Slot, error) {
	s, ok := r.st.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("slot %s not found", slotID)
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSlotRepo) ReserveUnit(ctx context.Context, restaurantID, date string, bucket int) (*models.Slot, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	s := r.st.findSlot(restaurantID, date, bucket)
	if s == nil || s.Available <= 0 {
		return nil, slotRepo.ErrUnavailable
	}
	s.Available--
	cp := *s
	return &cp, nil
}

func (r *fakeSlotRepo) ReleaseUnit(ctx context.Context, slotID string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	s, ok := r.st.slots[slotID]
	if !ok {
		return fmt.Errorf("slot %s not found", slotID)
	}
	s.Available++
	return nil
}

func (r *fakeSlotRepo) AdjustBulk(ctx context.Context, restaurantID, date string, adjustments []models.BucketAdjustment) error {
	for _, adj := range adjustments {
		if s := r.st.findSlot(restaurantID, date, adj.Bucket); s != nil {
			s.Available += adj.Delta
			if s.Available < 0 {
				s.Available = 0
			}
		}
	}
	return nil
}

func (r *fakeSlotRepo) AvailabilitySummary(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, error) {
	if err := r.EnsureForDate(ctx, restaurantID, date); err != nil {
		return nil, err
	}
	var out []models.BucketAvailability
	for _, bucket := range config.SeatBuckets {
		s := r.st.findSlot(restaurantID, date, bucket)
		out = append(out, models.BucketAvailability{Bucket: bucket, Available: s.Available})
	}
	return out, nil
}

func (r *fakeSlotRepo) ForceReset(ctx context.Context, restaurantID, date string) error {
	for _, bucket := range config.SeatBuckets {
		if s := r.st.findSlot(restaurantID, date, bucket); s != nil {
			s.Available = defaultCapacity(bucket)
		} else {
			r.st.addSlot(restaurantID, date, bucket, defaultCapacity(bucket))
		}
	}
	return nil
}

func (r *fakeSlotRepo) EnsureIndexes() error { return nil }

type fakeReservationRepo struct{ st *fakeStore }

func (r *fakeReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	cp := *res
	r.st.reservations[res.ID] = &cp
	return nil
}

func (r *fakeReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	res, ok := r.st.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s not found", id)
	}
	cp := *res
	return &cp, nil
}

func (r *fakeReservationRepo) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range r.st.reservations {
		if filter.RestaurantID != "" && res.RestaurantID != filter.RestaurantID {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (r *fakeReservationRepo) Ticker(ctx context.Context, restaurantID, date, timeOfDay string, limit int64) ([]models.Reservation, error) {
	return r.List(ctx, models.ReservationFilter{RestaurantID: restaurantID})
}

func applyFields(res *models.Reservation, set map[string]interface{}) {
	for k, v := range set {
		switch k {
		case "customerName":
			res.CustomerName = v.(string)
		case "notes":
			res.Notes = v.(string)
		case "promoCode":
			res.PromoCode = v.(string)
		case "status":
			res.Status = v.(string)
		case "date":
			res.Date = v.(string)
		case "time":
			res.Time = v.(string)
		case "partySize":
			res.PartySize = v.(int)
		}
	}
}

func (r *fakeReservationRepo) UpdateFields(ctx context.Context, id string, set map[string]interface{}) (*models.Reservation, error) {
	res, ok := r.st.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s not found", id)
	}
	applyFields(res, set)
	cp := *res
	return &cp, nil
}

func (r *fakeReservationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.st.reservations[id]; !ok {
		return fmt.Errorf("reservation %s not found", id)
	}
	delete(r.st.reservations, id)
	return nil
}

func (r *fakeReservationRepo) ClearSlotAttribution(ctx context.Context, id string) (string, error) {
	res, ok := r.st.reservations[id]
	if !ok || res.SlotID == "" {
		return "", nil
	}
	slotID := res.SlotID
	res.SlotID = ""
	return slotID, nil
}

func (r *fakeReservationRepo) MarkReminderSent(ctx context.Context, id string) (*models.Reservation, error) {
	res, ok := r.st.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrNotFound
	}
	if res.ReminderSent {
		return nil, reservationRepo.ErrAlreadyReminded
	}
	res.ReminderSent = true
	cp := *res
	return &cp, nil
}

func (r *fakeReservationRepo) EnsureIndexes() error { return nil }

// fakeLedger mirrors the transactional repo: reserve and write move together
// or not at all.
type fakeLedger struct {
	st    *fakeStore
	slots *fakeSlotRepo
	res   *fakeReservationRepo
}

func (l *fakeLedger) CreateWithSlot(ctx context.Context, res *models.Reservation, bucket int) (*models.Slot, error) {
	slot, err := l.slots.ReserveUnit(ctx, res.RestaurantID, res.Date, bucket)
	if err != nil {
		return nil, err
	}
	res.SlotID = slot.ID
	if err := l.res.Create(ctx, res); err != nil {
		return nil, err
	}
	return slot, nil
}

func (l *fakeLedger) SwapSlot(ctx context.Context, reservationID, oldSlotID, restaurantID, date string, bucket int, set map[string]interface{}) (*models.Reservation, error) {
	newSlot, err := l.slots.ReserveUnit(ctx, restaurantID, date, bucket)
	if err != nil {
		return nil, err
	}
	if err := l.slots.ReleaseUnit(ctx, oldSlotID); err != nil {
		return nil, err
	}
	res := l.st.reservations[reservationID]
	applyFields(res, set)
	res.SlotID = newSlot.ID
	cp := *res
	return &cp, nil
}

func (l *fakeLedger) ReleaseAndClear(ctx context.Context, reservationID string) (bool, error) {
	slotID, err := l.res.ClearSlotAttribution(ctx, reservationID)
	if err != nil {
		return false, err
	}
	if slotID == "" {
		return false, nil
	}
	if err := l.slots.ReleaseUnit(ctx, slotID); err != nil {
		return false, err
	}
	return true, nil
}

type fakeUserRepo struct{ users map[string]*models.User }

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u, nil
}

type fakeNotifier struct {
	customer []string
	vendor   []string
}

func (n *fakeNotifier) NotifyCustomer(ctx context.Context, customerID, message string) {
	if customerID != "" {
		n.customer = append(n.customer, message)
	}
}

func (n *fakeNotifier) NotifyVendor(ctx context.Context, vendorID, message string) {
	if vendorID != "" {
		n.vendor = append(n.vendor, message)
	}
}

type fakeScheduler struct{ scheduled int }

func (s *fakeScheduler) ScheduleReminder(res *models.Reservation) error {
	s.scheduled++
	return nil
}

type testEnv struct {
	st        *fakeStore
	svc       *DefaultBookingService
	notifier  *fakeNotifier
	scheduler *fakeScheduler
}

func newTestEnv() *testEnv {
	st := newFakeStore()
	slots := &fakeSlotRepo{st: st}
	reservations := &fakeReservationRepo{st: st}
	notifier := &fakeNotifier{}
	scheduler := &fakeScheduler{}
	svc := &DefaultBookingService{
		SlotRepo:        slots,
		ReservationRepo: reservations,
		Ledger:          &fakeLedger{st: st, slots: slots, res: reservations},
		Users:           &fakeUserRepo{users: map[string]*models.User{"u1": {ID: "u1", Name: "Ada"}}},
		NotificationSvc: notifier,
		Reminders:       scheduler,
		Logger:          zap.NewNop(),
	}
	return &testEnv{st: st, svc: svc, notifier: notifier, scheduler: scheduler}
}

const testDate = "2026-09-12"

func mustBook(t *testing.T, env *testEnv, partySize int) *models.Reservation {
	t.Helper()
	res, err := env.svc.Book(context.Background(), &models.User{ID: "u1", Name: "Ada"}, models.BookReservationInput{
		RestaurantID: "r1",
		Date:         testDate,
		Time:         "19:00",
		PartySize:    partySize,
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	return res
}

func TestBookConsumesUnitUntilExhausted(t *testing.T) {
	env := newTestEnv()

	// Bucket 20 seeds a single unit, so the second booking must lose.
	first := mustBook(t, env, 16)
	if first.SlotID == "" {
		t.Fatal("booked reservation has no slot attribution")
	}
	slot := env.st.slots[first.SlotID]
	if slot.Bucket != 20 || slot.Available != 0 {
		t.Fatalf("expected bucket 20 drained to 0, got bucket %d available %d", slot.Bucket, slot.Available)
	}

	_, err := env.svc.Book(context.Background(), &models.User{ID: "u1", Name: "Ada"}, models.BookReservationInput{
		RestaurantID: "r1", Date: testDate, Time: "20:00", PartySize: 16,
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if len(env.st.reservations) != 1 {
		t.Fatalf("rejected booking must not persist a reservation, have %d", len(env.st.reservations))
	}
}

func TestConcurrentBookingsOnLastUnit(t *testing.T) {
	env := newTestEnv()

	// Drain bucket 20 to its single unit, then race two bookings for it.
	if err := env.svc.SlotRepo.EnsureForDate(context.Background(), "r1", testDate); err != nil {
		t.Fatalf("EnsureForDate failed: %v", err)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Book(context.Background(), &models.User{ID: "u1", Name: "Ada"}, models.BookReservationInput{
				RestaurantID: "r1", Date: testDate, Time: "19:00", PartySize: 16,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins, losses := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotUnavailable):
			losses++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner and one loser, got %d wins, %d losses", wins, losses)
	}
	if got := len(env.st.reservations); got != 1 {
		t.Fatalf("expected a single persisted reservation, got %d", got)
	}
	if slot := env.st.findSlot("r1", testDate, 20); slot.Available != 0 {
		t.Fatalf("bucket 20 available = %d, want 0", slot.Available)
	}
}

func TestBookValidatesInput(t *testing.T) {
	env := newTestEnv()
	customer := &models.User{ID: "u1", Name: "Ada"}

	cases := []models.BookReservationInput{
		{RestaurantID: "r1", Date: "12-09-2026", Time: "19:00", PartySize: 2},
		{RestaurantID: "r1", Date: testDate, Time: "7pm", PartySize: 2},
		{RestaurantID: "r1", Date: testDate, Time: "19:00", PartySize: 0},
		{RestaurantID: "", Date: testDate, Time: "19:00", PartySize: 2},
	}
	for i, in := range cases {
		_, err := env.svc.Book(context.Background(), customer, in)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("case %d: expected ValidationError, got %v", i, err)
		}
	}
	if len(env.st.slots) != 0 {
		t.Fatal("rejected input must not provision slots")
	}
}

func TestRescheduleMovesUnitBetweenBuckets(t *testing.T) {
	env := newTestEnv()

	res := mustBook(t, env, 3)
	oldSlot := env.st.slots[res.SlotID]
	if oldSlot.Bucket != 4 {
		t.Fatalf("party of 3 must land in bucket 4, got %d", oldSlot.Bucket)
	}
	oldAvail := oldSlot.Available

	size := 6
	updated, err := env.svc.Update(context.Background(), res.ID, models.ReservationUpdate{PartySize: &size})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	newSlot := env.st.slots[updated.SlotID]
	if newSlot.Bucket != 6 {
		t.Fatalf("party of 6 must land in bucket 6, got %d", newSlot.Bucket)
	}
	if oldSlot.Available != oldAvail+1 {
		t.Errorf("old bucket not released: available %d, want %d", oldSlot.Available, oldAvail+1)
	}
	if newSlot.Available != defaultCapacity(6)-1 {
		t.Errorf("new bucket not consumed: available %d, want %d", newSlot.Available, defaultCapacity(6)-1)
	}

	// Total units across the ladder must be conserved by the move.
	total := 0
	for _, s := range env.st.slots {
		total += s.Available
	}
	want := -1
	for _, bucket := range config.SeatBuckets {
		want += defaultCapacity(bucket)
	}
	if total != want {
		t.Errorf("unit total %d after reschedule, want %d", total, want)
	}
}

func TestRescheduleRejectedWhenTargetFull(t *testing.T) {
	env := newTestEnv()

	res := mustBook(t, env, 3)
	target := env.st.findSlot("r1", testDate, 6)
	target.Available = 0

	size := 6
	_, err := env.svc.Update(context.Background(), res.ID, models.ReservationUpdate{PartySize: &size})
	if !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}

	// The original attribution must survive a failed move.
	kept, _ := env.svc.ReservationRepo.GetByID(context.Background(), res.ID)
	if kept.SlotID != res.SlotID {
		t.Errorf("slot attribution changed on failed reschedule: %s -> %s", res.SlotID, kept.SlotID)
	}
	if kept.PartySize != 3 {
		t.Errorf("party size changed on failed reschedule: %d", kept.PartySize)
	}
}

func TestTimeOnlyEditKeepsSlot(t *testing.T) {
	env := newTestEnv()

	res := mustBook(t, env, 3)
	before := env.st.slots[res.SlotID].Available

	newTime := "21:30"
	updated, err := env.svc.Update(context.Background(), res.ID, models.ReservationUpdate{Time: &newTime})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.SlotID != res.SlotID {
		t.Errorf("time-only edit moved the slot: %s -> %s", res.SlotID, updated.SlotID)
	}
	if updated.Time != newTime {
		t.Errorf("time not updated: %s", updated.Time)
	}
	if env.st.slots[res.SlotID].Available != before {
		t.Error("time-only edit changed slot availability")
	}
}

func TestCancelReleasesExactlyOnce(t *testing.T) {
	env := newTestEnv()

	res := mustBook(t, env, 2)
	slot := env.st.slots[res.SlotID]
	afterBook := slot.Available

	first, err := env.svc.Cancel(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if first.Status != models.ReservationStatusCancelled {
		t.Errorf("status = %s, want cancelled", first.Status)
	}
	if slot.Available != afterBook+1 {
		t.Fatalf("cancel did not release the unit: available %d, want %d", slot.Available, afterBook+1)
	}

	// A second cancel must be a no-op on the ledger.
	if _, err := env.svc.Cancel(context.Background(), res.ID); err != nil {
		t.Fatalf("second Cancel failed: %v", err)
	}
	if slot.Available != afterBook+1 {
		t.Fatalf("double cancel released a second unit: available %d", slot.Available)
	}
}

func TestCancelViaStatusUpdateReleases(t *testing.T) {
	env := newTestEnv()

	res := mustBook(t, env, 2)
	slot := env.st.slots[res.SlotID]
	afterBook := slot.Available

	status := models.ReservationStatusCancelled
	updated, err := env.svc.Update(context.Background(), res.ID, models.ReservationUpdate{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.ReservationStatusCancelled {
		t.Errorf("status = %s, want cancelled", updated.Status)
	}
	if updated.SlotID != "" {
		t.Error("cancelled reservation still holds a slot attribution")
	}
	if slot.Available != afterBook+1 {
		t.Errorf("status cancel did not release the unit: available %d, want %d", slot.Available, afterBook+1)
	}
}

func TestDeleteReleasesUnit(t *testing.T) {
	env := newTestEnv()

	res := mustBook(t, env, 2)
	slot := env.st.slots[res.SlotID]
	afterBook := slot.Available

	if err := env.svc.Delete(context.Background(), res.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if slot.Available != afterBook+1 {
		t.Errorf("delete did not release the unit: available %d, want %d", slot.Available, afterBook+1)
	}
	if _, ok := env.st.reservations[res.ID]; ok {
		t.Error("reservation still present after delete")
	}

	if err := env.svc.Delete(context.Background(), res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSendReminderOnlyOnce(t *testing.T) {
	env := newTestEnv()

	res := mustBook(t, env, 2)
	if err := env.svc.SendReminder(context.Background(), res.ID); err != nil {
		t.Fatalf("SendReminder failed: %v", err)
	}
	if err := env.svc.SendReminder(context.Background(), res.ID); !errors.Is(err, ErrAlreadyReminded) {
		t.Fatalf("expected ErrAlreadyReminded, got %v", err)
	}
	if err := env.svc.SendReminder(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// vanishingReservationRepo deletes the reservation between the lookup and the
// guarded update, the window a concurrent delete can hit.
type vanishingReservationRepo struct{ *fakeReservationRepo }

func (r *vanishingReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	res, err := r.fakeReservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(r.st.reservations, id)
	return res, nil
}

func TestSendReminderReportsDeletedReservation(t *testing.T) {
	env := newTestEnv()
	res := mustBook(t, env, 2)

	base := env.svc.ReservationRepo.(*fakeReservationRepo)
	env.svc.ReservationRepo = &vanishingReservationRepo{fakeReservationRepo: base}

	err := env.svc.SendReminder(context.Background(), res.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a deleted reservation, got %v", err)
	}
	if errors.Is(err, ErrAlreadyReminded) {
		t.Fatal("deleted reservation misreported as already reminded")
	}
}

func TestCreateWalkInDefaults(t *testing.T) {
	env := newTestEnv()

	res, err := env.svc.CreateWalkIn(context.Background(), "r1", models.WalkInInput{
		Date: testDate, Time: "12:00", PartySize: 4,
	})
	if err != nil {
		t.Fatalf("CreateWalkIn failed: %v", err)
	}
	if res.CustomerName != "Walk-in guest" {
		t.Errorf("customer name = %q, want walk-in default", res.CustomerName)
	}
	if res.Origin != models.ReservationOriginWalkIn {
		t.Errorf("origin = %s, want walk-in", res.Origin)
	}
	if res.SlotID == "" {
		t.Error("walk-in has no slot attribution")
	}

	// Only the targeted bucket gets provisioned for a walk-in.
	if env.st.findSlot("r1", testDate, 2) != nil {
		t.Error("walk-in provisioned an unrelated bucket")
	}
}

func TestCreateWalkInResolvesCustomer(t *testing.T) {
	env := newTestEnv()

	res, err := env.svc.CreateWalkIn(context.Background(), "r1", models.WalkInInput{
		Date: testDate, Time: "12:00", PartySize: 2, CustomerID: "u1",
	})
	if err != nil {
		t.Fatalf("CreateWalkIn failed: %v", err)
	}
	if res.CustomerName != "Ada" {
		t.Errorf("customer name = %q, want Ada", res.CustomerName)
	}

	_, err = env.svc.CreateWalkIn(context.Background(), "r1", models.WalkInInput{
		Date: testDate, Time: "12:00", PartySize: 2, CustomerID: "ghost",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}
}

func TestAvailabilityProvisionsDefaults(t *testing.T) {
	env := newTestEnv()

	summary, err := env.svc.Availability(context.Background(), "r1", testDate)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	if len(summary) != len(config.SeatBuckets) {
		t.Fatalf("summary has %d rows, want %d", len(summary), len(config.SeatBuckets))
	}
	for _, row := range summary {
		if row.Available != defaultCapacity(row.Bucket) {
			t.Errorf("bucket %d available %d, want default %d", row.Bucket, row.Available, defaultCapacity(row.Bucket))
		}
	}

	if _, err := env.svc.Availability(context.Background(), "r1", "not-a-date"); err == nil {
		t.Fatal("expected validation error for malformed date")
	}
}

type fakeAvailCache struct {
	entries map[string][]models.BucketAvailability
	hits    int
}

func newFakeAvailCache() *fakeAvailCache {
	return &fakeAvailCache{entries: make(map[string][]models.BucketAvailability)}
}

func (c *fakeAvailCache) Get(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, bool) {
	summary, ok := c.entries[restaurantID+"/"+date]
	if ok {
		c.hits++
	}
	return summary, ok
}

func (c *fakeAvailCache) Set(ctx context.Context, restaurantID, date string, summary []models.BucketAvailability) {
	c.entries[restaurantID+"/"+date] = summary
}

func (c *fakeAvailCache) Invalidate(ctx context.Context, restaurantID, date string) {
	delete(c.entries, restaurantID+"/"+date)
}

func TestAvailabilityCachedAndInvalidatedByBooking(t *testing.T) {
	env := newTestEnv()
	cache := newFakeAvailCache()
	env.svc.AvailCache = cache

	if _, err := env.svc.Availability(context.Background(), "r1", testDate); err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	if _, err := env.svc.Availability(context.Background(), "r1", testDate); err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected the second read to hit the cache, got %d hits", cache.hits)
	}

	// A booking must drop the cached summary so the next read sees the
	// consumed unit.
	mustBook(t, env, 3)
	summary, err := env.svc.Availability(context.Background(), "r1", testDate)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	for _, row := range summary {
		if row.Bucket == 4 && row.Available != defaultCapacity(4)-1 {
			t.Errorf("cached summary survived a booking: bucket 4 available %d", row.Available)
		}
	}
}

func TestCancelInvalidatesAvailabilityCache(t *testing.T) {
	env := newTestEnv()
	cache := newFakeAvailCache()
	env.svc.AvailCache = cache

	res := mustBook(t, env, 3)
	if _, err := env.svc.Availability(context.Background(), "r1", testDate); err != nil {
		t.Fatalf("Availability failed: %v", err)
	}

	if _, err := env.svc.Cancel(context.Background(), res.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	summary, err := env.svc.Availability(context.Background(), "r1", testDate)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	for _, row := range summary {
		if row.Bucket == 4 && row.Available != defaultCapacity(4) {
			t.Errorf("cancel did not refresh availability: bucket 4 available %d", row.Available)
		}
	}
}

func TestAdjustCapacityClampsAndRefreshes(t *testing.T) {
	env := newTestEnv()
	cache := newFakeAvailCache()
	env.svc.AvailCache = cache

	if _, err := env.svc.Availability(context.Background(), "r1", testDate); err != nil {
		t.Fatalf("Availability failed: %v", err)
	}

	summary, err := env.svc.AdjustCapacity(context.Background(), "r1", testDate, []models.BucketAdjustment{
		{Bucket: 2, Delta: -100},
		{Bucket: 4, Delta: 2},
	})
	if err != nil {
		t.Fatalf("AdjustCapacity failed: %v", err)
	}
	for _, row := range summary {
		switch row.Bucket {
		case 2:
			if row.Available != 0 {
				t.Errorf("bucket 2 not clamped at zero: %d", row.Available)
			}
		case 4:
			if row.Available != defaultCapacity(4)+2 {
				t.Errorf("bucket 4 available %d, want %d", row.Available, defaultCapacity(4)+2)
			}
		}
	}
	if _, ok := cache.entries["r1/"+testDate]; ok {
		t.Error("adjustment left a stale cached summary behind")
	}

	if _, err := env.svc.AdjustCapacity(context.Background(), "r1", "bogus", nil); err == nil {
		t.Fatal("expected validation error for malformed date")
	}
}

func TestResetCapacityRestoresDefaults(t *testing.T) {
	env := newTestEnv()

	mustBook(t, env, 3)
	if err := env.svc.ResetCapacity(context.Background(), "r1", testDate); err != nil {
		t.Fatalf("ResetCapacity failed: %v", err)
	}

	summary, err := env.svc.Availability(context.Background(), "r1", testDate)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	for _, row := range summary {
		if row.Available != defaultCapacity(row.Bucket) {
			t.Errorf("bucket %d available %d, want default %d", row.Bucket, row.Available, defaultCapacity(row.Bucket))
		}
	}
}

func TestAvailabilityShowsFullLadderAfterWalkIn(t *testing.T) {
	env := newTestEnv()

	// A walk-in on a fresh date provisions only its own bucket; the vendor's
	// availability view must still fill in the rest of the ladder.
	if _, err := env.svc.CreateWalkIn(context.Background(), "r1", models.WalkInInput{
		Date: testDate, Time: "12:00", PartySize: 4,
	}); err != nil {
		t.Fatalf("CreateWalkIn failed: %v", err)
	}

	summary, err := env.svc.Availability(context.Background(), "r1", testDate)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	if len(summary) != len(config.SeatBuckets) {
		t.Fatalf("summary has %d rows, want the full ladder of %d", len(summary), len(config.SeatBuckets))
	}
	for _, row := range summary {
		want := defaultCapacity(row.Bucket)
		if row.Bucket == 4 {
			want--
		}
		if row.Available != want {
			t.Errorf("bucket %d available %d, want %d", row.Bucket, row.Available, want)
		}
	}
}

func TestBookNotifiesAndSchedules(t *testing.T) {
	env := newTestEnv()

	mustBook(t, env, 2)
	if len(env.notifier.customer) != 1 {
		t.Errorf("customer notifications = %d, want 1", len(env.notifier.customer))
	}
	if len(env.notifier.vendor) != 1 {
		t.Errorf("vendor notifications = %d, want 1", len(env.notifier.vendor))
	}
	if env.scheduler.scheduled != 1 {
		t.Errorf("scheduled reminders = %d, want 1", env.scheduler.scheduled)
	}
}

func TestRescheduleDateMovesSlot(t *testing.T) {
	env := newTestEnv()

	res := mustBook(t, env, 2)
	oldSlot := env.st.slots[res.SlotID]

	// Provision the target date up front; reschedules do not lazily create
	// slots.
	newDate := "2026-09-13"
	if err := env.svc.SlotRepo.EnsureForDate(context.Background(), "r1", newDate); err != nil {
		t.Fatalf("EnsureForDate failed: %v", err)
	}

	updated, err := env.svc.Update(context.Background(), res.ID, models.ReservationUpdate{Date: &newDate})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	newSlot := env.st.slots[updated.SlotID]
	if newSlot.Date != newDate || newSlot.Bucket != oldSlot.Bucket {
		t.Fatalf("expected slot on %s bucket %d, got %s bucket %d", newDate, oldSlot.Bucket, newSlot.Date, newSlot.Bucket)
	}
	if oldSlot.Available != defaultCapacity(oldSlot.Bucket) {
		t.Errorf("old slot not fully restored: available %d", oldSlot.Available)
	}
}
