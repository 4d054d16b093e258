package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetbook/internal/db"
	"fleetbook/internal/entities"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/interval"
)

// fakeBookingRepo keeps bookings in memory and enforces the same rules
// the SQL layer does: non-overlap on Insert (the exclusion constraint)
// and the expected-status guard on UpdateStatus, so racing callers behave
// like they would against the real store. When linked to a blockout repo
// its conflict checks see blockouts too, like the two EXISTS branches of
// HasConflict.
type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*db.Booking
	blockouts *fakeBlockoutRepo

	// beforeStatusUpdate, when set, runs between a caller's legality check
	// and the guarded write, to interleave a competing transition.
	beforeStatusUpdate func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*db.Booking)}
}

func (f *fakeBookingRepo) overlapsLocked(vehicleID uuid.UUID, iv interval.Interval) bool {
	for _, b := range f.bookings {
		if b.VehicleID != vehicleID || !b.Status.Active() {
			continue
		}
		existing := interval.Interval{Start: b.StartsAt, End: b.EndsAt}
		if existing.Overlaps(iv) {
			return true
		}
	}
	if f.blockouts != nil {
		for _, bo := range f.blockouts.forVehicle(vehicleID) {
			existing := interval.Interval{Start: bo.StartsAt, End: bo.EndsAt}
			if existing.Overlaps(iv) {
				return true
			}
		}
	}
	return false
}

func (f *fakeBookingRepo) HasConflict(_ context.Context, vehicleID uuid.UUID, candidate interval.Interval) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlapsLocked(vehicleID, candidate), nil
}

func (f *fakeBookingRepo) Insert(_ context.Context, b *db.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overlapsLocked(b.VehicleID, interval.Interval{Start: b.StartsAt, End: b.EndsAt}) {
		return apperrors.Conflict("vehicle already reserved for an overlapping interval")
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now().UTC()
	stored := *b
	f.bookings[b.ID] = &stored
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking")
	}
	out := *b
	return &out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to db.BookingStatus) (*db.Booking, error) {
	if f.beforeStatusUpdate != nil {
		f.beforeStatusUpdate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking")
	}
	if b.Status != from {
		return nil, apperrors.InvalidTransition(string(b.Status), string(to))
	}
	b.Status = to
	out := *b
	return &out, nil
}

func (f *fakeBookingRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListAll(_ context.Context) ([]db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListForVehicleWindow(_ context.Context, vehicleID uuid.UUID, window interval.Interval) ([]db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Booking
	for _, b := range f.bookings {
		if b.VehicleID != vehicleID || !b.Status.Active() {
			continue
		}
		if (interval.Interval{Start: b.StartsAt, End: b.EndsAt}).Overlaps(window) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListWithNames(_ context.Context) ([]entities.BookingWithNames, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListInUse(_ context.Context, now time.Time) ([]entities.InUseEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.InUseEntry
	for _, b := range f.bookings {
		if b.Status.Active() && !now.Before(b.StartsAt) && now.Before(b.EndsAt) {
			out = append(out, entities.InUseEntry{BookingID: b.ID, Until: b.EndsAt, UserID: b.UserID, VehicleID: b.VehicleID})
		}
	}
	return out, nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[uuid.UUID]*db.Vehicle
	bookings *fakeBookingRepo
}

func newFakeVehicleRepo(vehicles ...*db.Vehicle) *fakeVehicleRepo {
	f := &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*db.Vehicle)}
	for _, v := range vehicles {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		f.vehicles[v.ID] = v
	}
	return f
}

func (f *fakeVehicleRepo) Create(_ context.Context, v *db.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = uuid.New()
	v.CreatedAt = time.Now().UTC()
	f.vehicles[v.ID] = v
	return nil
}

func (f *fakeVehicleRepo) GetByID(_ context.Context, id uuid.UUID) (*db.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return nil, apperrors.NotFound("vehicle")
	}
	out := *v
	return &out, nil
}

func (f *fakeVehicleRepo) List(_ context.Context) ([]db.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Vehicle
	for _, v := range f.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVehicleRepo) Update(_ context.Context, v *db.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vehicles[v.ID]; !ok {
		return apperrors.NotFound("vehicle")
	}
	stored := *v
	f.vehicles[v.ID] = &stored
	return nil
}

func (f *fakeVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vehicles[id]; !ok {
		return apperrors.NotFound("vehicle")
	}
	delete(f.vehicles, id)
	return nil
}

// FindAvailable models the SQL set-difference: active vehicles minus
// those with an overlapping active booking or blockout.
func (f *fakeVehicleRepo) FindAvailable(ctx context.Context, window interval.Interval) ([]db.Vehicle, error) {
	vehicles, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []db.Vehicle
	for _, v := range vehicles {
		if v.Status != db.VehicleActive {
			continue
		}
		if f.bookings != nil {
			busy, err := f.bookings.HasConflict(ctx, v.ID, window)
			if err != nil {
				return nil, err
			}
			if busy {
				continue
			}
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeBlockoutRepo struct {
	mu        sync.Mutex
	blockouts map[uuid.UUID]*db.VehicleBlockout
}

func newFakeBlockoutRepo() *fakeBlockoutRepo {
	return &fakeBlockoutRepo{blockouts: make(map[uuid.UUID]*db.VehicleBlockout)}
}

func (f *fakeBlockoutRepo) Create(_ context.Context, bo *db.VehicleBlockout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bo.ID = uuid.New()
	bo.CreatedAt = time.Now().UTC()
	stored := *bo
	f.blockouts[bo.ID] = &stored
	return nil
}

func (f *fakeBlockoutRepo) List(_ context.Context) ([]db.VehicleBlockout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.VehicleBlockout
	for _, bo := range f.blockouts {
		out = append(out, *bo)
	}
	return out, nil
}

func (f *fakeBlockoutRepo) ListForVehicleWindow(_ context.Context, vehicleID uuid.UUID, window interval.Interval) ([]db.VehicleBlockout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.VehicleBlockout
	for _, bo := range f.blockouts {
		if bo.VehicleID != vehicleID {
			continue
		}
		if (interval.Interval{Start: bo.StartsAt, End: bo.EndsAt}).Overlaps(window) {
			out = append(out, *bo)
		}
	}
	return out, nil
}

func (f *fakeBlockoutRepo) forVehicle(vehicleID uuid.UUID) []db.VehicleBlockout {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.VehicleBlockout
	for _, bo := range f.blockouts {
		if bo.VehicleID == vehicleID {
			out = append(out, *bo)
		}
	}
	return out
}

func (f *fakeBlockoutRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blockouts[id]; !ok {
		return apperrors.NotFound("blockout")
	}
	delete(f.blockouts, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
}

func newFakeUserRepo(users ...*db.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uuid.UUID]*db.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *db.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperrors.Conflict("email already registered")
		}
	}
	u.ID = uuid.New()
	u.IsActive = true
	u.CreatedAt = time.Now().UTC()
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) Update(_ context.Context, u *db.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return apperrors.NotFound("user")
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) ListAdminIDs(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for _, u := range f.users {
		if u.Role == db.RoleAdmin && u.IsActive {
			out = append(out, u.ID)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ContactsForUsers(_ context.Context, ids []uuid.UUID) ([]db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeDeviceRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID][]string
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{tokens: make(map[uuid.UUID][]string)}
}

func (f *fakeDeviceRepo) Upsert(_ context.Context, d *db.DeviceToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens[d.UserID] {
		if t == d.Token {
			return nil
		}
	}
	d.ID = uuid.New()
	f.tokens[d.UserID] = append(f.tokens[d.UserID], d.Token)
	return nil
}

func (f *fakeDeviceRepo) Delete(_ context.Context, userID uuid.UUID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tokens[userID][:0]
	for _, t := range f.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	f.tokens[userID] = kept
	return nil
}

func (f *fakeDeviceRepo) TokensForUsers(_ context.Context, userIDs []uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, id := range userIDs {
		out = append(out, f.tokens[id]...)
	}
	return out, nil
}

// noopNotifier satisfies Notifier for tests that do not care about
// notifications.
type noopNotifier struct{}

func (noopNotifier) BookingRequested(*db.Booking)                               {}
func (noopNotifier) BookingStatusChanged(*db.Booking, db.BookingStatus, db.BookingStatus) {}
