package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/pkg/jwt"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory stand-in for the Postgres repositories. The
// facades below expose it through the store interfaces.
type memStore struct {
	mu   sync.Mutex // guards the maps
	txMu sync.Mutex // serializes InTx like a room lock would

	users        map[uuid.UUID]models.User
	hotels       map[uuid.UUID]models.Hotel
	rooms        map[uuid.UUID]models.Room
	reservations map[uuid.UUID]models.Reservation
	logs         []models.ReservationLog
	nextLogID    int64

	// commitErr is returned by InTx after fn succeeds, simulating a
	// constraint or serialization failure at commit
	commitErr error
	// activeErr is returned by the in-transaction ActiveForRoom read
	activeErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]models.User{},
		hotels:       map[uuid.UUID]models.Hotel{},
		rooms:        map[uuid.UUID]models.Room{},
		reservations: map[uuid.UUID]models.Reservation{},
	}
}

type (
	memUsers        struct{ *memStore }
	memHotels       struct{ *memStore }
	memRooms        struct{ *memStore }
	memReservations struct{ *memStore }
	memTx           struct{ *memStore }
)

// joined fills the fields the repository joins from rooms, hotels and users.
// Caller holds mu.
func (s *memStore) joined(r models.Reservation) models.Reservation {
	if room, ok := s.rooms[r.RoomID]; ok {
		r.RoomNumber = room.Number
		r.HotelID = room.HotelID
		if hotel, ok := s.hotels[room.HotelID]; ok {
			r.HotelName = hotel.Name
		}
	}
	if user, ok := s.users[r.UserID]; ok {
		r.GuestEmail = user.Email
		r.GuestName = user.FullName()
	}
	return r
}

func (s *memStore) activeForRoom(roomID uuid.UUID) []models.Reservation {
	out := []models.Reservation{}
	for _, r := range s.reservations {
		if r.RoomID == roomID && r.Status.IsActive() {
			out = append(out, s.joined(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

// ---- users ----

func (u memUsers) Create(ctx context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return database.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = time.Now(), time.Now()
	u.users[user.ID] = *user
	return nil
}

func (u memUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (u memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.users {
		if strings.EqualFold(user.Email, email) {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (u memUsers) List(ctx context.Context, role models.UserRole) ([]models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := []models.User{}
	for _, user := range u.users {
		if role == "" || user.Role == role {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (u memUsers) Update(ctx context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[user.ID]; !ok {
		return database.ErrNotFound
	}
	for id, existing := range u.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return database.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	u.users[user.ID] = *user
	return nil
}

func (u memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[id]; !ok {
		return database.ErrNotFound
	}
	for _, r := range u.reservations {
		if r.UserID == id {
			return database.ErrForeignKey
		}
	}
	delete(u.users, id)
	return nil
}

// ---- hotels ----

func (h memHotels) managerTaken(hotelID uuid.UUID, manager uuid.NullUUID) bool {
	if !manager.Valid {
		return false
	}
	for id, hotel := range h.hotels {
		if id != hotelID && hotel.ManagerID.Valid && hotel.ManagerID.UUID == manager.UUID {
			return true
		}
	}
	return false
}

func (h memHotels) Create(ctx context.Context, hotel *models.Hotel) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hotel.ID == uuid.Nil {
		hotel.ID = uuid.New()
	}
	if h.managerTaken(hotel.ID, hotel.ManagerID) {
		return database.ErrDuplicate
	}
	hotel.CreatedAt, hotel.UpdatedAt = time.Now(), time.Now()
	stored := *hotel
	stored.Rooms = nil
	h.hotels[hotel.ID] = stored
	return nil
}

func (h memHotels) GetByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hotel, ok := h.hotels[id]
	if !ok {
		return nil, nil
	}
	return &hotel, nil
}

func (h memHotels) GetByManagerID(ctx context.Context, managerID uuid.UUID) (*models.Hotel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, hotel := range h.hotels {
		if hotel.IsManagedBy(managerID) {
			found := hotel
			return &found, nil
		}
	}
	return nil, nil
}

func (h memHotels) List(ctx context.Context, filter models.HotelFilter) ([]models.Hotel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := []models.Hotel{}
	for _, hotel := range h.hotels {
		if filter.City != "" && !strings.EqualFold(hotel.City, filter.City) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(hotel.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, hotel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (h memHotels) Update(ctx context.Context, hotel *models.Hotel) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	current, ok := h.hotels[hotel.ID]
	if !ok {
		return database.ErrNotFound
	}
	stored := *hotel
	stored.ManagerID = current.ManagerID
	stored.Rooms = nil
	stored.UpdatedAt = time.Now()
	h.hotels[hotel.ID] = stored
	return nil
}

func (h memHotels) AssignManager(ctx context.Context, hotelID uuid.UUID, managerID uuid.NullUUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	hotel, ok := h.hotels[hotelID]
	if !ok {
		return database.ErrNotFound
	}
	if h.managerTaken(hotelID, managerID) {
		return database.ErrDuplicate
	}
	hotel.ManagerID = managerID
	h.hotels[hotelID] = hotel
	return nil
}

func (h memHotels) Delete(ctx context.Context, id uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.hotels[id]; !ok {
		return database.ErrNotFound
	}
	for _, r := range h.reservations {
		if h.rooms[r.RoomID].HotelID == id {
			return database.ErrForeignKey
		}
	}
	delete(h.hotels, id)
	for roomID, room := range h.rooms {
		if room.HotelID == id {
			delete(h.rooms, roomID)
		}
	}
	return nil
}

func (h memHotels) HasUnexpiredConfirmed(ctx context.Context, hotelID uuid.UUID, today time.Time) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.reservations {
		room := h.rooms[r.RoomID]
		if room.HotelID == hotelID && r.Status == models.ReservationStatusConfirmed && r.CheckOut.After(today) {
			return true, nil
		}
	}
	return false, nil
}

// ---- rooms ----

func (r memRooms) numberTaken(room *models.Room) bool {
	for id, existing := range r.rooms {
		if id != room.ID && existing.HotelID == room.HotelID && existing.Number == room.Number {
			return true
		}
	}
	return false
}

func (r memRooms) Create(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotels[room.HotelID]; !ok {
		return database.ErrForeignKey
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if r.numberTaken(room) {
		return database.ErrDuplicate
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	room.CreatedAt, room.UpdatedAt = time.Now(), time.Now()
	stored := *room
	stored.Bookings = nil
	r.rooms[room.ID] = stored
	return nil
}

func (r memRooms) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r memRooms) GetByNumber(ctx context.Context, hotelID uuid.UUID, number string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.HotelID == hotelID && room.Number == number {
			found := room
			return &found, nil
		}
	}
	return nil, nil
}

func (r memRooms) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Room{}
	for _, room := range r.rooms {
		if room.HotelID == hotelID {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r memRooms) UpcomingBookings(ctx context.Context, roomIDs []uuid.UUID, today time.Time) (map[uuid.UUID][]models.DateRange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range roomIDs {
		wanted[id] = true
	}
	out := map[uuid.UUID][]models.DateRange{}
	for _, res := range r.reservations {
		if wanted[res.RoomID] && res.Status == models.ReservationStatusConfirmed && res.CheckOut.After(today) {
			out[res.RoomID] = append(out[res.RoomID], res.Range())
		}
	}
	for id := range out {
		ranges := out[id]
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].CheckIn.Before(ranges[j].CheckIn) })
	}
	return out, nil
}

// ---- reservations ----

func (r memReservations) InTx(ctx context.Context, fn func(tx database.ReservationTx) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	rooms := make(map[uuid.UUID]models.Room, len(r.rooms))
	for k, v := range r.rooms {
		rooms[k] = v
	}
	reservations := make(map[uuid.UUID]models.Reservation, len(r.reservations))
	for k, v := range r.reservations {
		reservations[k] = v
	}
	logs := append([]models.ReservationLog(nil), r.logs...)
	nextLogID := r.nextLogID
	r.mu.Unlock()

	err := fn(memTx{r.memStore})
	if err == nil {
		err = r.commitErr
	}
	if err != nil {
		r.mu.Lock()
		r.rooms, r.reservations, r.logs, r.nextLogID = rooms, reservations, logs, nextLogID
		r.mu.Unlock()
	}
	return err
}

func (r memReservations) GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	res = r.joined(res)
	return &res, nil
}

func (r memReservations) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Reservation{}
	for _, res := range r.reservations {
		res = r.joined(res)
		switch {
		case filter.Status != "" && res.Status != filter.Status,
			filter.UserID != nil && res.UserID != *filter.UserID,
			filter.HotelID != nil && res.HotelID != *filter.HotelID,
			filter.StartDate != nil && !res.CheckOut.After(*filter.StartDate),
			filter.EndDate != nil && !res.CheckIn.Before(*filter.EndDate):
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (r memReservations) ActiveForRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeForRoom(roomID), nil
}

func (r memReservations) ListLogs(ctx context.Context, reservationID uuid.UUID) ([]models.ReservationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ReservationLog{}
	for _, entry := range r.logs {
		if entry.ReservationID == reservationID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r memReservations) ListExpiredConfirmed(ctx context.Context, today time.Time) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []uuid.UUID{}
	for id, res := range r.reservations {
		if res.Status == models.ReservationStatusConfirmed && !res.CheckOut.After(today) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r memReservations) RoomIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, 0, len(r.rooms))
	for id := range r.rooms {
		out = append(out, id)
	}
	return out, nil
}

// ---- transaction ----

func (t memTx) LockRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[roomID]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (t memTx) ActiveForRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.activeErr != nil {
		return nil, t.activeErr
	}
	return t.activeForRoom(roomID), nil
}

func (t memTx) Insert(ctx context.Context, reservation *models.Reservation) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	reservation.CreatedAt, reservation.UpdatedAt = time.Now(), time.Now()
	t.reservations[reservation.ID] = *reservation
	return nil
}

func (t memTx) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	res, ok := t.reservations[id]
	if !ok {
		return nil, nil
	}
	res = t.joined(res)
	return &res, nil
}

func (t memTx) SetStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	res, ok := t.reservations[id]
	if !ok {
		return database.ErrNotFound
	}
	res.Status = status
	res.UpdatedAt = time.Now()
	t.reservations[id] = res
	return nil
}

func (t memTx) Delete(ctx context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.reservations[id]; !ok {
		return database.ErrNotFound
	}
	delete(t.reservations, id)
	return nil
}

func (t memTx) AppendLog(ctx context.Context, entry *models.ReservationLog) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextLogID++
	entry.ID = t.nextLogID
	entry.CreatedAt = time.Now()
	t.logs = append(t.logs, *entry)
	return nil
}

func (t memTx) ConfirmedCovering(ctx context.Context, roomID uuid.UUID, day time.Time) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, res := range t.reservations {
		if res.RoomID == roomID && res.Status == models.ReservationStatusConfirmed &&
			!res.CheckIn.After(day) && res.CheckOut.After(day) {
			return true, nil
		}
	}
	return false, nil
}

func (t memTx) SetRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[roomID]
	if !ok {
		return database.ErrNotFound
	}
	room.Status = status
	t.rooms[roomID] = room
	return nil
}

func (t memTx) CountActive(ctx context.Context, roomID uuid.UUID, today time.Time) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, res := range t.reservations {
		if res.RoomID == roomID && res.Status.IsActive() && res.CheckOut.After(today) {
			count++
		}
	}
	return count, nil
}

func (t memTx) UpdateRoom(ctx context.Context, room *models.Room) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	current, ok := t.rooms[room.ID]
	if !ok {
		return database.ErrNotFound
	}
	if memRooms(t).numberTaken(room) {
		return database.ErrDuplicate
	}
	stored := *room
	stored.Status = current.Status
	stored.Bookings = nil
	stored.UpdatedAt = time.Now()
	t.rooms[room.ID] = stored
	return nil
}

func (t memTx) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rooms[roomID]; !ok {
		return database.ErrNotFound
	}
	for _, res := range t.reservations {
		if res.RoomID == roomID {
			return database.ErrForeignKey
		}
	}
	delete(t.rooms, roomID)
	return nil
}

// ---- notifier ----

type recordingNotifier struct {
	mu        sync.Mutex
	welcomed  []string
	created   []uuid.UUID
	cancelled []uuid.UUID
}

func (n *recordingNotifier) Welcome(ctx context.Context, user *models.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, user.Email)
}

func (n *recordingNotifier) ReservationCreated(ctx context.Context, reservation *models.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, reservation.ID)
}

func (n *recordingNotifier) ReservationCancelled(ctx context.Context, reservation *models.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, reservation.ID)
}

// ---- fixture ----

const testPassword = "correct-horse-battery"

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

// fixture wires every service over one memStore. The clock is pinned to
// 2024-03-15.
type fixture struct {
	store    *memStore
	gate     *Gate
	notifier *recordingNotifier
	tokens   *jwt.Service
	now      time.Time

	reservations *ReservationService
	rooms        *RoomService
	hotels       *HotelService
	users        *UserService

	admin, manager, otherManager, guest, otherGuest Actor

	hotel, otherHotel *models.Hotel
	room, otherRoom   *models.Room
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	fx := &fixture{
		store:    store,
		notifier: &recordingNotifier{},
		tokens:   jwt.NewService("access-secret-for-tests", "refresh-secret-for-tests", time.Hour, 24*time.Hour),
		now:      time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	logger := testLogger()

	fx.gate = NewGate(memHotels{store})
	fx.reservations = NewReservationService(memReservations{store}, memRooms{store}, fx.gate, fx.notifier, logger)
	fx.rooms = NewRoomService(memRooms{store}, memReservations{store}, fx.gate, logger)
	fx.hotels = NewHotelService(memHotels{store}, memRooms{store}, memUsers{store}, fx.gate, logger)
	fx.users = NewUserService(memUsers{store}, memHotels{store}, fx.gate, fx.tokens, fx.notifier, logger, bcrypt.MinCost)

	clock := func() time.Time { return fx.now }
	fx.reservations.clock = clock
	fx.rooms.clock = clock
	fx.hotels.clock = clock

	fx.admin = fx.addUser(t, "admin@staybook.test", models.RoleAdmin)
	fx.manager = fx.addUser(t, "manager@staybook.test", models.RoleManager)
	fx.otherManager = fx.addUser(t, "other.manager@staybook.test", models.RoleManager)
	fx.guest = fx.addUser(t, "guest@staybook.test", models.RoleUser)
	fx.otherGuest = fx.addUser(t, "other.guest@staybook.test", models.RoleUser)

	fx.hotel = fx.addHotel(t, "Harbour View", fx.manager)
	fx.otherHotel = fx.addHotel(t, "Mountain Lodge", fx.otherManager)
	fx.room = fx.addRoom(t, fx.hotel, "101", 2, "200")
	fx.otherRoom = fx.addRoom(t, fx.otherHotel, "201", 4, "150")

	return fx
}

func (fx *fixture) addUser(t *testing.T, email string, role models.UserRole) Actor {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
	}
	require.NoError(t, memUsers{fx.store}.Create(context.Background(), user))
	return Actor{UserID: user.ID, Role: role}
}

func (fx *fixture) addHotel(t *testing.T, name string, manager Actor) *models.Hotel {
	t.Helper()
	hotel := &models.Hotel{
		Name:      name,
		Address:   "1 Main Street",
		City:      "Lisbon",
		Country:   "Portugal",
		ManagerID: uuid.NullUUID{UUID: manager.UserID, Valid: true},
	}
	require.NoError(t, memHotels{fx.store}.Create(context.Background(), hotel))
	return hotel
}

func (fx *fixture) addRoom(t *testing.T, hotel *models.Hotel, number string, capacity int, price string) *models.Room {
	t.Helper()
	room := &models.Room{
		HotelID:  hotel.ID,
		Number:   number,
		Type:     "Double",
		Capacity: capacity,
		Price:    decimal.RequireFromString(price),
		Status:   models.RoomStatusAvailable,
	}
	require.NoError(t, memRooms{fx.store}.Create(context.Background(), room))
	return room
}

// book creates a reservation through the service
func (fx *fixture) book(t *testing.T, actor Actor, room *models.Room, checkIn, checkOut string, guests int) *models.Reservation {
	t.Helper()
	reservation, err := fx.reservations.Create(context.Background(), actor, CreateReservationInput{
		RoomID:     room.ID,
		CheckIn:    date(t, checkIn),
		CheckOut:   date(t, checkOut),
		GuestCount: guests,
	})
	require.NoError(t, err)
	return reservation
}

// roomStatus reads the stored status of a room
func (fx *fixture) roomStatus(t *testing.T, roomID uuid.UUID) models.RoomStatus {
	t.Helper()
	room, err := memRooms{fx.store}.GetByID(context.Background(), roomID)
	require.NoError(t, err)
	require.NotNil(t, room)
	return room.Status
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
