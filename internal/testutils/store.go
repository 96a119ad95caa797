package testutils

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"estatehub/db"
	"estatehub/models"

	"github.com/google/uuid"
)

type favKey struct {
	userID     string
	propertyID int64
}

type bidKey struct {
	tenderID int64
	userID   string
}

// MemoryStore - потокобезопасное хранилище в памяти с теми же ограничениями,
// что и схема Postgres: уникальность (tender_id, user_id) у предложений
// и составной ключ у избранного.
type MemoryStore struct {
	mu sync.Mutex

	nextID int64

	users         map[string]*models.User
	properties    map[int64]*models.Property
	favorites     map[favKey]time.Time
	tenders       map[int64]*models.Tender
	bids          map[int64]*models.Bid
	bidIndex      map[bidKey]int64
	notifications map[int64]*models.Notification

	// Внедрение ошибок
	FindBidErr            error
	CreateBidErr          error
	CreateNotificationErr error
	FavoriteErr           error
	GetTenderErr          error

	// BeforeCreateBid вызывается без блокировки перед вставкой предложения
	BeforeCreateBid func(b *models.Bid)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         map[string]*models.User{},
		properties:    map[int64]*models.Property{},
		favorites:     map[favKey]time.Time{},
		tenders:       map[int64]*models.Tender{},
		bids:          map[int64]*models.Bid{},
		bidIndex:      map[bidKey]int64{},
		notifications: map[int64]*models.Notification{},
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, db.ErrNotFound)
}

// Пользователи

func (m *MemoryStore) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", db.ErrConflict)
		}
	}
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("get user by email")
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) UpdateUserProfile(ctx context.Context, id, fullName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return notFound("update user")
	}
	u.FullName = fullName
	return nil
}

func (m *MemoryStore) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return notFound("update password")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *MemoryStore) SetUserRole(ctx context.Context, email, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u.Role = role
			return nil
		}
	}
	return notFound("set role")
}

// Объявления

func (m *MemoryStore) CreateProperty(ctx context.Context, p *models.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[p.CreatedBy]; !ok {
		return notFound("create property")
	}
	p.ID = m.id()
	p.CreatedAt = time.Now().UTC().Add(time.Duration(p.ID) * time.Millisecond)
	cp := *p
	m.properties[p.ID] = &cp
	return nil
}

func (m *MemoryStore) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[id]
	if !ok {
		return nil, notFound("get property")
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) ListProperties(ctx context.Context, f db.PropertyFilter) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Property{}
	for _, p := range m.properties {
		if f.Category != "" && string(p.Category) != f.Category {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
			continue
		}
		out = append(out, *p)
	}

	less := map[string]func(a, b models.Property) bool{
		"priceHighToLow": func(a, b models.Property) bool { return a.Price > b.Price },
		"priceLowToHigh": func(a, b models.Property) bool { return a.Price < b.Price },
		"locationAToZ":   func(a, b models.Property) bool { return a.Location < b.Location },
		"locationZToA":   func(a, b models.Property) bool { return a.Location > b.Location },
	}
	cmp, ok := less[f.Sort]
	if !ok {
		cmp = func(a, b models.Property) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) })

	if f.Offset >= len(out) {
		return []models.Property{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStore) ListUserProperties(ctx context.Context, userID string) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Property{}
	for _, p := range m.properties {
		if p.CreatedBy == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) DeleteProperty(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.properties[id]; !ok {
		return notFound("delete property")
	}
	delete(m.properties, id)
	for k := range m.favorites {
		if k.propertyID == id {
			delete(m.favorites, k)
		}
	}
	return nil
}

// Избранное

func (m *MemoryStore) AddFavorite(ctx context.Context, userID string, propertyID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FavoriteErr != nil {
		return m.FavoriteErr
	}
	if _, ok := m.properties[propertyID]; !ok {
		return notFound("add favorite")
	}
	k := favKey{userID, propertyID}
	if _, ok := m.favorites[k]; !ok {
		m.favorites[k] = time.Now().UTC()
	}
	return nil
}

func (m *MemoryStore) RemoveFavorite(ctx context.Context, userID string, propertyID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FavoriteErr != nil {
		return false, m.FavoriteErr
	}
	k := favKey{userID, propertyID}
	if _, ok := m.favorites[k]; !ok {
		return false, nil
	}
	delete(m.favorites, k)
	return true, nil
}

func (m *MemoryStore) FavoriteExists(ctx context.Context, userID string, propertyID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.favorites[favKey{userID, propertyID}]
	return ok, nil
}

func (m *MemoryStore) ListFavoriteProperties(ctx context.Context, userID string) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Property{}
	for k := range m.favorites {
		if k.userID != userID {
			continue
		}
		if p, ok := m.properties[k.propertyID]; ok {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FavoriteCount - число строк избранного для пары
func (m *MemoryStore) FavoriteCount(userID string, propertyID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.favorites[favKey{userID, propertyID}]; ok {
		return 1
	}
	return 0
}

// Тендеры

func (m *MemoryStore) CreateTender(ctx context.Context, t *models.Tender) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	t.CreatedAt = time.Now().UTC().Add(time.Duration(t.ID) * time.Millisecond)
	cp := *t
	m.tenders[t.ID] = &cp
	return nil
}

func (m *MemoryStore) GetTender(ctx context.Context, id int64) (*models.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetTenderErr != nil {
		return nil, m.GetTenderErr
	}
	t, ok := m.tenders[id]
	if !ok {
		return nil, notFound("get tender")
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryStore) ListTenders(ctx context.Context) ([]models.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Tender, 0, len(m.tenders))
	for _, t := range m.tenders {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdateTenderStatus(ctx context.Context, id int64, status models.TenderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenders[id]
	if !ok {
		return notFound("update tender status")
	}
	t.Status = string(status)
	return nil
}

// Предложения

func (m *MemoryStore) FindBid(ctx context.Context, tenderID int64, userID string) (*models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindBidErr != nil {
		return nil, m.FindBidErr
	}
	id, ok := m.bidIndex[bidKey{tenderID, userID}]
	if !ok {
		return nil, notFound("find bid")
	}
	cp := *m.bids[id]
	return &cp, nil
}

func (m *MemoryStore) CreateBid(ctx context.Context, b *models.Bid) error {
	if m.BeforeCreateBid != nil {
		m.BeforeCreateBid(b)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateBidErr != nil {
		return m.CreateBidErr
	}
	if _, ok := m.tenders[b.TenderID]; !ok {
		return notFound("create bid")
	}
	k := bidKey{b.TenderID, b.UserID}
	if _, ok := m.bidIndex[k]; ok {
		return fmt.Errorf("create bid: %w", db.ErrConflict)
	}
	b.ID = m.id()
	cp := *b
	m.bids[b.ID] = &cp
	m.bidIndex[k] = b.ID
	return nil
}

func (m *MemoryStore) UpdateBidAmount(ctx context.Context, b *models.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bids[b.ID]
	if !ok {
		return notFound("update bid")
	}
	stored.Amount = b.Amount
	stored.Status = b.Status
	stored.UpdatedAt = b.UpdatedAt
	b.CreatedAt = stored.CreatedAt
	return nil
}

func (m *MemoryStore) GetBid(ctx context.Context, id int64) (*models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bids[id]
	if !ok {
		return nil, notFound("get bid")
	}
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) ListUserBids(ctx context.Context, userID string) ([]models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Bid{}
	for _, b := range m.bids {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateBidStatus(ctx context.Context, id int64, status models.BidStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bids[id]
	if !ok {
		return notFound("update bid status")
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	return nil
}

// Bids возвращает копию всех предложений
func (m *MemoryStore) Bids() []models.Bid {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Bid, 0, len(m.bids))
	for _, b := range m.bids {
		out = append(out, *b)
	}
	return out
}

// Уведомления

func (m *MemoryStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateNotificationErr != nil {
		return m.CreateNotificationErr
	}
	n.ID = m.id()
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *MemoryStore) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemoryStore) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) MarkNotificationRead(ctx context.Context, id int64, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return notFound("mark notification read")
	}
	n.Read = true
	return nil
}

func (m *MemoryStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

// Notifications возвращает копию всех уведомлений
func (m *MemoryStore) Notifications() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		out = append(out, *n)
	}
	return out
}

// SeedTender кладет тендер как есть, без проверок (например, с пустыми датами)
func (m *MemoryStore) SeedTender(t models.Tender) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	t.CreatedAt = time.Now().UTC().Add(time.Duration(t.ID) * time.Millisecond)
	m.tenders[t.ID] = &t
	return t.ID
}

// SeedUser добавляет пользователя и возвращает его id
func (m *MemoryStore) SeedUser(email, role string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	m.users[id] = &models.User{ID: id, Email: email, Role: role, CreatedAt: time.Now().UTC()}
	return id
}
