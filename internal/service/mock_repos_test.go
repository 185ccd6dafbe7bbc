package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
	"github.com/Sarwan-Projects/SlotSwapper/internal/notify"
	"github.com/Sarwan-Projects/SlotSwapper/internal/repository"
	pkgerrors "github.com/Sarwan-Projects/SlotSwapper/pkg/errors"
)

// The mocks hand out copies so services only observe writes that went through
// the repository, like with a real database. Slot and proposal writes are
// compare-and-set under one mutex, matching the SQL repositories.

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) add(id, name string) *model.User {
	u := &model.User{UserID: id, Name: name, Email: strings.ToLower(name) + "@example.com"}
	_ = m.Create(context.Background(), u)
	return u
}

// ── Mock SlotRepository ──

type mockSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*model.Slot
	users *mockUserRepo
	seq   int
	// failNextSet makes the n-th following SetStatusAndOwner call fail (1-based); 0 disables
	failNextSet int
	// offeredReads counts ListOffered calls
	offeredReads int
}

func newMockSlotRepo(users *mockUserRepo) *mockSlotRepo {
	return &mockSlotRepo{slots: make(map[string]*model.Slot), users: users}
}

func (m *mockSlotRepo) withOwner(s *model.Slot) *model.Slot {
	cp := *s
	if u, err := m.users.GetByID(context.Background(), s.OwnerID); err == nil {
		cp.Owner = u
	}
	return &cp
}

func (m *mockSlotRepo) Create(_ context.Context, slot *model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot.SlotID == "" {
		m.seq++
		slot.SlotID = fmt.Sprintf("slot-%d", m.seq)
	}
	if slot.Version == 0 {
		slot.Version = 1
	}
	now := time.Now().UTC()
	slot.CreatedAt, slot.UpdatedAt = now, now
	cp := *slot
	cp.Owner = nil
	m.slots[slot.SlotID] = &cp
	return nil
}

func (m *mockSlotRepo) GetByID(_ context.Context, id string) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[id]; ok {
		return m.withOwner(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotRepo) GetByIDAndOwner(_ context.Context, id, ownerID string) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[id]; ok && s.OwnerID == ownerID {
		return m.withOwner(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotRepo) list(match func(*model.Slot) bool) []model.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Slot
	for _, s := range m.slots {
		if match(s) {
			out = append(out, *m.withOwner(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (m *mockSlotRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Slot, error) {
	return m.list(func(s *model.Slot) bool { return s.OwnerID == ownerID }), nil
}

func (m *mockSlotRepo) ListOffered(_ context.Context) ([]model.Slot, error) {
	m.mu.Lock()
	m.offeredReads++
	m.mu.Unlock()
	return m.list(func(s *model.Slot) bool { return s.Status == model.SlotOffered }), nil
}

func (m *mockSlotRepo) Update(_ context.Context, slot *model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.slots[slot.SlotID]
	if !ok || cur.Version != slot.Version || cur.Status == model.SlotLocked {
		return pkgerrors.ErrOptimisticLock
	}
	cur.Title, cur.StartTime, cur.EndTime, cur.Status = slot.Title, slot.StartTime, slot.EndTime, slot.Status
	cur.Version++
	slot.Version = cur.Version
	return nil
}

func (m *mockSlotRepo) SetStatusAndOwner(_ context.Context, slot *model.Slot, from, to model.SlotStatus, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNextSet > 0 {
		m.failNextSet--
		if m.failNextSet == 0 {
			return pkgerrors.ErrOptimisticLock
		}
	}
	cur, ok := m.slots[slot.SlotID]
	if !ok || cur.Version != slot.Version || cur.Status != from {
		return pkgerrors.ErrOptimisticLock
	}
	cur.Status, cur.OwnerID = to, ownerID
	cur.Version++
	slot.Status, slot.OwnerID, slot.Version = to, ownerID, cur.Version
	return nil
}

func (m *mockSlotRepo) Delete(_ context.Context, slot *model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.slots[slot.SlotID]
	if !ok || cur.Version != slot.Version || cur.Status == model.SlotLocked || cur.OwnerID != slot.OwnerID {
		return pkgerrors.ErrOptimisticLock
	}
	delete(m.slots, slot.SlotID)
	return nil
}

func (m *mockSlotRepo) add(id, ownerID, title string, start time.Time, status model.SlotStatus) *model.Slot {
	s := &model.Slot{SlotID: id, Title: title, StartTime: start, EndTime: start.Add(time.Hour), Status: status, OwnerID: ownerID}
	_ = m.Create(context.Background(), s)
	return s
}

func (m *mockSlotRepo) snapshot(id string) model.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.slots[id]
}

// ── Mock ExchangeRepository ──

type mockExchangeRepo struct {
	mu        sync.Mutex
	proposals map[string]*model.ExchangeProposal
	users     *mockUserRepo
	slots     *mockSlotRepo
	seq       int
}

func newMockExchangeRepo(users *mockUserRepo, slots *mockSlotRepo) *mockExchangeRepo {
	return &mockExchangeRepo{proposals: make(map[string]*model.ExchangeProposal), users: users, slots: slots}
}

func (m *mockExchangeRepo) resolve(p *model.ExchangeProposal) *model.ExchangeProposal {
	cp := *p
	ctx := context.Background()
	cp.Proposer, _ = m.users.GetByID(ctx, p.ProposerID)
	cp.Recipient, _ = m.users.GetByID(ctx, p.RecipientID)
	cp.ProposerSlot, _ = m.slots.GetByID(ctx, p.ProposerSlotID)
	cp.TargetSlot, _ = m.slots.GetByID(ctx, p.TargetSlotID)
	return &cp
}

func (m *mockExchangeRepo) Create(_ context.Context, p *model.ExchangeProposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Status == "" {
		p.Status = model.ProposalPending
	}
	// partial unique indexes on pending proposals
	for _, cur := range m.proposals {
		if cur.Status == model.ProposalPending &&
			(cur.ProposerSlotID == p.ProposerSlotID || cur.TargetSlotID == p.TargetSlotID) {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	if p.ProposalID == "" {
		p.ProposalID = fmt.Sprintf("proposal-%d", m.seq)
	}
	now := time.Now().UTC().Add(time.Duration(m.seq) * time.Millisecond)
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	m.proposals[p.ProposalID] = &cp
	return nil
}

func (m *mockExchangeRepo) GetByID(_ context.Context, id string) (*model.ExchangeProposal, error) {
	m.mu.Lock()
	p, ok := m.proposals[id]
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.resolve(p), nil
}

func (m *mockExchangeRepo) list(match func(*model.ExchangeProposal) bool) []model.ExchangeProposal {
	m.mu.Lock()
	var matched []*model.ExchangeProposal
	for _, p := range m.proposals {
		if match(p) {
			matched = append(matched, p)
		}
	}
	m.mu.Unlock()

	out := make([]model.ExchangeProposal, 0, len(matched))
	for _, p := range matched {
		out = append(out, *m.resolve(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockExchangeRepo) ListIncoming(_ context.Context, userID string) ([]model.ExchangeProposal, error) {
	return m.list(func(p *model.ExchangeProposal) bool {
		return p.RecipientID == userID && p.Status == model.ProposalPending
	}), nil
}

func (m *mockExchangeRepo) ListOutgoing(_ context.Context, userID string) ([]model.ExchangeProposal, error) {
	return m.list(func(p *model.ExchangeProposal) bool {
		return p.ProposerID == userID && p.Status == model.ProposalPending
	}), nil
}

func (m *mockExchangeRepo) ListByParticipant(_ context.Context, userID string) ([]model.ExchangeProposal, error) {
	return m.list(func(p *model.ExchangeProposal) bool {
		return p.ProposerID == userID || p.RecipientID == userID
	}), nil
}

func (m *mockExchangeRepo) SetStatus(_ context.Context, p *model.ExchangeProposal, from, to model.ProposalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.proposals[p.ProposalID]
	if !ok || cur.Status != from {
		return pkgerrors.ErrOptimisticLock
	}
	now := time.Now().UTC()
	cur.Status, cur.RespondedAt = to, &now
	p.Status, p.RespondedAt = to, &now
	return nil
}

func (m *mockExchangeRepo) snapshot(id string) model.ExchangeProposal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.proposals[id]
}

// ── Mock Notifier ──

type sentEvent struct {
	UserID string
	Event  notify.Event
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (n *mockNotifier) Publish(_ context.Context, userID string, ev notify.Event) {
	n.mu.Lock()
	n.sent = append(n.sent, sentEvent{UserID: userID, Event: ev})
	n.mu.Unlock()
}

func (n *mockNotifier) events() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.sent...)
}

// ── Fixture ──

type mockRepos struct {
	users     *mockUserRepo
	slots     *mockSlotRepo
	exchanges *mockExchangeRepo
	repo      *repository.Repository
}

func newMockRepos() *mockRepos {
	users := newMockUserRepo()
	slots := newMockSlotRepo(users)
	exchanges := newMockExchangeRepo(users, slots)
	return &mockRepos{
		users:     users,
		slots:     slots,
		exchanges: exchanges,
		repo: &repository.Repository{
			User:     users,
			Slot:     slots,
			Exchange: exchanges,
		},
	}
}
