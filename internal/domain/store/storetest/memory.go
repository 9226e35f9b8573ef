// Package storetest provides an in-memory store.Transactional for tests of
// code that runs against the swap store. Atomic units are serialized and
// work on a copy of the state that is only published on success.
package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/ledger"
	"github.com/rewear/swap-platform/internal/domain/outbox"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/store"
	"github.com/rewear/swap-platform/internal/domain/swap"
	"github.com/rewear/swap-platform/internal/domain/user"
)

// Operation names accepted by FailOn
const (
	OpCreateUser           = "CreateUser"
	OpAdjustUserPoints     = "AdjustUserPoints"
	OpSetItemStatus        = "SetItemStatus"
	OpCreateSwap           = "CreateSwap"
	OpSetSwapStatus        = "SetSwapStatus"
	OpGetSwapDetails       = "GetSwapDetails"
	OpAppendLedgerEntry    = "AppendLedgerEntry"
	OpEnqueueOutboxMessage = "EnqueueOutboxMessage"
)

type state struct {
	users   map[uuid.UUID]*user.User
	items   map[uuid.UUID]*item.Item
	swaps   map[uuid.UUID]*swap.Swap
	ledger  []*ledger.Entry
	outbox  []*outbox.Message
	nextOut int64
}

func newState() *state {
	return &state{
		users: map[uuid.UUID]*user.User{},
		items: map[uuid.UUID]*item.Item{},
		swaps: map[uuid.UUID]*swap.Swap{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	for id, it := range s.items {
		c.items[id] = copyItem(it)
	}
	for id, sw := range s.swaps {
		cp := *sw
		c.swaps[id] = &cp
	}
	c.ledger = append(c.ledger, s.ledger...)
	c.outbox = append(c.outbox, s.outbox...)
	c.nextOut = s.nextOut
	return c
}

func copyItem(it *item.Item) *item.Item {
	cp := *it
	cp.ImageURLs = append([]string{}, it.ImageURLs...)
	return &cp
}

// Memory is an in-memory store.Transactional
type Memory struct {
	txMu sync.Mutex // serializes atomic units

	mu       sync.RWMutex
	current  *state
	failures map[string]error

	// AfterRead, when set, runs after every read made outside an atomic unit.
	// Tests use it to interleave a competing operation between a caller's
	// precondition checks and its atomic unit.
	AfterRead func(op string)
}

var _ store.Transactional = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		current:  newState(),
		failures: map[string]error{},
	}
}

// FailOn makes every later call of op inside an atomic unit return err.
// A nil err clears the failure.
func (m *Memory) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// PutUser seeds or replaces a user
func (m *Memory) PutUser(u *user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.current.users[u.ID] = &cp
}

// PutItem seeds or replaces an item
func (m *Memory) PutItem(it *item.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.items[it.ID] = copyItem(it)
}

// User returns the committed user, or nil
func (m *Memory) User(id uuid.UUID) *user.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.current.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

// Item returns the committed item, or nil
func (m *Memory) Item(id uuid.UUID) *item.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.current.items[id]
	if !ok {
		return nil
	}
	return copyItem(it)
}

// Swaps returns every committed swap on an item
func (m *Memory) Swaps(itemID uuid.UUID) []*swap.Swap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*swap.Swap
	for _, s := range m.current.swaps {
		if s.ItemID == itemID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out
}

// Ledger returns the committed entries of a user in append order
func (m *Memory) Ledger(userID uuid.UUID) []*ledger.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*ledger.Entry
	for _, e := range m.current.ledger {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// LedgerSum returns the sum of a user's committed deltas
func (m *Memory) LedgerSum(userID uuid.UUID) int64 {
	var sum int64
	for _, e := range m.Ledger(userID) {
		sum += e.Delta
	}
	return sum
}

// Outbox returns the committed outbox messages in enqueue order
func (m *Memory) Outbox() []*outbox.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*outbox.Message{}, m.current.outbox...)
}

// RunAtomic runs fn against a private copy of the state and publishes the
// copy only when fn returns nil
func (m *Memory) RunAtomic(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	working := m.current.clone()
	failures := make(map[string]error, len(m.failures))
	for op, err := range m.failures {
		failures[op] = err
	}
	m.mu.RUnlock()

	if err := fn(ctx, &txView{s: working, failures: failures}); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = working
	m.mu.Unlock()
	return nil
}

func (m *Memory) read(op string, fn func(v *txView) error) error {
	m.mu.RLock()
	err := fn(&txView{s: m.current})
	m.mu.RUnlock()
	if m.AfterRead != nil {
		m.AfterRead(op)
	}
	return err
}

func (m *Memory) write(ctx context.Context, fn func(tx store.Store) error) error {
	return m.RunAtomic(ctx, func(_ context.Context, tx store.Store) error { return fn(tx) })
}

func (m *Memory) CreateUser(ctx context.Context, u *user.User) error {
	return m.write(ctx, func(tx store.Store) error { return tx.CreateUser(ctx, u) })
}

func (m *Memory) GetUser(ctx context.Context, id uuid.UUID) (u *user.User, err error) {
	err = m.read("GetUser", func(v *txView) error {
		u, err = v.GetUser(ctx, id)
		return err
	})
	return u, err
}

func (m *Memory) AdjustUserPoints(ctx context.Context, id uuid.UUID, delta int64) (u *user.User, err error) {
	err = m.write(ctx, func(tx store.Store) error {
		u, err = tx.AdjustUserPoints(ctx, id, delta)
		return err
	})
	return u, err
}

func (m *Memory) GetItem(ctx context.Context, id uuid.UUID) (it *item.Item, err error) {
	err = m.read("GetItem", func(v *txView) error {
		it, err = v.GetItem(ctx, id)
		return err
	})
	return it, err
}

func (m *Memory) SetItemStatus(ctx context.Context, id uuid.UUID, from, to shared.ItemStatus) (it *item.Item, err error) {
	err = m.write(ctx, func(tx store.Store) error {
		it, err = tx.SetItemStatus(ctx, id, from, to)
		return err
	})
	return it, err
}

func (m *Memory) CreateSwap(ctx context.Context, s *swap.Swap) error {
	return m.write(ctx, func(tx store.Store) error { return tx.CreateSwap(ctx, s) })
}

func (m *Memory) GetSwap(ctx context.Context, id uuid.UUID) (s *swap.Swap, err error) {
	err = m.read("GetSwap", func(v *txView) error {
		s, err = v.GetSwap(ctx, id)
		return err
	})
	return s, err
}

func (m *Memory) GetSwapDetails(ctx context.Context, id uuid.UUID) (d *swap.Details, err error) {
	err = m.read(OpGetSwapDetails, func(v *txView) error {
		d, err = v.GetSwapDetails(ctx, id)
		return err
	})
	return d, err
}

func (m *Memory) SetSwapStatus(ctx context.Context, id uuid.UUID, from, to shared.SwapStatus) (s *swap.Swap, err error) {
	err = m.write(ctx, func(tx store.Store) error {
		s, err = tx.SetSwapStatus(ctx, id, from, to)
		return err
	})
	return s, err
}

func (m *Memory) ListSwaps(ctx context.Context, filter swap.ListFilter) (out []*swap.Details, total int64, err error) {
	err = m.read("ListSwaps", func(v *txView) error {
		out, total, err = v.ListSwaps(ctx, filter)
		return err
	})
	return out, total, err
}

func (m *Memory) AppendLedgerEntry(ctx context.Context, entry *ledger.Entry) error {
	return m.write(ctx, func(tx store.Store) error { return tx.AppendLedgerEntry(ctx, entry) })
}

func (m *Memory) EnqueueOutboxMessage(ctx context.Context, message *outbox.Message) error {
	return m.write(ctx, func(tx store.Store) error { return tx.EnqueueOutboxMessage(ctx, message) })
}

// txView applies operations to one state with the same guards as the
// PostgreSQL store
type txView struct {
	s        *state
	failures map[string]error
}

func (v *txView) fail(op string) error {
	return v.failures[op]
}

func (v *txView) CreateUser(_ context.Context, u *user.User) error {
	if err := v.fail(OpCreateUser); err != nil {
		return err
	}
	for _, existing := range v.s.users {
		if existing.Email == u.Email {
			return shared.NewConflict("a user with this email already exists")
		}
	}
	cp := *u
	v.s.users[u.ID] = &cp
	return nil
}

func (v *txView) GetUser(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := v.s.users[id]
	if !ok {
		return nil, user.NotFoundError(id)
	}
	cp := *u
	return &cp, nil
}

func (v *txView) AdjustUserPoints(_ context.Context, id uuid.UUID, delta int64) (*user.User, error) {
	if err := v.fail(OpAdjustUserPoints); err != nil {
		return nil, err
	}
	u, ok := v.s.users[id]
	if !ok {
		return nil, user.NotFoundError(id)
	}
	if u.Points+delta < 0 {
		return nil, shared.InsufficientFundsError{UserID: id, Required: -delta, Available: u.Points}
	}
	u.Points += delta
	cp := *u
	return &cp, nil
}

func (v *txView) GetItem(_ context.Context, id uuid.UUID) (*item.Item, error) {
	it, ok := v.s.items[id]
	if !ok {
		return nil, item.NotFoundError(id)
	}
	return copyItem(it), nil
}

func (v *txView) SetItemStatus(_ context.Context, id uuid.UUID, from, to shared.ItemStatus) (*item.Item, error) {
	if err := v.fail(OpSetItemStatus); err != nil {
		return nil, err
	}
	it, ok := v.s.items[id]
	if !ok || it.Status != from || it.IsDeleted() {
		return nil, shared.NewConflict("item %s is no longer %s", id, from)
	}
	it.Status = to
	return copyItem(it), nil
}

func (v *txView) CreateSwap(_ context.Context, s *swap.Swap) error {
	if err := v.fail(OpCreateSwap); err != nil {
		return err
	}
	for _, existing := range v.s.swaps {
		if existing.ItemID == s.ItemID && existing.IsPending() {
			return shared.NewConflict("item %s already has a pending swap", s.ItemID)
		}
	}
	cp := *s
	v.s.swaps[s.ID] = &cp
	return nil
}

func (v *txView) GetSwap(_ context.Context, id uuid.UUID) (*swap.Swap, error) {
	s, ok := v.s.swaps[id]
	if !ok {
		return nil, swap.NotFoundError(id)
	}
	cp := *s
	return &cp, nil
}

func (v *txView) details(s *swap.Swap) *swap.Details {
	d := &swap.Details{Swap: *s}
	if it, ok := v.s.items[s.ItemID]; ok {
		d.Item = *copyItem(it)
		if owner, ok := v.s.users[it.OwnerID]; ok {
			d.Owner = owner.Summary()
		}
	}
	if requester, ok := v.s.users[s.RequesterID]; ok {
		d.Requester = requester.Summary()
	}
	return d
}

func (v *txView) GetSwapDetails(_ context.Context, id uuid.UUID) (*swap.Details, error) {
	if err := v.fail(OpGetSwapDetails); err != nil {
		return nil, err
	}
	s, ok := v.s.swaps[id]
	if !ok {
		return nil, swap.NotFoundError(id)
	}
	return v.details(s), nil
}

func (v *txView) SetSwapStatus(_ context.Context, id uuid.UUID, from, to shared.SwapStatus) (*swap.Swap, error) {
	if err := v.fail(OpSetSwapStatus); err != nil {
		return nil, err
	}
	s, ok := v.s.swaps[id]
	if !ok || s.Status != from {
		return nil, shared.NewConflict("swap %s is no longer %s", id, from)
	}
	s.Status = to
	cp := *s
	return &cp, nil
}

func (v *txView) ListSwaps(_ context.Context, filter swap.ListFilter) ([]*swap.Details, int64, error) {
	matched := []*swap.Swap{}
	for _, s := range v.s.swaps {
		if filter.RequesterID != uuid.Nil && s.RequesterID != filter.RequesterID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	out := []*swap.Details{}
	for i := filter.Offset; i < len(matched) && len(out) < filter.Limit; i++ {
		out = append(out, v.details(matched[i]))
	}
	return out, total, nil
}

func (v *txView) AppendLedgerEntry(_ context.Context, entry *ledger.Entry) error {
	if err := v.fail(OpAppendLedgerEntry); err != nil {
		return err
	}
	cp := *entry
	v.s.ledger = append(v.s.ledger, &cp)
	return nil
}

func (v *txView) EnqueueOutboxMessage(_ context.Context, message *outbox.Message) error {
	if err := v.fail(OpEnqueueOutboxMessage); err != nil {
		return err
	}
	v.s.nextOut++
	cp := *message
	cp.ID = v.s.nextOut
	message.ID = cp.ID
	v.s.outbox = append(v.s.outbox, &cp)
	return nil
}
