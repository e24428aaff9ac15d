// Package memory contains the volatile, process-lifetime implementation of the persistence layer.
package memory

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"storefront/internal/domain/entity"
)

// Table names a store table, used to inject per-table id generators.
type Table string

const (
	TableUsers      Table = "users"
	TableAddresses  Table = "addresses"
	TableCategories Table = "categories"
	TableProducts   Table = "products"
	TableVariants   Table = "product_variants"
	TableCarts      Table = "carts"
	TableCartItems  Table = "cart_items"
	TableOrders     Table = "orders"
	TableOrderItems Table = "order_items"
	TableReviews    Table = "reviews"
)

var allTables = []Table{
	TableUsers, TableAddresses, TableCategories, TableProducts, TableVariants,
	TableCarts, TableCartItems, TableOrders, TableOrderItems, TableReviews,
}

// IDGenerator hands out identifiers for one table. Identifiers are never reused.
type IDGenerator interface {
	Next() int64
}

// Sequence is an IDGenerator counting up by one from a starting value.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a sequence whose first id is start+1.
func NewSequence(start int64) *Sequence {
	seq := &Sequence{}
	seq.last.Store(start)

	return seq
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the id generator of a table.
func WithIDGenerator(table Table, gen IDGenerator) Option {
	return func(s *Store) {
		s.ids[table] = gen
	}
}

// tables holds stored rows by value so a shallow map copy is a full snapshot.
type tables struct {
	users      map[int64]entity.User
	addresses  map[int64]entity.Address
	categories map[int64]entity.Category
	products   map[int64]entity.Product
	variants   map[int64]entity.ProductVariant
	carts      map[int64]entity.Cart
	cartItems  map[int64]entity.CartItem
	orders     map[int64]entity.Order
	orderItems map[int64]entity.OrderItem
	reviews    map[int64]entity.Review
}

func newTables() tables {
	return tables{
		users:      make(map[int64]entity.User),
		addresses:  make(map[int64]entity.Address),
		categories: make(map[int64]entity.Category),
		products:   make(map[int64]entity.Product),
		variants:   make(map[int64]entity.ProductVariant),
		carts:      make(map[int64]entity.Cart),
		cartItems:  make(map[int64]entity.CartItem),
		orders:     make(map[int64]entity.Order),
		orderItems: make(map[int64]entity.OrderItem),
		reviews:    make(map[int64]entity.Review),
	}
}

func (t tables) clone() tables {
	return tables{
		users:      maps.Clone(t.users),
		addresses:  maps.Clone(t.addresses),
		categories: maps.Clone(t.categories),
		products:   maps.Clone(t.products),
		variants:   maps.Clone(t.variants),
		carts:      maps.Clone(t.carts),
		cartItems:  maps.Clone(t.cartItems),
		orders:     maps.Clone(t.orders),
		orderItems: maps.Clone(t.orderItems),
		reviews:    maps.Clone(t.reviews),
	}
}

// Store is an identity-keyed in-memory relational store.
// Each table assigns ids from its own generator starting at 1.
type Store struct {
	mu   sync.RWMutex
	data tables
	ids  map[Table]IDGenerator
	now  func() time.Time
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		data: newTables(),
		ids:  make(map[Table]IDGenerator, len(allTables)),
		now:  time.Now,
	}
	for _, table := range allTables {
		s.ids[table] = NewSequence(0)
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewStore is the Fx constructor for the store.
func NewStore() *Store {
	return New()
}

func (s *Store) nextID(table Table) int64 {
	return s.ids[table].Next()
}

// access serializes repository calls. Outside a transaction every call takes the
// store lock itself; inside one the transaction already holds the write lock.
type access struct {
	store *Store
	inTx  bool
}

func (a access) rlock() func() {
	if a.inTx {
		return func() {}
	}
	a.store.mu.RLock()

	return a.store.mu.RUnlock
}

func (a access) lock() func() {
	if a.inTx {
		return func() {}
	}
	a.store.mu.Lock()

	return a.store.mu.Unlock
}

func (a access) db() *tables {
	return &a.store.data
}

// rowByID copies the row stored under id, or returns nil when there is none.
func rowByID[T any](rows map[int64]T, id int64) *T {
	row, ok := rows[id]
	if !ok {
		return nil
	}

	return &row
}

// sortedByID returns the map's values in id order, which is insertion order.
func sortedByID[T any](rows map[int64]T, keep func(*T) bool) []*T {
	ids := slices.Sorted(maps.Keys(rows))
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		row := rows[id]
		if keep == nil || keep(&row) {
			out = append(out, &row)
		}
	}

	return out
}
