package storefront

import (
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// TopicCartChanged carries (visitorID string, lines []CartLine) after every
// cart mutation. Subscribers run synchronously in mutation order.
const TopicCartChanged = "cart:changed"

// cartBucket is the bbolt bucket holding one serialized cart per visitor,
// mirroring the browser storage key the web client used.
var cartBucket = []byte("cart")

var cartJSON = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrLineNotFound   = errors.New("cart: line not found")
	ErrBadQuantity    = errors.New("cart: quantity must be positive")
	ErrBadUnitPrice   = errors.New("cart: unit price cannot be negative")
	ErrMissingItem    = errors.New("cart: item reference is required")
	ErrMissingVisitor = errors.New("cart: visitor id is required")
)

// ChosenCustomization is one selected add-on with its chosen quantity.
// Price is a snapshot in minor units taken when the line was added.
type ChosenCustomization struct {
	ID       int64  `json:"id,string"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// CartLine is one cart entry. Two lines of the same item with different
// add-on choices stay separate; the line id keys every later mutation.
type CartLine struct {
	ID             string                `json:"id"`
	ItemID         int64                 `json:"item_id,string"`
	Name           string                `json:"name"`
	UnitPrice      int64                 `json:"unit_price"`
	Quantity       int64                 `json:"quantity"`
	Note           string                `json:"note,omitempty"`
	Customizations []ChosenCustomization `json:"customizations,omitempty"`
}

// Total is this line's price in minor units.
func (l CartLine) Total() int64 {
	return LineTotal(l.UnitPrice, l.Customizations, l.Quantity)
}

// CartStore keeps one cart per visitor in an embedded bbolt file and
// fans out change events over the bus. Mutations persist before the
// event fires; concurrent writers to the same visitor are serialized and
// the last write wins.
type CartStore struct {
	db  *bbolt.DB
	bus EventBus.Bus

	mu    sync.Mutex
	carts map[string]*Cart
}

// OpenCartStore opens (or creates) the cart database at path.
func OpenCartStore(path string) (*CartStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cart: open store")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cart: create bucket")
	}
	return &CartStore{
		db:    db,
		bus:   EventBus.New(),
		carts: make(map[string]*Cart),
	}, nil
}

// Bus exposes the event bus for subscribers (session analytics, tests).
func (s *CartStore) Bus() EventBus.Bus {
	return s.bus
}

// Cart returns the visitor's cart, rehydrating persisted lines on first
// access.
func (s *CartStore) Cart(visitorID string) (*Cart, error) {
	if visitorID == "" {
		return nil, ErrMissingVisitor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, found := s.carts[visitorID]; found {
		return c, nil
	}
	c := &Cart{store: s, visitorID: visitorID}
	if err := s.loadInto(c); err != nil {
		return nil, err
	}
	s.carts[visitorID] = c
	return c, nil
}

// Drop forgets the visitor's cart entirely, removing the persisted copy.
func (s *CartStore) Drop(visitorID string) error {
	s.mu.Lock()
	delete(s.carts, visitorID)
	s.mu.Unlock()
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cartBucket).Delete([]byte(visitorID))
	})
}

// Close flushes and closes the underlying database.
func (s *CartStore) Close() error {
	return s.db.Close()
}

func (s *CartStore) loadInto(c *Cart) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(cartBucket).Get([]byte(c.visitorID))
		if raw == nil {
			return nil
		}
		if err := cartJSON.Unmarshal(raw, &c.lines); err != nil {
			// A corrupt record should not brick the visitor's session.
			zap.S().Warnf("cart: discarding unreadable cart for %s: %s", c.visitorID, err)
			c.lines = nil
		}
		return nil
	})
}

func (s *CartStore) persist(visitorID string, lines []CartLine) error {
	raw, err := cartJSON.Marshal(lines)
	if err != nil {
		return errors.Wrap(err, "cart: encode")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cartBucket).Put([]byte(visitorID), raw)
	})
}

// Cart holds one visitor's lines in insertion order.
type Cart struct {
	store     *CartStore
	visitorID string

	mu    sync.Mutex
	lines []CartLine
}

// Add appends a line and returns its generated id.
func (c *Cart) Add(line CartLine) (string, error) {
	if line.ItemID == 0 {
		return "", ErrMissingItem
	}
	if line.Quantity <= 0 {
		return "", ErrBadQuantity
	}
	if line.UnitPrice < 0 {
		return "", ErrBadUnitPrice
	}
	for _, ci := range line.Customizations {
		if ci.Quantity <= 0 || ci.Price < 0 {
			return "", ErrBadQuantity
		}
	}
	line.ID = uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
	return line.ID, c.commit()
}

// SetQuantity replaces the quantity of an existing line. Zero removes the
// line; a cart never keeps zero-quantity records and never goes negative.
func (c *Cart) SetQuantity(lineID string, quantity int64) error {
	if quantity < 0 {
		return ErrBadQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			if quantity == 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			} else {
				c.lines[i].Quantity = quantity
			}
			return c.commit()
		}
	}
	return ErrLineNotFound
}

// Remove deletes a line; removing an unknown line is an error.
func (c *Cart) Remove(lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.commit()
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 {
		return nil
	}
	c.lines = nil
	return c.commit()
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subtotal is the sum of all line totals in minor units.
func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Subtotal(c.lines)
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) snapshot() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	for i := range out {
		if len(c.lines[i].Customizations) > 0 {
			out[i].Customizations = append([]ChosenCustomization(nil), c.lines[i].Customizations...)
		}
	}
	return out
}

// commit persists the current lines and notifies subscribers. Called with
// c.mu held.
func (c *Cart) commit() error {
	snap := c.snapshot()
	if err := c.store.persist(c.visitorID, snap); err != nil {
		return err
	}
	c.store.bus.Publish(TopicCartChanged, c.visitorID, snap)
	return nil
}
