package key

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Catalog errors.
var (
	// ErrEmptyKeyName is returned when registering a key without a name.
	ErrEmptyKeyName = errors.New("key name cannot be empty")

	// ErrInvalidKeyCode is returned when registering a key with a non-positive code.
	ErrInvalidKeyCode = errors.New("key code must be positive")

	// ErrKeyConflict is returned when a name or code already belongs to
	// another key.
	ErrKeyConflict = errors.New("key conflicts with a registered key")
)

// standardKeys is the browser key-code table every catalog starts from.
var standardKeys = []Key{
	{"A", 65}, {"B", 66}, {"C", 67}, {"D", 68}, {"E", 69}, {"F", 70},
	{"G", 71}, {"H", 72}, {"I", 73}, {"J", 74}, {"K", 75}, {"L", 76},
	{"M", 77}, {"N", 78}, {"O", 79}, {"P", 80}, {"Q", 81}, {"R", 82},
	{"S", 83}, {"T", 84}, {"U", 85}, {"V", 86}, {"W", 87}, {"X", 88},
	{"Y", 89}, {"Z", 90},

	{"0", 48}, {"1", 49}, {"2", 50}, {"3", 51}, {"4", 52},
	{"5", 53}, {"6", 54}, {"7", 55}, {"8", 56}, {"9", 57},

	{"Numpad 0", 96}, {"Numpad 1", 97}, {"Numpad 2", 98}, {"Numpad 3", 99},
	{"Numpad 4", 100}, {"Numpad 5", 101}, {"Numpad 6", 102}, {"Numpad 7", 103},
	{"Numpad 8", 104}, {"Numpad 9", 105},
	{"Multiply", 106}, {"Add", 107}, {"Subtract", 109}, {"Decimal", 110}, {"Divide", 111},

	{"F1", 112}, {"F2", 113}, {"F3", 114}, {"F4", 115}, {"F5", 116},
	{"F6", 117}, {"F7", 118}, {"F8", 119}, {"F9", 120}, {"F10", 121},
	{"F11", 122}, {"F12", 123}, {"F13", 124}, {"F14", 125}, {"F15", 126},

	{"Backspace", 8}, {"Tab", 9}, {"Enter", 13},
	Shift, Ctrl, Alt, Meta, MetaRight,
	{"Caps Lock", 20}, {"Esc", 27}, {"Spacebar", 32},
	{"Page Up", 33}, {"Page Down", 34}, {"End", 35}, {"Home", 36},
	{"Left", 37}, {"Up", 38}, {"Right", 39}, {"Down", 40},
	{"Insert", 45}, {"Delete", 46},
	{"Num Lock", 144}, {"ScrLk", 145}, {"Pause/Break", 19},

	{"; :", 186}, {"= +", 187}, {",", 188}, {"- _", 189}, {".", 190},
	{"/ ?", 191}, {"` ~", 192}, {"[ {", 219}, {"\\ |", 220}, {"] }", 221},
	{"\" '", 222},
}

// Catalog maps key names to key codes and back.
// A new catalog holds the standard table; Register extends it.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]Key
	byCode map[int]Key
	order  []Key
}

// NewCatalog creates a catalog populated with the standard key table.
func NewCatalog() *Catalog {
	c := &Catalog{
		byName: make(map[string]Key, len(standardKeys)),
		byCode: make(map[int]Key, len(standardKeys)),
		order:  make([]Key, 0, len(standardKeys)),
	}
	for _, k := range standardKeys {
		c.insertLocked(k)
	}
	return c
}

// ByName returns the key with the given name.
// An exact match wins; otherwise the first case-insensitive match is returned.
func (c *Catalog) ByName(name string) (Key, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if k, ok := c.byName[name]; ok {
		return k, true
	}
	for _, k := range c.order {
		if strings.EqualFold(k.Name, name) {
			return k, true
		}
	}
	return Key{}, false
}

// ByCode returns the key registered for code.
func (c *Catalog) ByCode(code int) (Key, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	k, ok := c.byCode[code]
	return k, ok
}

// MustByName is like ByName but panics on a miss.
// Intended for static tables and tests.
func (c *Catalog) MustByName(name string) Key {
	k, ok := c.ByName(name)
	if !ok {
		panic(fmt.Sprintf("key: unknown key name %q", name))
	}
	return k
}

// IsMeta returns true if code is a modifier key code.
func (c *Catalog) IsMeta(code int) bool {
	return IsMetaCode(code)
}

// Register adds a custom key to the catalog and returns it.
//
// Registering a key that already exists returns the existing entry; the
// name may differ in case. A name bound to a different code, or a code
// owned by a different name, is a conflict.
func (c *Catalog) Register(name string, code int) (Key, error) {
	if err := checkKey(name, code); err != nil {
		return Key{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k, known, err := c.resolveLocked(name, code)
	if err != nil || known {
		return k, err
	}
	c.insertLocked(k)
	return k, nil
}

// RegisterAll registers keys as a single change. If any key fails, none
// is added.
func (c *Catalog) RegisterAll(keys ...Key) error {
	for _, k := range keys {
		if err := checkKey(k.Name, k.Code); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	base := len(c.order)
	for _, k := range keys {
		resolved, known, err := c.resolveLocked(k.Name, k.Code)
		if err != nil {
			c.truncateLocked(base)
			return err
		}
		if !known {
			c.insertLocked(resolved)
		}
	}
	return nil
}

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Catalog{
		byName: maps.Clone(c.byName),
		byCode: maps.Clone(c.byCode),
		order:  slices.Clone(c.order),
	}
}

func checkKey(name string, code int) error {
	if name == "" {
		return ErrEmptyKeyName
	}
	if code <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidKeyCode, code)
	}
	return nil
}

// resolveLocked returns the registered key matching name and code, or a
// new key and false when neither is taken. Caller must hold a lock.
func (c *Catalog) resolveLocked(name string, code int) (Key, bool, error) {
	if existing, ok := c.byName[name]; ok {
		if existing.Code != code {
			return Key{}, false, fmt.Errorf("%w: %q is %d, not %d", ErrKeyConflict, name, existing.Code, code)
		}
		return existing, true, nil
	}
	if owner, ok := c.byCode[code]; ok {
		if strings.EqualFold(owner.Name, name) {
			return owner, true, nil
		}
		return Key{}, false, fmt.Errorf("%w: code %d is %q, not %q", ErrKeyConflict, code, owner.Name, name)
	}
	for _, k := range c.order {
		if strings.EqualFold(k.Name, name) {
			return Key{}, false, fmt.Errorf("%w: %q is %d, not %d", ErrKeyConflict, k.Name, k.Code, code)
		}
	}
	return Key{Name: name, Code: code}, false, nil
}

// Keys returns every key in registration order.
func (c *Catalog) Keys() []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]Key, len(c.order))
	copy(keys, c.order)
	return keys
}

// Len returns the number of registered keys.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// insertLocked adds k. Caller must hold the write lock.
func (c *Catalog) insertLocked(k Key) {
	c.byName[k.Name] = k
	if _, taken := c.byCode[k.Code]; !taken {
		c.byCode[k.Code] = k
	}
	c.order = append(c.order, k)
}

// truncateLocked removes every key added after the first n.
// Caller must hold the write lock.
func (c *Catalog) truncateLocked(n int) {
	for _, k := range c.order[n:] {
		delete(c.byName, k.Name)
		if c.byCode[k.Code] == k {
			delete(c.byCode, k.Code)
		}
	}
	c.order = c.order[:n]
}
