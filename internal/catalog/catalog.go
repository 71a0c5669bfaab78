package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/pricing"
)

var (
	// ErrMalformedRow is returned when a row is not a valid id,price pair.
	ErrMalformedRow = errors.New("catalog: malformed row")
	// ErrEmptyCatalog is returned by Load when the source holds no products.
	ErrEmptyCatalog = errors.New("catalog: no products")
)

// Catalog is an ordered list of priced products.
type Catalog struct {
	products []cart.LineItem
	index    map[string]int
}

// Load reads the catalog from src. When src names an existing file the file is
// parsed, otherwise src itself is parsed as newline separated rows.
func Load(src string) (*Catalog, error) {
	var (
		c   *Catalog
		err error
	)
	if info, statErr := os.Stat(src); statErr == nil && !info.IsDir() {
		c, err = loadFile(src)
	} else {
		c, err = Parse(strings.NewReader(src))
	}
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

func loadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}

// Parse reads two-column id,price rows without a header. Leading spaces are
// trimmed and blank rows are skipped.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	c := &Catalog{index: make(map[string]int)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 fields, got %d", ErrMalformedRow, line, len(record))
		}
		id := strings.TrimSpace(record[0])
		if id == "" {
			return nil, fmt.Errorf("%w: line %d: empty id", ErrMalformedRow, line)
		}
		price, err := pricing.ParseMoney(record[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		if _, ok := c.index[id]; !ok {
			c.index[id] = len(c.products)
		}
		c.products = append(c.products, cart.LineItem{ID: id, Price: price})
	}
	return c, nil
}

// Products returns the rows in source order.
func (c *Catalog) Products() []cart.LineItem {
	if c == nil {
		return nil
	}
	out := make([]cart.LineItem, len(c.products))
	copy(out, c.products)
	return out
}

// Price returns the price of the first row recorded for id.
func (c *Catalog) Price(id string) (pricing.Money, bool) {
	if c == nil {
		return pricing.Zero, false
	}
	idx, ok := c.index[id]
	if !ok {
		return pricing.Zero, false
	}
	return c.products[idx].Price, true
}

// IDs returns the distinct product ids in source order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.index))
	seen := make(map[string]struct{}, len(c.index))
	for _, p := range c.products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	return ids
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}
