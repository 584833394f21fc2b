package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/govalues/decimal"

	"xchange/internal/models"
)

const (
	orderIDLen      = 10
	orderIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Unit prices are uniform in [0.10, 99.99], expressed in cents.
	minUnitCents = 10
	maxUnitCents = 9999

	maxQuantity = 10

	// Order dates fall within the last ten years.
	dateRangeDays = 3650
)

// Params controls one batch generation run.
type Params struct {
	OrderCount      int
	MaxRowsPerOrder int
	LocalePool      []string
}

// Synthesizer produces batches of related orders and line items. It touches
// no I/O; randomness comes from the injected source.
type Synthesizer struct {
	geo   *GeoRef
	vocab Vocabulary
	rng   *rand.Rand
}

// New creates a synthesizer over the given reference set and vocabulary.
func New(geo *GeoRef, vocab Vocabulary, rng *rand.Rand) *Synthesizer {
	return &Synthesizer{geo: geo, vocab: vocab, rng: rng}
}

// NewDefault creates a seeded synthesizer with the embedded reference set
// and the default vocabulary.
func NewDefault(seed int64) (*Synthesizer, error) {
	geo, err := LoadGeoRef()
	if err != nil {
		return nil, err
	}
	return New(geo, NewFakeVocabulary(uint64(seed)), rand.New(rand.NewSource(seed))), nil
}

// GenerateBatch generates the orders table and its rows table together.
// Every order gets 1..MaxRowsPerOrder rows and a price equal to the sum of
// its rows' line totals, rounded to two decimals.
func (s *Synthesizer) GenerateBatch(p Params) (*models.Batch, error) {
	if p.OrderCount <= 0 {
		return nil, fmt.Errorf("order count must be positive, got %d", p.OrderCount)
	}
	if p.MaxRowsPerOrder <= 0 {
		return nil, fmt.Errorf("max rows per order must be positive, got %d", p.MaxRowsPerOrder)
	}
	if len(p.LocalePool) == 0 {
		p.LocalePool = DefaultLocalePool
	}

	batch := &models.Batch{
		Orders: make([]models.Order, 0, p.OrderCount),
		Rows:   make([]models.OrderRow, 0, p.OrderCount),
	}
	seen := make(map[string]struct{}, p.OrderCount)
	for i := 0; i < p.OrderCount; i++ {
		order, rows, err := s.generateOrder(p, seen)
		if err != nil {
			return nil, err
		}
		batch.Orders = append(batch.Orders, order)
		batch.Rows = append(batch.Rows, rows...)
	}
	return batch, nil
}

func (s *Synthesizer) generateOrder(p Params, seen map[string]struct{}) (models.Order, []models.OrderRow, error) {
	city := s.geo.RandomCity(s.rng)
	country, ok := s.geo.CountryOf(city)
	if !ok {
		return models.Order{}, nil, fmt.Errorf("city %s has no country", city.Name)
	}
	locale := ChooseLocale(p.LocalePool, country.Languages, s.rng)

	id := s.uniqueOrderID(seen)
	rowCount := 1 + s.rng.Intn(p.MaxRowsPerOrder)

	rows := make([]models.OrderRow, 0, rowCount)
	total := decimal.MustNew(0, 2)
	for j := 0; j < rowCount; j++ {
		row, err := s.generateRow(id)
		if err != nil {
			return models.Order{}, nil, err
		}
		total, err = total.Add(row.TotalPrice)
		if err != nil {
			return models.Order{}, nil, fmt.Errorf("sum order %s: %w", id, err)
		}
		rows = append(rows, row)
	}

	order := models.Order{
		ID:           id,
		CustomerName: s.vocab.PersonName(locale),
		Price:        total.Round(2),
		Currency:     country.Currency,
		OrderDate:    s.randomDate(),
		City:         city.Name,
		Country:      country.ISO,
	}
	return order, rows, nil
}

func (s *Synthesizer) generateRow(orderID string) (models.OrderRow, error) {
	cents := int64(minUnitCents + s.rng.Intn(maxUnitCents-minUnitCents+1))
	price, err := decimal.New(cents, 2)
	if err != nil {
		return models.OrderRow{}, err
	}

	quantity := int64(1 + s.rng.Intn(maxQuantity))
	qty, err := decimal.New(quantity, 0)
	if err != nil {
		return models.OrderRow{}, err
	}
	lineTotal, err := price.Mul(qty)
	if err != nil {
		return models.OrderRow{}, fmt.Errorf("line total for order %s: %w", orderID, err)
	}

	return models.OrderRow{
		OrderID:      orderID,
		ProductName:  s.vocab.ProductName(),
		PricePerUnit: price,
		Quantity:     quantity,
		TotalPrice:   lineTotal.Round(2),
	}, nil
}

// uniqueOrderID draws fixed-length identifiers until one is new to this run.
func (s *Synthesizer) uniqueOrderID(seen map[string]struct{}) string {
	buf := make([]byte, orderIDLen)
	for {
		for i := range buf {
			buf[i] = orderIDAlphabet[s.rng.Intn(len(orderIDAlphabet))]
		}
		id := string(buf)
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			return id
		}
	}
}

func (s *Synthesizer) randomDate() time.Time {
	day := time.Now().UTC().AddDate(0, 0, -s.rng.Intn(dateRangeDays))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
