package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// DateLayout, purchase_date alanının hem JSON'da hem veritabanında kullandığı takvim formatıdır.
const DateLayout = "2006-01-02"

// Date, saat bilgisi taşımayan bir takvim günüdür ("2024-01-15").
type Date struct {
	time.Time
}

// NewDate verilen günün UTC gece yarısını tutar.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate "YYYY-MM-DD" formatındaki bir metni Date'e çevirir.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value, sürücüye tarihi "YYYY-MM-DD" olarak verir; sqlite, mysql ve postgres bunu date kolonuna yazabilir.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan sürücüden gelen time.Time, string veya []byte değerini kabul eder.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		y, m, day := v.Date()
		*d = NewDate(y, m, day)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	// sqlite bazı sürümlerde "2024-01-15 00:00:00+00:00" döndürür
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType kolon tipini "date" yapar.
func (Date) GormDataType() string {
	return "date"
}

func (Date) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:   "string",
		Format: "date",
	}
}
