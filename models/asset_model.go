package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AssetFields, POST ve PUT gövdelerinin ortak şeklidir. Alanlar pointer çünkü
// "alan hiç gönderilmedi" ile "sıfır değer gönderildi" ayrımı yapılmalı; 0 değer ve boş isim geçerlidir.
type AssetFields struct {
	Name         *string   `json:"name" binding:"required"`
	Category     *string   `json:"category" binding:"required"`
	Value        *LaxFloat `json:"value" binding:"required"`
	PurchaseDate *Date     `json:"purchase_date" binding:"required"`
	Status       *string   `json:"status" binding:"required"`
}

// ApplyTo, id dışındaki tüm alanları hedef kayda yazar (tam değiştirme, birleştirme yok).
func (f AssetFields) ApplyTo(a *Asset) {
	if f.Name != nil {
		a.Name = *f.Name
	}
	if f.Category != nil {
		a.Category = *f.Category
	}
	if f.Value != nil {
		a.Value = float64(*f.Value)
	}
	if f.PurchaseDate != nil {
		a.PurchaseDate = *f.PurchaseDate
	}
	if f.Status != nil {
		a.Status = *f.Status
	}
}

// LaxFloat JSON'da sayıyı ya da sayı içeren string'i kabul eder ("999.99" -> 999.99).
// NaN ve Inf reddedilir, cevap JSON'a yazılamaz.
type LaxFloat float64

func (f *LaxFloat) UnmarshalJSON(b []byte) error {
	raw := string(bytes.TrimSpace(b))
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("value must be a number, got %s", raw)
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("value must be a number, got %s", b)
	}
	*f = LaxFloat(v)
	return nil
}

// POST /assets gövdesi
type AssetCreate struct {
	AssetFields
}

// PUT /assets/:id gövdesi
type AssetUpdate struct {
	AssetFields
}

// NewAssetFields tüm alanları dolu bir gövde üretir (CLI ve testler için).
func NewAssetFields(name, category string, value float64, purchaseDate Date, status string) AssetFields {
	v := LaxFloat(value)
	return AssetFields{
		Name:         &name,
		Category:     &category,
		Value:        &v,
		PurchaseDate: &purchaseDate,
		Status:       &status,
	}
}

// Silme sonrası dönen mesaj
type MessageResponse struct {
	Message string `json:"message"`
}

// Hata gövdesi; 404, 422 ve 500 hep bu şekilde döner.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
