package models

import "time"

// Her şeyi manual tanımlıyoruz

// Asset, assets tablosundaki tek kayıttır. ID veritabanı tarafından atanır ve bir daha değişmez.
type Asset struct {
	ID           uint    `gorm:"primaryKey;column:id" json:"id"`
	Name         string  `gorm:"column:name;index" json:"name"`
	Category     string  `gorm:"column:category" json:"category"`
	Value        float64 `gorm:"column:value" json:"value"`
	PurchaseDate Date    `gorm:"column:purchase_date" json:"purchase_date"`
	Status       string  `gorm:"column:status" json:"status"`
}

func (Asset) TableName() string {
	return "assets"
}

// Checkpoint, bir oturumun (session) konuşma hafızasındaki tek bir mesajdır.
// Seq aynı milisaniyede yazılan mesajların sırasını korur.
type Checkpoint struct {
	ID            string    `gorm:"primaryKey;column:id;size:36"`
	SessionID     string    `gorm:"column:session_id;index;size:128"`
	Seq           int64     `gorm:"column:seq"`
	Role          string    `gorm:"column:role;size:16"`
	Content       string    `gorm:"column:content"`
	ToolCallsJSON []byte    `gorm:"column:tool_calls_json"`
	ToolCallID    string    `gorm:"column:tool_call_id;size:64"`
	ToolName      string    `gorm:"column:tool_name;size:64"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (Checkpoint) TableName() string {
	return "checkpoint"
}
