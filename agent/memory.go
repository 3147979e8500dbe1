package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uslanozan/asset-smith/models"
)

// MemoryStore, session_id ile gelen isteklerin konuşma geçmişini saklar.
type MemoryStore interface {
	// Load oturumun son mesajlarını eskiden yeniye döndürür. Bilinmeyen oturum boş liste demektir.
	Load(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	Append(ctx context.Context, sessionID string, msgs ...models.ChatMessage) error
	Clear(ctx context.Context, sessionID string) error
}

// GormMemoryStore mesajları checkpoint tablosunda tutar.
type GormMemoryStore struct {
	db    *gorm.DB
	limit int
}

// limit <= 0 ise tüm geçmiş yüklenir.
func NewGormMemoryStore(db *gorm.DB, limit int) *GormMemoryStore {
	return &GormMemoryStore{db: db, limit: limit}
}

func (s *GormMemoryStore) Load(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	var rows []models.Checkpoint
	q := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("seq desc")
	if s.limit > 0 {
		q = q.Limit(s.limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	msgs := make([]models.ChatMessage, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		msg, err := fromCheckpoint(rows[i])
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return trimOrphans(msgs), nil
}

func (s *GormMemoryStore) Append(ctx context.Context, sessionID string, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.Checkpoint{}).
			Where("session_id = ?", sessionID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read last seq: %w", err)
		}

		now := time.Now().UTC()
		rows := make([]models.Checkpoint, 0, len(msgs))
		for i, m := range msgs {
			row, err := toCheckpoint(sessionID, last+int64(i)+1, now, m)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		return nil
	})
}

func (s *GormMemoryStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.Checkpoint{}).Error; err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}

func toCheckpoint(sessionID string, seq int64, at time.Time, m models.ChatMessage) (models.Checkpoint, error) {
	row := models.Checkpoint{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Seq:        seq,
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
		ToolName:   m.Name,
		CreatedAt:  at,
	}
	if len(m.ToolCalls) > 0 {
		tcJSON, err := json.Marshal(m.ToolCalls)
		if err != nil {
			return models.Checkpoint{}, fmt.Errorf("failed to encode tool calls: %w", err)
		}
		row.ToolCallsJSON = tcJSON
	}
	return row, nil
}

func fromCheckpoint(row models.Checkpoint) (models.ChatMessage, error) {
	msg := models.ChatMessage{
		Role:       row.Role,
		Content:    row.Content,
		ToolCallID: row.ToolCallID,
		Name:       row.ToolName,
	}
	if len(row.ToolCallsJSON) > 0 {
		if err := json.Unmarshal(row.ToolCallsJSON, &msg.ToolCalls); err != nil {
			return models.ChatMessage{}, fmt.Errorf("checkpoint %s: bozuk tool_calls: %w", row.ID, err)
		}
	}
	return msg, nil
}

// trimOrphans pencerenin başındaki, çağrısı pencere dışında kalmış tool mesajlarını atar.
// Sağlayıcılar tool mesajından önce onu isteyen asistan mesajını bekler.
func trimOrphans(msgs []models.ChatMessage) []models.ChatMessage {
	i := 0
	for i < len(msgs) && msgs[i].Role == models.RoleTool {
		i++
	}
	return msgs[i:]
}
