package events

import (
	"context"

	"github.com/uslanozan/asset-smith/models"
)

// Event topic constants
const (
	TopicAssetCreated = "assets.asset.created"
	TopicAssetUpdated = "assets.asset.updated"
	TopicAssetDeleted = "assets.asset.deleted"
)

type AssetCreated struct {
	Asset *models.Asset `json:"asset"`
}

type AssetUpdated struct {
	Asset *models.Asset `json:"asset"`
}

// Asset silinmeden önceki halidir.
type AssetDeleted struct {
	AssetID uint          `json:"asset_id"`
	Asset   *models.Asset `json:"asset"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
