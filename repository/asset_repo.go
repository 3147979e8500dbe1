package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/uslanozan/asset-smith/events"
	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
)

// ErrAssetNotFound, istenen id'ye sahip kayıt olmadığında döner. HTTP katmanı bunu 404'e çevirir.
var ErrAssetNotFound = errors.New("asset not found")

// AssetRepo assets tablosu üzerindeki beş işlemi sunar. Her çağrı kendi context'li gorm oturumunu açar.
type AssetRepo struct {
	db        *gorm.DB
	log       *logger.Logger
	publisher events.Publisher
}

func NewAssetRepo(db *gorm.DB, log *logger.Logger, publisher events.Publisher) *AssetRepo {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &AssetRepo{
		db:        db,
		log:       log.With("repo", "AssetRepo"),
		publisher: publisher,
	}
}

func (r *AssetRepo) Create(ctx context.Context, in models.AssetCreate) (*models.Asset, error) {
	asset := &models.Asset{}
	in.ApplyTo(asset)
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	r.publish(ctx, events.TopicAssetCreated, events.AssetCreated{Asset: asset})
	return asset, nil
}

// List tüm kayıtları id sırasıyla döndürür; boş tabloda nil değil boş slice döner.
func (r *AssetRepo) List(ctx context.Context) ([]models.Asset, error) {
	assets := make([]models.Asset, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

func (r *AssetRepo) Get(ctx context.Context, id uint) (*models.Asset, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// Update id dışındaki tüm alanları gelen değerlerle değiştirir; sıfır değerler de yazılır.
func (r *AssetRepo) Update(ctx context.Context, id uint, in models.AssetUpdate) (*models.Asset, error) {
	tx := r.db.WithContext(ctx)
	asset, err := r.get(tx, id)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(asset)
	// Save tüm kolonları yazar; Updates sıfır değerleri atlardı
	if err := tx.Save(asset).Error; err != nil {
		return nil, fmt.Errorf("update asset %d: %w", id, err)
	}
	r.publish(ctx, events.TopicAssetUpdated, events.AssetUpdated{Asset: asset})
	return asset, nil
}

// Delete kaydı siler ve silinmeden önceki halini döndürür.
func (r *AssetRepo) Delete(ctx context.Context, id uint) (*models.Asset, error) {
	tx := r.db.WithContext(ctx)
	asset, err := r.get(tx, id)
	if err != nil {
		return nil, err
	}
	res := tx.Delete(&models.Asset{}, id)
	if res.Error != nil {
		return nil, fmt.Errorf("delete asset %d: %w", id, res.Error)
	}
	// arada başka bir istek silmiş olabilir
	if res.RowsAffected == 0 {
		return nil, ErrAssetNotFound
	}
	r.publish(ctx, events.TopicAssetDeleted, events.AssetDeleted{AssetID: id, Asset: asset})
	return asset, nil
}

// ---------------------- HELPERS ----------------------

func (r *AssetRepo) get(tx *gorm.DB, id uint) (*models.Asset, error) {
	var asset models.Asset
	err := tx.First(&asset, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset %d: %w", id, err)
	}
	return &asset, nil
}

// Olay yayınlama hatası isteği bozmaz, sadece loglanır.
func (r *AssetRepo) publish(ctx context.Context, topic string, event any) {
	if err := r.publisher.Publish(ctx, topic, event); err != nil {
		r.log.Warn("event publish failed", "topic", topic, "error", err)
	}
}
