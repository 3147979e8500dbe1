package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
	"github.com/uslanozan/asset-smith/repository"
)

type AssetHandler struct {
	repo *repository.AssetRepo
	log  *logger.Logger
}

func NewAssetHandler(repo *repository.AssetRepo, log *logger.Logger) *AssetHandler {
	return &AssetHandler{repo: repo, log: log}
}

// POST /assets
func (h *AssetHandler) Create(c *gin.Context) {
	var in models.AssetCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidation(c, err)
		return
	}
	asset, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// GET /assets
func (h *AssetHandler) List(c *gin.Context) {
	assets, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

// GET /assets/:asset_id
func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}
	asset, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// PUT /assets/:asset_id - tüm alanlar zorunlu, kayıt tamamen değiştirilir
func (h *AssetHandler) Update(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}
	var in models.AssetUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidation(c, err)
		return
	}
	asset, err := h.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// DELETE /assets/:asset_id
func (h *AssetHandler) Delete(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}
	if _, err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Asset deleted"})
}

// assetID: tam sayı olmayan id 422 döner; negatif, sıfır ya da aralık dışı id hiçbir kayda karşılık gelmediği için 404.
func assetID(c *gin.Context) (uint, bool) {
	raw := c.Param("asset_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			respondStoreError(c, repository.ErrAssetNotFound)
			return 0, false
		}
		respondValidation(c, fmt.Errorf("asset_id must be an integer, got %q", raw))
		return 0, false
	}
	if id <= 0 || uint64(id) > uint64(^uint(0)) {
		respondStoreError(c, repository.ErrAssetNotFound)
		return 0, false
	}
	return uint(id), true
}
