package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uslanozan/asset-smith/models"
	"github.com/uslanozan/asset-smith/repository"
)

const assetNotFound = "Asset not found"

func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Detail: detail})
}

// respondValidation body, path ya da tarih hatalarını 422 olarak döner.
func respondValidation(c *gin.Context, err error) {
	respondError(c, http.StatusUnprocessableEntity, err.Error())
}

// respondStoreError repository hatalarını HTTP durumlarına çevirir.
func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrAssetNotFound) {
		respondError(c, http.StatusNotFound, assetNotFound)
		return
	}
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, err.Error())
}
