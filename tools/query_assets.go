package tools

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/uslanozan/asset-smith/models"
)

const (
	QueryAssetsName        = "query_assets"
	QueryAssetsDescription = "Query assets from the database using natural language intent."

	noAssetsMessage = "No assets found."
)

// AssetLister, aracın ihtiyaç duyduğu tek repository işlemidir.
type AssetLister interface {
	List(ctx context.Context) ([]models.Asset, error)
}

type QueryAssetsArgs struct {
	Query string `json:"query" jsonschema:"description=The user's question or intent about the stored assets"`
}

// QueryAssets query'yi filtre olarak kullanmaz; her zaman tüm kayıtları özetler, yorumlamak modele kalır.
func QueryAssets(ctx context.Context, lister AssetLister, query string) (string, error) {
	assets, err := lister.List(ctx)
	if err != nil {
		return "", err
	}
	if len(assets) == 0 {
		return noAssetsMessage, nil
	}

	summary := make([]string, 0, len(assets))
	for _, a := range assets {
		summary = append(summary, a.Name+" ($"+FormatValue(a.Value)+")")
	}
	return "Assets: " + strings.Join(summary, ", "), nil
}

func NewQueryAssetsTool(lister AssetLister) (Tool, error) {
	return NewTool(QueryAssetsName, QueryAssetsDescription, func(ctx context.Context, args QueryAssetsArgs) (string, error) {
		return QueryAssets(ctx, lister, args.Query)
	})
}

// FormatValue float'ı her zaman ondalık kısmıyla yazar: 50 -> "50.0", 999.99 -> "999.99", 1e16 -> "1e+16".
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
