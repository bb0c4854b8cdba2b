package recipes

import "github.com/matt-dz/platefeed/internal/projection"

type ListRecipesResponse struct {
	Count   int64               `json:"count"`
	Page    int32               `json:"page"`
	Limit   int32               `json:"limit"`
	Results []projection.Recipe `json:"results"`
}
