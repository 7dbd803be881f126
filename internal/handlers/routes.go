package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the admin API under /api
func RegisterRoutes(router gin.IRouter) {
	router.GET("/health", HealthCheck)

	api := router.Group("/api")
	{
		waste := api.Group("/waste")
		{
			waste.GET("/config", GetWasteConfig)
			waste.PUT("/config", UpdateWasteConfig)
			waste.POST("/suggest", SuggestWastePrice)
			waste.POST("/generate", GenerateWastePrices)
			waste.GET("/prices", ListWastePrices)
			waste.PATCH("/prices/:id/status", UpdateWastePriceStatus)
		}

		index := api.Group("/index")
		{
			index.GET("/values", ListIndexValues)
			index.PUT("/values", UpsertIndexValue)
			index.DELETE("/values/:id", DeleteIndexValue)
			index.POST("/values/import", ImportIndexValues)
			index.POST("/quote", QuoteSellPrice)
			index.GET("/segments/:segmentId/prices", GetSegmentPrices)
		}

		api.GET("/kvi/band", GetKVIBand)

		segments := api.Group("/segments")
		{
			segments.GET("", ListSegments)
			segments.GET("/:id", GetSegment)
			segments.PUT("", UpsertSegment)
		}

		warehouses := api.Group("/warehouses")
		{
			warehouses.GET("", ListWarehouses)
			warehouses.PUT("", UpsertWarehouse)
		}

		cat := api.Group("/catalog")
		{
			cat.GET("/products", ListProducts)
			cat.GET("/vendors", ListVendors)
			cat.GET("/expiry", ListExpiry)
			cat.POST("/cache/invalidate", InvalidateCatalogCache)
		}
	}
}
