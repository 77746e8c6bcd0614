// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package selection

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all selection routes with the router.
//
// Description:
//
//	Registers the /v1/selection/* endpoints with the given Gin router
//	group. The router group should already have any required middleware
//	applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/selection/select - Pick a diverse candidate subset
//	POST /v1/selection/complexity - Estimate query complexity
//	POST /v1/selection/expand - Expand a query into variants
//	GET  /v1/selection/health - Health check
//
// Example:
//
//	selector := diverse.NewSelector(diverse.DefaultConfig())
//	handlers := selection.NewHandlers(selector, observability.DefaultMetrics)
//
//	v1 := router.Group("/v1")
//	selection.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	sel := rg.Group("/selection")
	{
		sel.POST("/select", handlers.HandleSelect)
		sel.POST("/complexity", handlers.HandleComplexity)
		sel.POST("/expand", handlers.HandleExpand)
		sel.GET("/health", handlers.HandleHealth)
	}
}
