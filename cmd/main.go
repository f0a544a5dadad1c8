package main

import (
	"log"

	"github.com/Musasteel/ProductScannerApp/config"
	"github.com/Musasteel/ProductScannerApp/controllers"
	"github.com/Musasteel/ProductScannerApp/routes"
	"github.com/Musasteel/ProductScannerApp/services"
	"github.com/Musasteel/ProductScannerApp/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Printf("push service unavailable: %v", err)
		push = nil
	}
	services.InitAlertDeps(config.DB, hub, push)

	off := services.NewOpenFoodFactsService()
	cache := services.NewGormProductCache(config.DB)
	writer := services.NewCacheWriter(cache, 64)
	defer writer.Close()
	products := services.NewProductService(off, cache, writer)

	rek, err := services.NewRekognitionService()
	if err != nil {
		log.Printf("image recognition unavailable: %v", err)
		rek = nil
	}

	analysis := services.NewAnalysisService(services.NewAIService())
	scans := services.NewScanService(products, analysis)

	r := routes.SetupRouter(routes.Controllers{
		Products: controllers.NewProductController(products, rek),
		Analysis: controllers.NewAnalysisController(scans),
		Realtime: controllers.NewRealtimeController(hub),
		Devices:  controllers.NewDeviceController(push),
	})
	r.Run(":8080")
}
