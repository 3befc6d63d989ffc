package main

import "salescrm/internal/app"

// @title           SalesCRM API
// @version         1.0
// @description     Lead ingestion, categorization, distribution, and sales performance API.

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	app.Run()
}
