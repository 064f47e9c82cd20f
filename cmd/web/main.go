// @title           Lumina API
// @version         1.0
// @description     Каталог работ с модерацией и рейтингом.
// @BasePath        /api/v1

package main

import "lumina_backend/internal/app"

func main() {
	app.Run()
}
