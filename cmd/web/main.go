// @title           HireFlow API
// @version         1.0
// @description     API трекинга кандидатов: вакансии, интервью-планы, пайплайн (документация Swagger).
// @contact.name    HireFlow
// @contact.email   support@hireflow.dev
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1

package main

import (
	"hireflow_backend/internal/app"

	_ "hireflow_backend/docs"
)

func main() {
	app.Run()
}
