package main

import "github.com/njprem/Travel_planner_APP_BackEnd/internal/app"

func main() {
	app.New().Run()
}
