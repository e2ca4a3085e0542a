package main

import (
	"fmt"

	"taskman/todo-web/api"
	"taskman/todo-web/config"
	"taskman/todo-web/db"
	"taskman/todo-web/pkg/security"
	"taskman/todo-web/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if config.SeedAdminRequested() {
		d, err := db.New()
		if err != nil {
			panic(err)
		}

		if err := service.SeedAdmin(d, security.New()); err != nil {
			panic(err)
		}

		fmt.Println("Admin account seeded")
		return
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
