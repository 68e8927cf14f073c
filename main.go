// @title Fork-it Session API
// @version 1.0
// @description Backend API for group restaurant voting sessions
package main

import (
	"errors"

	"github.com/jsaveker/fork-it-app/api"
	_ "github.com/jsaveker/fork-it-app/docs"
	"github.com/jsaveker/fork-it-app/logging"
	"github.com/spf13/viper"
)

func main() {
	logging.BootstrapLogger()

	// Load env
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logging.Log.Errorf("Failed to read config file: %v", err)
			panic("Failed to read config file: " + err.Error())
		}
		logging.Log.Warn("No config file found, relying on defaults and environment")
	}

	// Read config
	config := api.ReadConfig()

	// Start the service (inside the lambda)
	service := api.NewServer(config)
	service.Start()
}
