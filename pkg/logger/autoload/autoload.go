// Package autoload configures the global logger from LOG_* variables on import.
package autoload

import (
	configx "github.com/kejionglee/iphall-landing-page/pkg/config"
	logx "github.com/kejionglee/iphall-landing-page/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
