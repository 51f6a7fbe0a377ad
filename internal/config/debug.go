package config

import "os"

func IsDebug() bool {
	return os.Getenv("ROOMBOT_DEBUG") == "1"
}
