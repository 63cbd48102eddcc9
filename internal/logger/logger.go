package logger

import (
	"log"

	"go.uber.org/zap"
)

var L *zap.Logger

// Init builds the process-wide logger. Development mode uses the console
// encoder, everything else gets JSON.
func Init(development bool) {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	L = l
}

func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
