package parcel

import (
	"fmt"
	"os"
	"testing"

	"github.com/kaspanet/parcelsdk/infrastructure/logger"
)

func TestMain(m *testing.M) {
	err := logger.InitLogStderr(logger.LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start the log backend: %s\n", err)
		os.Exit(1)
	}
	log.SetLevel(logger.LevelDebug)

	os.Exit(m.Run())
}
