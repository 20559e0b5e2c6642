package address

import (
	"github.com/kaspanet/parcelsdk/infrastructure/logger"
)

var log = logger.RegisterSubSystem("ADDR")
