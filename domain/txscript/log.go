package txscript

import (
	"github.com/kaspanet/parcelsdk/infrastructure/logger"
)

var log = logger.RegisterSubSystem("SCRP")
