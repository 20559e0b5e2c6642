package main

import "github.com/kaspanet/parcelsdk/infrastructure/logger"

var log = logger.RegisterSubSystem("CMDS")
