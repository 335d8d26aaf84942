package receivers

import (
	giga "github.com/dogecoinfoundation/gigaledger/pkg"
	"github.com/tjstebbing/conductor"
)

// Sets up standard receivers.
func SetUpReceivers(cond *conductor.Conductor, bus giga.MessageBus, conf giga.Config) {
	// Set up configured loggers
	SetupLoggers(cond, bus, conf)
}
