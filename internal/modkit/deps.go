// Package modkit wires service modules: the shared dependency bundle,
// the option bag their constructors accept, and the Built bundle that
// records what a module mounted
package modkit

import (
	"spinlog/internal/modkit/repokit"
	"spinlog/internal/platform/config"
	"spinlog/internal/platform/logger"
)

// Deps is handed to every module constructor. Wiring only; modules take
// what they use and ignore the rest
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
}
