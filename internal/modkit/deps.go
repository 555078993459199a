package modkit

import (
	"rosterline/internal/platform/config"
	"rosterline/internal/platform/logger"
	"rosterline/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	Docs store.Docs
	CH   store.Clickhouse
}
