package statusstore

import (
	"github.com/ogw/sanity-backend/internal/domain/runner"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Selector picks the status source for one run from its connection
// parameters. Precedence: query proxy if the run names one, then the
// server-wide direct connection if one was established at startup, then the
// simulated store.
type Selector struct {
	direct *gorm.DB
	log    *zap.Logger
}

// NewSelector creates a selector. direct may be nil when the server has no
// direct store connection.
func NewSelector(direct *gorm.DB, log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{direct: direct, log: log}
}

// Select resolves the status source for one run.
func (s *Selector) Select(cfg runner.StatusStoreConfig) runner.StatusSource {
	if cfg.ProxyURL != "" {
		return NewProxyClient(cfg, s.log)
	}
	if s.direct != nil {
		return NewDirectSource(s.direct, s.log)
	}
	s.log.Debug("No status store configured, using simulated source")
	return NewSimulatedSource(2, 2)
}
