package commands

import (
	"github.com/rs/zerolog/log"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/store"
)

// session is one opened store and the tracker loaded from it.
type session struct {
	Config      store.Config
	Persistence store.Persistence
	Tracker     *app.Tracker
}

func (s *session) Close() {
	if s.Persistence == nil {
		return
	}
	if err := s.Persistence.Close(); err != nil {
		log.Warn().Err(err).Msg("closing store")
	}
}

// openSession is swapped out in tests.
var openSession = func() (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", p.Path()).Str("backend", string(cfg.Backend())).Msg("store opened")
	return &session{Config: cfg, Persistence: p, Tracker: app.Open(p)}, nil
}
