package main

import (
	"context"
	"fmt"
	"time"

	"gosuda.org/dodesc"
	"gosuda.org/dodesc/internal/config"
	"gosuda.org/dodesc/internal/logging"
)

// consume opens one session per simulated display object and polls all of
// them once per frame until ctx is done.
func consume(ctx context.Context, mem []byte, cfg *config.Config) error {
	log := logging.Named("consumer")

	link, err := dodesc.OpenLink(ctx, mem, cfg.Layout())
	if err != nil {
		return err
	}
	defer link.Close()

	sessions := make([]*dodesc.Session, 0, cfg.Sim.DisplayObjects)
	defer func() {
		sctx, cancel := shutdownContext()
		defer cancel()
		for _, s := range sessions {
			if err := s.Close(sctx); err != nil {
				log.Warn("failed to close session", "id", s.ID(), "err", err)
			}
		}
	}()

	for i := range cfg.Sim.DisplayObjects {
		id := int32(i + 1)
		s, err := dodesc.Open(ctx, link, id, dodesc.TextureModeNative, fmt.Sprintf("descsim-%d", id))
		if err != nil {
			return err
		}
		sessions = append(sessions, s)
		log.Info("session opened", "id", id)
	}

	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-report.C:
			for _, s := range sessions {
				d := s.Descriptor()
				st := d.Stats()
				w, h := d.FrameSize()
				log.Info("descriptor",
					"id", s.ID(),
					"phase", d.Phase(),
					"frame", fmt.Sprintf("%dx%d", w, h),
					"mesh", d.MeshSignature(),
					"vsync", d.VsyncCounter(),
					"updates", st.Updates,
					"locked", st.LockedPolls,
					"max_streak", st.MaxLockStreak,
					"torn", st.TornReads,
					"acks", st.Acks,
				)
			}

		case <-ticker.C:
			for _, s := range sessions {
				res, err := s.Descriptor().UpdateState()
				if err != nil {
					return fmt.Errorf("display object %d: %w", s.ID(), err)
				}
				if res.NotDebugUpdated {
					log.Debug("state applied", "id", s.ID(), "dynamic", res.Dynamic, "static", res.Static)
				}
			}
		}
	}
}
