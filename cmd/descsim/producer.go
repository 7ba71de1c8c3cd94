package main

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"gosuda.org/dodesc"
	"gosuda.org/dodesc/internal/config"
	"gosuda.org/dodesc/internal/logging"
	"gosuda.org/dodesc/internal/plugin"
	"gosuda.org/dodesc/internal/protocol"
)

type producer struct {
	plugin *plugin.Plugin
	server *plugin.Server
	sim    config.Sim
	frame  time.Duration
	log    *log.Logger
}

func newProducer(mem []byte, cfg *config.Config) (*producer, error) {
	p, err := plugin.New(mem, cfg.Layout())
	if err != nil {
		return nil, err
	}
	srv, err := plugin.NewServer(p)
	if err != nil {
		return nil, err
	}
	return &producer{
		plugin: p,
		server: srv,
		sim:    cfg.Sim,
		frame:  cfg.FrameInterval(),
		log:    logging.Named("producer"),
	}, nil
}

func (p *producer) serve(ctx context.Context) error {
	return p.server.Serve(ctx)
}

// run rewrites every registered display object once per frame.
func (p *producer) run(ctx context.Context) error {
	ticker := time.NewTicker(p.frame)
	defer ticker.Stop()

	for n := int64(1); ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		for _, id := range p.plugin.Registered() {
			if err := p.writeFrame(id, n); err != nil {
				if errors.Is(err, dodesc.ErrNotRegistered) {
					continue // unregistered since Registered
				}
				return err
			}
		}

		if n%int64(10*p.sim.FrameRate) == 0 {
			for _, id := range p.plugin.Registered() {
				if reg, ok := p.plugin.Lookup(id); ok {
					p.log.Info("producer", "id", id, "name", reg.Name, "frame", n, "acks", reg.Acks)
				}
			}
		}
	}
}

func (p *producer) writeFrame(id int32, n int64) error {
	if _, err := p.plugin.WriteDynamic(id, func(d *protocol.Dynamic) {
		d.Flags = uint32(dodesc.FlagTexturesUpdated)
		d.TexPlane0 = uintptr(n)
		d.TextureType = int32(dodesc.TextureTypeRGBA)
		d.IsActive = 1
		p.hold()
	}); err != nil {
		return err
	}

	// The first frame always carries a static write so that consumers see
	// a configured surface right away.
	if n == 1 || n%int64(p.sim.StaticEvery) == 0 {
		generation := int32(n / int64(p.sim.StaticEvery))
		if _, err := p.plugin.WriteStatic(id, func(s *protocol.Static) {
			s.VertexCount = 4
			s.IndexCount = 6
			s.FrameWidth = 1920
			s.FrameHeight = 1080
			s.MeshSignature = generation
			s.DisplayObjectID = id
			s.FeedIndex = 0
			s.MeshType = int32(dodesc.MeshTypePlanar)
			s.ProjectionType = int32(dodesc.ProjectionTypePlanar)
			s.ColorSpace = int32(dodesc.ColorSpaceBT709)
			s.DisplayObjectClass = int32(dodesc.DisplayObjectClassMain)
			s.VideoStereoMode = int32(dodesc.VideoStereoModeMono)
			s.TextureTransform = identity
			p.hold()
		}); err != nil {
			return err
		}
	}

	if n%int64(p.sim.DebugEvery) == 0 {
		if _, err := p.plugin.WriteDebug(id, func(d *protocol.Debug) {
			d.RenderTimestamp = time.Now().UnixNano()
			d.VsyncCounter = uint32(n)
		}); err != nil {
			return err
		}
	}
	return nil
}

// hold keeps the lock for the configured extra time, as a slow producer
// would.
func (p *producer) hold() {
	if d := p.sim.LockHold.Std(); d > 0 {
		time.Sleep(d)
	}
}

var identity = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}
