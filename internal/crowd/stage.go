package crowd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrContextUnavailable is returned by Mount when the container cannot
// provide a render context. Nothing is left allocated when it is returned.
var ErrContextUnavailable = errors.New("render context unavailable")

// Options configures Mount. A nil Config means DefaultConfig.
type Options struct {
	Config *Config
	Seed   uint64
	Logger *log.Logger
	Events *EventBus
}

// Stage is a mounted crowd. All methods must be called from the goroutine
// that owns the container.
type Stage struct {
	cfg    Config
	log    *log.Logger
	events *EventBus

	container   Container
	interaction Surface

	dev      Device
	attached bool
	reg      Registry

	scene    *Scene
	camera   *Camera
	lib      *Library
	crowd    *Crowd
	input    *InputMapper
	resolver *TargetResolver
	animator *Animator
	state    AnimationState
	frame    Frame

	width, height int
	start, last   float64
	frames        int
	skipped       int

	detachInput  func()
	detachResize func()

	stopped   bool
	unmounted bool
}

// Mount builds the scene inside container and starts listening for input on
// interaction, which defaults to the container. On any error every resource
// acquired so far has already been released.
func Mount(container Container, interaction Surface, opts Options) (*Stage, error) {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	events := opts.Events
	if events == nil {
		events = NewEventBus()
	}
	if interaction == nil {
		interaction = container
	}

	s := &Stage{
		cfg:         cfg,
		log:         logger,
		events:      events,
		container:   container,
		interaction: interaction,
	}

	dev, err := container.AttachDevice()
	if err != nil {
		logger.Warn("render context unavailable, leaving container empty", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}
	s.dev = dev
	s.attached = true
	s.reg.Track(KindDevice, "device", dev.Destroy)

	if err := s.build(opts.Seed); err != nil {
		s.teardown()
		return nil, fmt.Errorf("mount: %w", err)
	}

	logger.Debug("crowd mounted",
		"characters", len(s.crowd.Characters),
		"meshes", s.reg.Count(KindMesh),
		"materials", s.reg.Count(KindMaterial),
		"seed", opts.Seed,
	)
	return s, nil
}

func (s *Stage) build(seed uint64) error {
	rng := NewRand(seed)

	lib, err := NewLibrary(s.dev, &s.reg)
	if err != nil {
		return err
	}
	s.lib = lib
	s.scene = NewScene()
	if s.cfg.Props {
		lib.NewLaptop(s.scene, s.scene.Root())
	}
	s.crowd, err = BuildCrowd(s.scene, lib, s.cfg, rng)
	if err != nil {
		return err
	}

	s.camera = NewCamera(1)
	s.resolver = NewTargetResolver(s.cfg)
	s.animator = NewAnimator(s.cfg)
	s.state = NewAnimationState(s.cfg, rng)
	s.frame = Frame{
		Lights: DefaultLights(),
		Items:  make([]DrawItem, 0, s.scene.MeshCount()),
	}

	s.resize(s.container.Size())
	s.detachResize = s.container.OnResize(s.resize)

	s.input = NewInputMapper(s.container, s.container.Now)
	s.detachInput = s.input.Attach(s.interaction)

	s.start = s.container.Now()
	s.last = s.start
	return nil
}

func (s *Stage) resize(w, h int) {
	s.width, s.height = w, h
	if w <= 0 || h <= 0 {
		s.log.Debug("container has no area, skipping draws", "w", w, "h", h)
		return
	}
	s.camera.SetAspect(float32(w) / float32(h))
	s.dev.SetViewport(w, h)
	s.events.Emit(Event{Type: EventResized, W: w, H: h, Target: s.state.Target})
}

// Unmount stops the loop, detaches listeners, removes the render surface and
// releases every tracked resource exactly once. It is safe to call twice.
func (s *Stage) Unmount() {
	if s.unmounted {
		return
	}
	n := s.teardown()
	s.log.Debug("crowd unmounted", "released", n, "frames", s.frames, "skipped", s.skipped)
	s.events.Emit(Event{Type: EventUnmounted, Target: s.state.Target})
}

// teardown must stop the loop before anything is released so a queued frame
// never touches freed resources.
func (s *Stage) teardown() int {
	s.stopped = true
	s.unmounted = true
	if s.detachInput != nil {
		s.detachInput()
		s.detachInput = nil
	}
	if s.detachResize != nil {
		s.detachResize()
		s.detachResize = nil
	}
	if s.attached {
		s.container.DetachDevice(s.dev)
		s.attached = false
	}
	return s.reg.Release()
}

func (s *Stage) Characters() []*Character { return s.crowd.Characters }
func (s *Stage) Scene() *Scene            { return s.scene }
func (s *Stage) Camera() *Camera          { return s.camera }
func (s *Stage) Input() *InputMapper      { return s.input }
func (s *Stage) Target() mgl32.Vec3       { return s.state.Target }
func (s *Stage) Mode() TargetMode         { return s.state.Mode }
func (s *Stage) Frames() int              { return s.frames }
func (s *Stage) Skipped() int             { return s.skipped }
func (s *Stage) Resources() int           { return s.reg.Len() }
func (s *Stage) Stopped() bool            { return s.stopped }
