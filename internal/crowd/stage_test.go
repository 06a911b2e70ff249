package crowd

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func mountTest(t *testing.T, c *fakeContainer, interaction Surface, opts Options) *Stage {
	t.Helper()
	s, err := Mount(c, interaction, opts)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return s
}

func checkDeviceErrs(t *testing.T, d *fakeDevice) {
	t.Helper()
	for _, err := range d.errs {
		t.Error(err)
	}
}

func TestMountUnmountReleasesEverything(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 42, 1337} {
		c := newFakeContainer(800, 200)
		s := mountTest(t, c, nil, Options{Seed: seed})

		d := c.dev
		if d.meshCreates == 0 || d.matCreates == 0 {
			t.Fatalf("seed %d: nothing was created", seed)
		}
		if got, want := s.Resources(), d.meshCreates+d.matCreates+1; got != want {
			t.Errorf("seed %d: registry tracks %d, want %d", seed, got, want)
		}
		s.Frame()

		s.Unmount()
		if d.meshDeletes != d.meshCreates {
			t.Errorf("seed %d: deleted %d of %d meshes", seed, d.meshDeletes, d.meshCreates)
		}
		if d.matDeletes != d.matCreates {
			t.Errorf("seed %d: deleted %d of %d materials", seed, d.matDeletes, d.matCreates)
		}
		if len(d.meshes) != 0 || len(d.materials) != 0 {
			t.Errorf("seed %d: %d meshes and %d materials still live", seed, len(d.meshes), len(d.materials))
		}
		if d.destroyed != 1 {
			t.Errorf("seed %d: device destroyed %d times", seed, d.destroyed)
		}
		if c.listeners() != 0 {
			t.Errorf("seed %d: %d listeners still attached", seed, c.listeners())
		}
		checkDeviceErrs(t, d)
	}
}

func TestUnmountOrder(t *testing.T) {
	c := newFakeContainer(800, 200)
	s := mountTest(t, c, nil, Options{Seed: 7})
	mark := len(*c.log)
	s.Unmount()

	log := (*c.log)[mark:]
	if len(log) < 3 {
		t.Fatalf("teardown log too short: %v", log)
	}
	if log[0] != "detach" {
		t.Errorf("first teardown step = %q, want detach", log[0])
	}
	if log[len(log)-1] != "destroy" {
		t.Errorf("last teardown step = %q, want destroy", log[len(log)-1])
	}
	// Registry release walks newest first, so the last-created library
	// material goes before the first-created mesh.
	first := -1
	for i, e := range log {
		if e == "mesh-body" {
			first = i
		}
	}
	if first < 0 || first != len(log)-2 {
		t.Errorf("mesh-body released at %d of %d, want right before destroy", first, len(log))
	}
}

func TestUnmountIsIdempotent(t *testing.T) {
	c := newFakeContainer(800, 200)
	s := mountTest(t, c, nil, Options{})
	s.Unmount()
	deletes := c.dev.meshDeletes + c.dev.matDeletes
	s.Unmount()
	if got := c.dev.meshDeletes + c.dev.matDeletes; got != deletes {
		t.Errorf("second Unmount released %d more resources", got-deletes)
	}
	if c.detached != 1 || c.dev.destroyed != 1 {
		t.Errorf("detached %d, destroyed %d; want 1 each", c.detached, c.dev.destroyed)
	}
	if !s.Stopped() {
		t.Error("stage should be stopped")
	}
	s.Frame()
	if c.dev.draws != 0 {
		t.Error("Frame drew after Unmount")
	}
	checkDeviceErrs(t, c.dev)
}

func TestMountContextUnavailable(t *testing.T) {
	c := newFakeContainer(800, 200)
	c.attachErr = errors.New("no GL 4.1")

	s, err := Mount(c, nil, Options{})
	if s != nil {
		t.Error("Mount returned a stage on failure")
	}
	if !errors.Is(err, ErrContextUnavailable) {
		t.Fatalf("err = %v, want ErrContextUnavailable", err)
	}
	if c.dev.meshCreates+c.dev.matCreates != 0 {
		t.Error("resources were created without a device")
	}
	if c.listeners() != 0 || c.detached != 0 {
		t.Errorf("listeners %d, detached %d; want nothing attached", c.listeners(), c.detached)
	}
}

func TestMountFailureMidBuildReleasesEverything(t *testing.T) {
	for _, at := range []int{1, 5, 19, 21} {
		c := newFakeContainer(800, 200)
		c.dev.failMeshAt = at
		cfg := DefaultConfig()
		cfg.VestChance = 1

		s, err := Mount(c, nil, Options{Config: &cfg})
		if err == nil {
			s.Unmount()
			t.Fatalf("fail at %d: Mount succeeded", at)
		}
		if errors.Is(err, ErrContextUnavailable) {
			t.Errorf("fail at %d: build failure reported as context failure", at)
		}
		d := c.dev
		if len(d.meshes) != 0 || len(d.materials) != 0 {
			t.Errorf("fail at %d: %d meshes and %d materials leaked", at, len(d.meshes), len(d.materials))
		}
		if d.destroyed != 1 || c.detached != 1 {
			t.Errorf("fail at %d: destroyed %d, detached %d", at, d.destroyed, c.detached)
		}
		if c.listeners() != 0 {
			t.Errorf("fail at %d: %d listeners leaked", at, c.listeners())
		}
		checkDeviceErrs(t, d)
	}
}

func TestMountRejectsInvalidConfig(t *testing.T) {
	c := newFakeContainer(800, 200)
	cfg := DefaultConfig()
	cfg.TargetBlendRate = 0.5
	if _, err := Mount(c, nil, Options{Config: &cfg}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	if len(*c.log) != 0 {
		t.Errorf("device touched before validation: %v", *c.log)
	}
}

func TestZeroAreaSkipsDraw(t *testing.T) {
	c := newFakeContainer(0, 0)
	s := mountTest(t, c, nil, Options{})
	defer s.Unmount()

	for i := 0; i < 3; i++ {
		c.tick()
		s.Frame()
	}
	if c.dev.draws != 0 || s.Skipped() != 3 {
		t.Errorf("draws %d, skipped %d; want 0, 3", c.dev.draws, s.Skipped())
	}
	if len(c.dev.viewports) != 0 {
		t.Errorf("viewport set for zero area: %v", c.dev.viewports)
	}

	c.resize(640, 160)
	c.tick()
	s.Frame()
	if c.dev.draws != 1 {
		t.Errorf("draws after resize = %d, want 1", c.dev.draws)
	}
	if got := s.Camera().Aspect; got != 4 {
		t.Errorf("aspect = %v, want 4", got)
	}
	if vp := c.dev.viewports; len(vp) != 1 || vp[0] != [2]int{640, 160} {
		t.Errorf("viewports = %v", vp)
	}
	if c.dev.lastFrameItems != s.Scene().MeshCount() {
		t.Errorf("drew %d items, scene has %d meshes", c.dev.lastFrameItems, s.Scene().MeshCount())
	}
	checkDeviceErrs(t, c.dev)
}

func TestResizeEmitsEvent(t *testing.T) {
	c := newFakeContainer(800, 200)
	bus := NewEventBus()
	var got []Event
	bus.Subscribe(EventResized, func(e Event) { got = append(got, e) })
	s := mountTest(t, c, nil, Options{Events: bus})
	defer s.Unmount()

	c.resize(400, 400)
	c.resize(0, 400)
	if len(got) != 2 {
		t.Fatalf("got %d resize events, want 2 (mount + one resize)", len(got))
	}
	if got[1].W != 400 || got[1].H != 400 {
		t.Errorf("resize event = %+v", got[1])
	}
}

// headAngles recovers yaw and pitch from an XYZ Euler rotation with z = 0.
func headAngles(q mgl32.Quat) (yaw, pitch float64) {
	v := q.Rotate(mgl32.Vec3{0, 0, 1})
	yaw = math.Asin(float64(clampF(v.X(), -1, 1)))
	pitch = math.Atan2(float64(-v.Y()), float64(v.Z()))
	return yaw, pitch
}

func TestEighteenWorkersFollowPointer(t *testing.T) {
	c := newFakeContainer(800, 200)
	bus := NewEventBus()
	var modes []TargetMode
	bus.Subscribe(EventModeChanged, func(e Event) { modes = append(modes, e.Mode) })
	s := mountTest(t, c, nil, Options{Seed: 2024, Events: bus})
	defer s.Unmount()

	chars := s.Characters()
	if len(chars) != 18 {
		t.Fatalf("got %d characters, want 18", len(chars))
	}

	// NDC (0.5, 0.5) is three quarters across and one quarter down.
	c.move(600, 50)
	if ndc := s.Input().State().NDC; ndc != (mgl32.Vec2{0.5, 0.5}) {
		t.Fatalf("pointer NDC = %v, want (0.5, 0.5)", ndc)
	}

	cfg := DefaultConfig()
	const eps = 1e-3
	for f := 0; f < 30; f++ {
		c.tick()
		s.Frame()
		for _, ch := range chars {
			yaw, pitch := headAngles(s.Scene().Node(ch.HeadPivot).Rotation)
			if math.Abs(yaw) > float64(cfg.MaxYaw)+eps {
				t.Fatalf("frame %d worker %d: |yaw| %v exceeds %v", f, ch.Index, yaw, cfg.MaxYaw)
			}
			if math.Abs(pitch) > float64(cfg.MaxPitch)+eps {
				t.Fatalf("frame %d worker %d: |pitch| %v exceeds %v", f, ch.Index, pitch, cfg.MaxPitch)
			}
		}
	}

	if s.Mode() != ModeTracking {
		t.Errorf("mode = %v, want tracking", s.Mode())
	}
	if len(modes) != 1 || modes[0] != ModeTracking {
		t.Errorf("mode events = %v, want [tracking]", modes)
	}
	if tx := s.Target().X(); tx <= 0 {
		t.Errorf("target x = %v, want right of centre", tx)
	}
	for _, ch := range chars {
		yaw, _ := headAngles(s.Scene().Node(ch.HeadPivot).Rotation)
		if yaw <= 0.05 {
			t.Errorf("worker %d yaw = %v, want turned toward +x", ch.Index, yaw)
		}
		for _, p := range ch.Pupils {
			pos := s.Scene().Node(p).Position
			if pos.X() <= 0 || pos.X() > PupilRangeX+eps || math.Abs(float64(pos.Y())) > PupilRangeY+eps {
				t.Errorf("worker %d pupil at %v", ch.Index, pos)
			}
		}
	}
	if c.dev.draws != 30 {
		t.Errorf("draws = %d, want 30", c.dev.draws)
	}
	checkDeviceErrs(t, c.dev)
}

func TestIdleAfterTimeout(t *testing.T) {
	c := newFakeContainer(800, 200)
	s := mountTest(t, c, nil, Options{Seed: 5})
	defer s.Unmount()

	c.move(100, 100)
	c.tick()
	s.Frame()
	if s.Mode() != ModeTracking {
		t.Fatalf("mode = %v, want tracking", s.Mode())
	}
	c.leave()
	c.tick()
	s.Frame()
	if s.Mode() != ModeTracking {
		t.Errorf("leave should keep tracking until the timeout")
	}
	c.clock += DefaultConfig().IdleTimeoutSeconds + 0.1
	s.Frame()
	if s.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle after timeout", s.Mode())
	}
}

func TestSeparateInteractionSurface(t *testing.T) {
	c := newFakeContainer(800, 200)
	page := newFakeSurface(Rect{W: 800, H: 1000})
	s := mountTest(t, c, page, Options{})

	if c.fakeSurface.listeners() != 0 {
		t.Error("container got input listeners although a surface was given")
	}
	// Positions are still measured against the container.
	page.move(400, 100)
	if ndc := s.Input().State().NDC; ndc != (mgl32.Vec2{0, 0}) {
		t.Errorf("NDC = %v, want centre", ndc)
	}
	page.move(400, 900)
	if ndc := s.Input().State().NDC; ndc.Y() != -1 {
		t.Errorf("below the container NDC.y = %v, want clamped to -1", ndc.Y())
	}
	s.Unmount()
	if page.listeners() != 0 {
		t.Errorf("%d listeners left on the interaction surface", page.listeners())
	}
}

func TestRun(t *testing.T) {
	t.Run("host closes", func(t *testing.T) {
		c := newFakeContainer(800, 200)
		c.remaining = 10
		s := mountTest(t, c, nil, Options{})
		defer s.Unmount()
		if err := s.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if s.Frames() != 10 {
			t.Errorf("frames = %d, want 10", s.Frames())
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		c := newFakeContainer(800, 200)
		ctx, cancel := context.WithCancel(context.Background())
		s := mountTest(t, c, nil, Options{})
		defer s.Unmount()
		n := 0
		c.onWait = func() {
			if n++; n == 4 {
				cancel()
			}
		}
		if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		if s.Frames() != 4 {
			t.Errorf("frames = %d, want 4", s.Frames())
		}
	})

	t.Run("unmount from callback", func(t *testing.T) {
		c := newFakeContainer(800, 200)
		s := mountTest(t, c, nil, Options{})
		n := 0
		c.onWait = func() {
			if n++; n == 3 {
				s.Unmount()
			}
		}
		if err := s.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if s.Frames() != 3 {
			t.Errorf("frames = %d, want 3", s.Frames())
		}
		checkDeviceErrs(t, c.dev)
	})
}

func TestMountIsDeterministic(t *testing.T) {
	build := func() []Wear {
		c := newFakeContainer(800, 200)
		s := mountTest(t, c, nil, Options{Seed: 99})
		defer s.Unmount()
		w := make([]Wear, len(s.Characters()))
		for i, ch := range s.Characters() {
			w[i] = ch.Wear
		}
		return w
	}
	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("worker %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
