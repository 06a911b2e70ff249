package crowd

import "context"

// maxFrameDelta caps the step after a stall (window drag, debugger).
const maxFrameDelta = 0.1

// Frame runs one loop iteration: resolve the target, animate every character
// and draw once. A zero-area container skips the draw and keeps the loop
// alive. Frame is a no-op once the stage has stopped.
func (s *Stage) Frame() {
	if s.stopped {
		return
	}
	now := s.container.Now()
	dt := now - s.last
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	s.last = now
	s.state.Time = now - s.start
	s.state.Delta = dt

	prev := s.state.Mode
	s.resolver.Resolve(&s.state, s.input.State(), s.camera, now)
	if s.state.Mode != prev {
		s.log.Debug("attention mode", "from", prev, "to", s.state.Mode)
		s.events.Emit(Event{Type: EventModeChanged, Mode: s.state.Mode, Target: s.state.Target})
	}

	s.animator.Animate(s.scene, s.crowd.Characters, &s.state)

	if s.width <= 0 || s.height <= 0 {
		s.skipped++
		return
	}
	s.frame.View = s.camera.View()
	s.frame.Projection = s.camera.Projection()
	s.frame.CameraPos = s.camera.Position
	s.frame.Items = s.scene.DrawList(s.frame.Items[:0])
	s.dev.Draw(&s.frame)
	s.frames++
}

// Run calls Frame once per display refresh until ctx is done, the host
// closes, or the stage is unmounted (possibly from inside an input callback).
func (s *Stage) Run(ctx context.Context) error {
	for !s.stopped {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Frame()
		if !s.container.WaitFrame() {
			return nil
		}
	}
	return nil
}
