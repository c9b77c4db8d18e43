package simulation

import (
	"math/rand"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"fluidsim/config"
	"fluidsim/core"
	"fluidsim/rendering/opengl"
	"fluidsim/rendering/opengl/shaders"
)

// Solver owns every field texture and sequences the GPU passes that
// advance the fluid one tick: splats, advection, vorticity confinement,
// divergence, pressure relaxation, projection, display. Passes are
// stateless over field data; the solver hands them read textures and
// binds write targets, ping-ponging each field pair so no pass ever
// samples the texture it renders into.
//
// All methods must run on the goroutine owning the GL context. Stats is
// the one exception; it serves the stats channel from a snapshot.
type Solver struct {
	ctx     *opengl.Context
	cfg     config.SimulationConfig
	log     *zap.Logger
	shaders *shaders.Cache
	targets *opengl.TargetManager

	velocity   *opengl.TargetPair
	dye        *opengl.TargetPair
	pressure   *opengl.TargetPair
	divergence *opengl.Target
	curl       *opengl.Target

	advection      *AdvectionPass
	curlPass       *CurlPass
	vorticity      *VorticityPass
	divergencePass *DivergencePass
	pressurePass   *PressurePass
	projection     *ProjectionPass
	splatPass      *SplatPass
	display        *DisplayPass

	pace    *pacer
	pointer core.PointerState
	queued  []splat

	mu      sync.Mutex
	stats   Stats
	cleaned bool
}

// Stats is a point-in-time snapshot of solver counters, serialized by the
// stats server.
type Stats struct {
	Frames             uint64 `json:"frames"`
	Skipped            uint64 `json:"skipped"`
	VelocitySwaps      uint64 `json:"velocitySwaps"`
	DyeSwaps           uint64 `json:"dyeSwaps"`
	PressureSwaps      uint64 `json:"pressureSwaps"`
	PressureIterations int    `json:"pressureIterations"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	FieldFormat        string `json:"fieldFormat"`
}

// NewSolver builds the full pass chain and allocates every field at the
// context's current surface resolution. On any failure the partially
// built solver is torn down before the error is returned.
func NewSolver(ctx *opengl.Context, cfg config.SimulationConfig, log *zap.Logger) (*Solver, error) {
	s := &Solver{
		ctx:     ctx,
		cfg:     cfg.Clamped(),
		log:     log,
		shaders: shaders.NewCache(log),
		pace:    newPacer(cfg.TargetFPS),
	}
	s.targets = opengl.NewTargetManager(ctx, log)

	if err := s.initPasses(); err != nil {
		s.Cleanup()
		return nil, err
	}
	if err := s.allocateFields(ctx.Width(), ctx.Height()); err != nil {
		s.Cleanup()
		return nil, err
	}

	log.Info("solver ready",
		zap.Int("width", ctx.Width()),
		zap.Int("height", ctx.Height()),
		zap.Int("pressureIterations", s.cfg.PressureIterations),
		zap.Stringer("fieldFormat", ctx.PreferredFieldFormat()),
	)
	return s, nil
}

func (s *Solver) initPasses() error {
	var err error
	if s.advection, err = NewAdvectionPass(s.shaders); err != nil {
		return err
	}
	if s.curlPass, err = NewCurlPass(s.shaders); err != nil {
		return err
	}
	if s.vorticity, err = NewVorticityPass(s.shaders); err != nil {
		return err
	}
	if s.divergencePass, err = NewDivergencePass(s.shaders); err != nil {
		return err
	}
	if s.pressurePass, err = NewPressurePass(s.shaders); err != nil {
		return err
	}
	if s.projection, err = NewProjectionPass(s.shaders); err != nil {
		return err
	}
	if s.splatPass, err = NewSplatPass(s.shaders); err != nil {
		return err
	}
	if s.display, err = NewDisplayPass(s.shaders); err != nil {
		return err
	}
	return nil
}

// allocateFields creates the three persistent field pairs and the two
// transient scalar targets through the manager's id-keyed cache.
func (s *Solver) allocateFields(width, height int) error {
	format := s.ctx.PreferredFieldFormat()

	var err error
	if s.velocity, err = s.targets.Pair("velocity", width, height, format); err != nil {
		return err
	}
	if s.dye, err = s.targets.Pair("dye", width, height, format); err != nil {
		return err
	}
	if s.pressure, err = s.targets.Pair("pressure", width, height, format); err != nil {
		return err
	}
	if s.divergence, err = s.targets.Target("divergence", width, height, format); err != nil {
		return err
	}
	if s.curl, err = s.targets.Target("curl", width, height, format); err != nil {
		return err
	}
	return nil
}

// HandleInput records the freshest pointer sample; the next Execute
// consumes it. Pure state, no GPU work, last write wins.
func (s *Solver) HandleInput(x, y, dx, dy float32, pressed bool) {
	s.pointer = core.PointerState{X: x, Y: y, DX: dx, DY: dy, Down: pressed}
}

// Splat queues an explicit injection for the next tick.
func (s *Solver) Splat(x, y, dx, dy float32, color mgl32.Vec3) {
	s.queued = append(s.queued, splat{
		point: mgl32.Vec2{x, y},
		delta: mgl32.Vec2{dx, dy},
		color: color,
	})
}

// RandomSplats queues n bright splats at random positions, used to seed
// the field at startup and on demand.
func (s *Solver) RandomSplats(n int) {
	for i := 0; i < n; i++ {
		s.Splat(
			rand.Float32(),
			rand.Float32(),
			(rand.Float32()*2-1)*0.2,
			(rand.Float32()*2-1)*0.2,
			generateColor().Mul(10),
		)
	}
}

// Execute advances the simulation one tick and draws the result to the
// visible surface. Calls arriving faster than the configured frame rate
// return immediately without touching the GPU. Any pass failure aborts
// the tick and propagates: field state is inconsistent mid-sequence, so
// the caller should Cleanup and rebuild rather than retry.
func (s *Solver) Execute(dt float32) error {
	if s.cleaned {
		return &core.PassNotInitializedError{Pass: "solver"}
	}
	// A failed Resize leaves the fields released until the caller rebuilds;
	// ticking against them would dereference nil pairs.
	if s.velocity == nil || s.dye == nil || s.pressure == nil || s.divergence == nil || s.curl == nil {
		return &core.PassNotInitializedError{Pass: "solver"}
	}

	if !s.pace.Allow(time.Now()) {
		s.mu.Lock()
		s.stats.Skipped++
		s.mu.Unlock()
		return nil
	}
	dt = s.pace.ClampDelta(dt)

	if s.pointer.Active() {
		s.queued = append(s.queued, splat{
			point: mgl32.Vec2{s.pointer.X, s.pointer.Y},
			delta: mgl32.Vec2{s.pointer.DX, s.pointer.DY},
			color: generateColor().Mul(speedScale(s.pointer.Speed())),
		})
		// The sample is consumed; position and press state persist until
		// the next HandleInput, movement does not.
		s.pointer.DX, s.pointer.DY = 0, 0
	}

	for _, sp := range s.queued {
		if err := s.applySplat(sp); err != nil {
			return err
		}
	}
	s.queued = s.queued[:0]

	if err := s.advect(dt); err != nil {
		return err
	}
	if err := s.confineVorticity(dt); err != nil {
		return err
	}
	if err := s.project(); err != nil {
		return err
	}
	if err := s.present(); err != nil {
		return err
	}

	s.recordFrame()
	return nil
}

// applySplat injects one queued splat into velocity and dye, swapping
// both pairs.
func (s *Solver) applySplat(sp splat) error {
	in := s.inputs(0)
	in.Point = sp.point
	in.Radius = s.cfg.SplatRadius
	in.Aspect = float32(s.ctx.Width()) / float32(s.ctx.Height())

	in.Source = s.velocity.Texture()
	in.Color = mgl32.Vec3{
		sp.delta.X() * s.cfg.SplatForce,
		sp.delta.Y() * s.cfg.SplatForce,
		0,
	}
	s.targets.Bind(s.velocity.Write())
	if err := s.splatPass.Execute(in); err != nil {
		return err
	}
	s.velocity.Swap()

	in.Source = s.dye.Texture()
	in.Color = sp.color
	s.targets.Bind(s.dye.Write())
	if err := s.splatPass.Execute(in); err != nil {
		return err
	}
	s.dye.Swap()

	return nil
}

// advect transports velocity through itself, then dye through velocity.
func (s *Solver) advect(dt float32) error {
	in := s.inputs(dt)
	in.Velocity = s.velocity.Texture()
	in.Source = s.velocity.Texture()
	in.Dissipation = s.cfg.VelocityDissipation
	s.targets.Bind(s.velocity.Write())
	if err := s.advection.Execute(in); err != nil {
		return err
	}
	s.velocity.Swap()

	in = s.inputs(dt)
	in.Velocity = s.velocity.Texture()
	in.Source = s.dye.Texture()
	in.Dissipation = s.cfg.DensityDissipation
	s.targets.Bind(s.dye.Write())
	if err := s.advection.Execute(in); err != nil {
		return err
	}
	s.dye.Swap()

	return nil
}

// confineVorticity recomputes curl and feeds it back into velocity.
func (s *Solver) confineVorticity(dt float32) error {
	in := s.inputs(dt)
	in.Velocity = s.velocity.Texture()
	s.targets.Bind(s.curl)
	if err := s.curlPass.Execute(in); err != nil {
		return err
	}

	in = s.inputs(dt)
	in.Velocity = s.velocity.Texture()
	in.Curl = s.curl.Tex
	in.CurlStrength = s.cfg.Curl
	s.targets.Bind(s.velocity.Write())
	if err := s.vorticity.Execute(in); err != nil {
		return err
	}
	s.velocity.Swap()

	return nil
}

// project solves for pressure and subtracts its gradient from velocity.
func (s *Solver) project() error {
	in := s.inputs(0)
	in.Velocity = s.velocity.Texture()
	s.targets.Bind(s.divergence)
	if err := s.divergencePass.Execute(in); err != nil {
		return err
	}

	for i := 0; i < s.cfg.PressureIterations; i++ {
		in = s.inputs(0)
		in.Pressure = s.pressure.Texture()
		in.Divergence = s.divergence.Tex
		in.OldPressureScale = 1
		if i == 0 {
			in.OldPressureScale = s.cfg.Pressure
		}
		s.targets.Bind(s.pressure.Write())
		if err := s.pressurePass.Execute(in); err != nil {
			return err
		}
		s.pressure.Swap()
	}

	in = s.inputs(0)
	in.Pressure = s.pressure.Texture()
	in.Velocity = s.velocity.Texture()
	s.targets.Bind(s.velocity.Write())
	if err := s.projection.Execute(in); err != nil {
		return err
	}
	s.velocity.Swap()

	return nil
}

// present draws the dye field to the default framebuffer.
func (s *Solver) present() error {
	in := s.inputs(0)
	in.Dye = s.dye.Texture()
	in.Brightness = s.cfg.Brightness
	in.Contrast = s.cfg.Contrast
	s.targets.Bind(nil)
	return s.display.Execute(in)
}

// inputs seeds a PassInputs with the grid step and tick delta every pass
// shares.
func (s *Solver) inputs(dt float32) *PassInputs {
	read := s.velocity.Read()
	return &PassInputs{
		TexelW: read.TexelW(),
		TexelH: read.TexelH(),
		DT:     dt,
	}
}

// Resize drops every field and recreates it at the new surface size.
// Field contents are not preserved; texture storage is immutable, so
// resizing is always delete-and-recreate.
func (s *Solver) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	s.releaseFields()
	s.targets.Resize(width, height)
	return s.allocateFields(width, height)
}

func (s *Solver) releaseFields() {
	for _, p := range []*opengl.TargetPair{s.velocity, s.dye, s.pressure} {
		if p != nil {
			p.Release()
		}
	}
	for _, t := range []*opengl.Target{s.divergence, s.curl} {
		if t != nil {
			t.Release()
		}
	}
	s.velocity, s.dye, s.pressure = nil, nil, nil
	s.divergence, s.curl = nil, nil
}

// recordFrame refreshes the stats snapshot at the end of a tick.
func (s *Solver) recordFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Frames++
	s.stats.VelocitySwaps = s.velocity.Swaps()
	s.stats.DyeSwaps = s.dye.Swaps()
	s.stats.PressureSwaps = s.pressure.Swaps()
	s.stats.PressureIterations = s.cfg.PressureIterations
	s.stats.Width = s.ctx.Width()
	s.stats.Height = s.ctx.Height()
	s.stats.FieldFormat = s.ctx.PreferredFieldFormat().String()
}

// Stats returns the latest snapshot. Safe to call from the stats server
// goroutine.
func (s *Solver) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Cleanup releases passes, fields and caches. Safe to call repeatedly
// and safe after a partially failed construction.
func (s *Solver) Cleanup() {
	if s.cleaned {
		return
	}
	s.cleaned = true

	if s.advection != nil {
		s.advection.Cleanup()
	}
	if s.curlPass != nil {
		s.curlPass.Cleanup()
	}
	if s.vorticity != nil {
		s.vorticity.Cleanup()
	}
	if s.divergencePass != nil {
		s.divergencePass.Cleanup()
	}
	if s.pressurePass != nil {
		s.pressurePass.Cleanup()
	}
	if s.projection != nil {
		s.projection.Cleanup()
	}
	if s.splatPass != nil {
		s.splatPass.Cleanup()
	}
	if s.display != nil {
		s.display.Cleanup()
	}

	s.releaseFields()
	if s.targets != nil {
		s.targets.Cleanup()
	}
	if s.shaders != nil {
		s.shaders.Cleanup()
	}
}
