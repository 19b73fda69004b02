package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"blockworld/internal/config"
	"blockworld/internal/graphics"
	"blockworld/internal/profiling"
	"blockworld/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const moveSpeed = 24 // blocks per second

// Loop drives input, uploads and drawing on the render thread.
type Loop struct {
	log      *slog.Logger
	window   *glfw.Window
	renderer *graphics.Renderer
	text     *graphics.TextRenderer
	camera   *graphics.Camera
	world    *world.World
	rng      *rand.Rand
	input    *inputState

	frames           int
	overlay          []string
	lastFPSCheckTime time.Time
	lastTime         time.Time
}

func newLoop(cfg *config.Config, log *slog.Logger, window *glfw.Window, w *world.World) (*Loop, error) {
	r, err := graphics.NewRenderer(cfg, log)
	if err != nil {
		return nil, err
	}
	width, height := window.GetFramebufferSize()
	r.Resize(width, height)
	text, err := graphics.NewTextRenderer(16, width, height)
	if err != nil {
		r.Release(w)
		return nil, err
	}

	cam := graphics.NewCamera(width, height, cfg.Window.FOV)
	sx, sy, sz := w.Dims()
	size := float32(w.ChunkSize())
	center := mgl32.Vec3{float32(sx) * size / 2, float32(sy) * size / 4, float32(sz) * size / 2}
	cam.Position = mgl32.Vec3{-size, float32(sy) * size * 0.75, -size}
	cam.LookAt(center)

	l := &Loop{
		log:              log,
		window:           window,
		renderer:         r,
		text:             text,
		camera:           cam,
		world:            w,
		rng:              rand.New(rand.NewSource(cfg.Seed)),
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}
	l.input = setupInputHandlers(l)
	return l, nil
}

// Run loops until the window closes, ctx is cancelled or the scheduler stops. schedDone
// reports whether the scheduler's result was consumed from schedErr.
func (l *Loop) Run(ctx context.Context, schedErr <-chan error) (schedDone bool, err error) {
	for !l.window.ShouldClose() {
		stop, done, err := checkStop(ctx, schedErr)
		if stop {
			return done, err
		}
		l.tick()
	}
	return false, nil
}

// checkStop polls for shutdown without blocking.
func checkStop(ctx context.Context, schedErr <-chan error) (stop, schedDone bool, err error) {
	select {
	case <-ctx.Done():
		return true, false, nil
	case err := <-schedErr:
		if err != nil {
			return true, true, fmt.Errorf("mesh scheduler: %w", err)
		}
		return true, true, nil
	default:
		return false, false, nil
	}
}

// awaitScheduler returns the loop error, or else waits for the scheduler's result unless
// the loop already received it.
func awaitScheduler(schedDone bool, loopErr error, schedErr <-chan error) error {
	if loopErr != nil {
		return loopErr
	}
	if schedDone {
		return nil
	}
	return <-schedErr
}

func (l *Loop) tick() {
	now := time.Now()
	dt := float32(now.Sub(l.lastTime).Seconds())
	l.lastTime = now

	if !l.input.paused {
		l.move(dt)
	}

	stats := l.renderer.Frame(l.world, l.camera)
	l.frames++

	if time.Since(l.lastFPSCheckTime) >= time.Second {
		st := l.world.Stats()
		l.overlay = append(l.overlay[:0],
			fmt.Sprintf("fps %d", l.frames),
			fmt.Sprintf("chunks %d drawn %d culled %d", st.Chunks, stats.Drawn, stats.Culled),
			fmt.Sprintf("vertices %d pending %d", l.world.Vertices(), st.Pending),
			profiling.TopN(3),
		)
		l.log.Debug("frame stats",
			"fps", l.frames,
			"drawn", stats.Drawn,
			"culled", stats.Culled,
			"vertices", l.world.Vertices(),
			"pending", l.world.Pending())
		if config.GetShowStats() {
			l.log.Info("profile", "top", profiling.TopN(5))
			profiling.Reset()
		}
		l.frames = 0
		l.lastFPSCheckTime = time.Now()
	}

	if config.GetShowStats() {
		l.text.RenderLines(l.overlay, 8, 4, 20, 1, mgl32.Vec3{1, 1, 1})
	}

	func() { defer profiling.Track("glfw.SwapBuffers")(); l.window.SwapBuffers() }()
	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
}

func (l *Loop) move(dt float32) {
	var forward, right, up float32
	key := func(k glfw.Key) bool { return l.window.GetKey(k) == glfw.Press }
	if key(glfw.KeyW) {
		forward++
	}
	if key(glfw.KeyS) {
		forward--
	}
	if key(glfw.KeyD) {
		right++
	}
	if key(glfw.KeyA) {
		right--
	}
	if key(glfw.KeySpace) {
		up++
	}
	if key(glfw.KeyLeftShift) {
		up--
	}
	step := moveSpeed * dt
	if key(glfw.KeyLeftControl) {
		step *= 4
	}
	l.camera.Move(forward*step, right*step, up*step)
}

// Release frees GL resources.
func (l *Loop) Release() {
	l.text.Delete()
	l.renderer.Release(l.world)
}
