// Package app runs the falling-snippets page in a desktop OpenGL window.
package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"snippets/internal/audio"
	"snippets/internal/config"
	"snippets/internal/shell"
	"snippets/internal/widget"
)

// Background clear colour.
var clearColor = [3]float32{0.07, 0.08, 0.10}

// Run opens the window and drives the page until the window closes or ctx is
// cancelled. It blocks on the calling goroutine, which it locks to its OS
// thread for GL.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if logger == nil {
		logger = log.Default()
	}

	window, err := initWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], 1.0)

	var player *audio.Player
	if cfg.Audio.Enabled {
		p, err := audio.New(cfg.Audio.Volume, logger)
		if err != nil {
			logger.Warn("audio init failed, continuing without sound", "err", err)
		} else {
			player = p
		}
	}

	seed := cfg.SeedOrClock(time.Now())
	host := newHost(window, logger)
	page, err := shell.Mount(host, pageOptions(cfg, seed, player, logger))
	if err != nil {
		return fmt.Errorf("mount page: %w", err)
	}
	defer page.Unmount()

	vp, fb := host.ViewportSize(), host.FramebufferSize()
	logger.Info("falling snippets running",
		"seed", seed,
		"sprites", page.Widget().Field().Len(),
		"viewport", fmt.Sprintf("%dx%d", vp.W, vp.H),
		"framebuffer", fmt.Sprintf("%dx%d", fb.W, fb.H),
		"audio", player != nil,
		"routes", page.Router().Paths(),
	)

	in := NewInput()
	start := glfw.GetTime()
	for !window.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		glfw.PollEvents()

		if in.JustPressed(window, glfw.KeyEscape) {
			window.SetShouldClose(true)
			continue
		}
		if in.JustPressed(window, glfw.KeyR) {
			page.Widget().Reshuffle()
			player.Play(audio.SoundShuffle)
		}
		if in.JustPressed(window, glfw.KeyM) {
			logger.Debug("audio toggled", "muted", player.ToggleMute())
		}
		if !host.poll(in) {
			continue
		}

		gl.Clear(gl.COLOR_BUFFER_BIT)
		host.Tick(clock(glfw.GetTime() - start))
		window.SwapBuffers()
	}
	return nil
}

// clock converts glfw seconds to the frame clock.
func clock(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func pageOptions(cfg config.Config, seed uint64, player *audio.Player, logger *log.Logger) shell.Options {
	fo := cfg.FieldOptions()
	fo.OnPause = func(int) { player.Play(audio.SoundPause) }
	fo.OnResume = func(i int) {
		logger.Debug("sprite resumed", "index", i)
		player.Play(audio.SoundResume)
	}
	return shell.Options{
		Widget: widget.Options{
			Field:  fo,
			Seed:   seed,
			Logger: logger,
		},
		Logger:     logger,
		OnNavigate: func(string) { player.Play(audio.SoundNavigate) },
	}
}
