package engine_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/engine"
)

func rampClip(t *testing.T, frames, sampleRate int) *looper.Clip {
	t.Helper()
	data := make([]float32, frames)
	for i := range data {
		data[i] = float32(i)
	}
	clip, err := looper.NewClip([][]float32{data}, sampleRate)
	if err != nil {
		t.Fatalf("NewClip failed: %v", err)
	}
	return clip
}

func runningContext(t *testing.T, sampleRate int) *engine.Context {
	t.Helper()
	ctx := engine.NewContext(sampleRate)
	if err := ctx.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	return ctx
}

func connect(t *testing.T, ctx *engine.Context, nodes ...engine.Node) {
	t.Helper()
	for i := 1; i < len(nodes); i++ {
		if err := ctx.Connect(nodes[i-1], nodes[i]); err != nil {
			t.Fatalf("Connect %v -> %v failed: %v", nodes[i-1].Kind(), nodes[i].Kind(), err)
		}
	}
}

func TestSourceLoopWraps(t *testing.T) {
	ctx := runningContext(t, 10)
	src := ctx.NewBufferSource(rampClip(t, 10, 10))
	src.SetLoop(true, 0.2, 0.5)
	connect(t, ctx, src, ctx.Destination())
	if err := src.Start(0.2); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	buf := make(looper.AudioBuffer, 300)
	ctx.Render(buf)
	for i, f := range buf {
		want := float32(2 + i%3)
		if f[0] != want || f[1] != want {
			t.Fatalf("frame %d: got %v, want %v", i, f, want)
		}
	}
}

func TestSourceWithoutLoopEnds(t *testing.T) {
	ctx := runningContext(t, 8)
	src := ctx.NewBufferSource(rampClip(t, 4, 8))
	connect(t, ctx, src, ctx.Destination())
	src.Start(0)
	buf := make(looper.AudioBuffer, 8)
	ctx.Render(buf)
	for i, f := range buf {
		want := float32(0)
		if i < 4 {
			want = float32(i)
		}
		if f[0] != want {
			t.Errorf("frame %d: got %v, want %v", i, f[0], want)
		}
	}
	if src.Playing() {
		t.Error("source should have ended")
	}
}

func TestSourceResamples(t *testing.T) {
	ctx := runningContext(t, 20)
	src := ctx.NewBufferSource(rampClip(t, 10, 10))
	connect(t, ctx, src, ctx.Destination())
	src.Start(0)
	buf := make(looper.AudioBuffer, 4)
	ctx.Render(buf)
	for i, want := range []float32{0, 0.5, 1, 1.5} {
		if math.Abs(float64(buf[i][0]-want)) > 1e-6 {
			t.Errorf("frame %d: got %v, want %v", i, buf[i][0], want)
		}
	}
}

func TestSourceIsSingleUse(t *testing.T) {
	ctx := engine.NewContext(44100)
	src := ctx.NewBufferSource(rampClip(t, 10, 44100))
	if err := src.Stop(); !errors.Is(err, engine.ErrSourceNotStarted) {
		t.Errorf("Stop before Start: got %v, want ErrSourceNotStarted", err)
	}
	if err := src.Start(0); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := src.Start(0); !errors.Is(err, engine.ErrSourceStarted) {
		t.Errorf("second Start: got %v, want ErrSourceStarted", err)
	}
	if err := src.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := src.Stop(); err != nil {
		t.Errorf("repeated Stop should be a no-op, got %v", err)
	}
	if err := src.Start(0); !errors.Is(err, engine.ErrSourceStarted) {
		t.Errorf("Start after Stop: got %v, want ErrSourceStarted", err)
	}
}

func TestSuspendedContextIsSilent(t *testing.T) {
	ctx := engine.NewContext(10)
	src := ctx.NewBufferSource(rampClip(t, 10, 10))
	connect(t, ctx, src, ctx.Destination())
	src.Start(0.5)
	buf := looper.AudioBuffer{{1, 1}, {1, 1}}
	ctx.Render(buf)
	if buf[0] != [2]float32{} || buf[1] != [2]float32{} {
		t.Errorf("suspended context should render silence, got %v", buf)
	}
	if ctx.CurrentTime() != 0 {
		t.Errorf("time advanced while suspended: %v", ctx.CurrentTime())
	}
	ctx.Resume()
	ctx.Render(buf)
	if buf[0][0] != 5 {
		t.Errorf("after resume got %v, want 5", buf[0][0])
	}
	if ctx.CurrentTime() != 0.2 {
		t.Errorf("CurrentTime = %v, want 0.2", ctx.CurrentTime())
	}
	ctx.Close()
	if err := ctx.Resume(); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("Resume after Close: got %v, want ErrClosed", err)
	}
}

func TestGainSumsAndFansOut(t *testing.T) {
	ctx := runningContext(t, 100)
	a := ctx.NewBufferSource(rampClip(t, 100, 100))
	b := ctx.NewBufferSource(rampClip(t, 100, 100))
	g := ctx.NewGain(0.5)
	bus := ctx.NewStreamDestination()
	var captured looper.AudioBuffer
	bus.SetSink(func(buf looper.AudioBuffer) { captured = append(captured, buf...) })
	connect(t, ctx, a, g, ctx.Destination())
	connect(t, ctx, b, g, bus)
	a.Start(0)
	b.Start(0)
	buf := make(looper.AudioBuffer, engine.Quantum)
	ctx.Render(buf)
	if len(captured) != engine.Quantum {
		t.Fatalf("bus captured %d frames, want %d", len(captured), engine.Quantum)
	}
	for i := range 100 {
		want := float32(i) // (i + i) * 0.5
		if buf[i][0] != want || captured[i][1] != want {
			t.Fatalf("frame %d: speakers %v, bus %v, want %v", i, buf[i][0], captured[i][1], want)
		}
	}
}

func TestConnectErrors(t *testing.T) {
	ctx := engine.NewContext(44100)
	other := engine.NewContext(44100)
	src := ctx.NewBufferSource(rampClip(t, 10, 44100))
	g := ctx.NewGain(1)
	if err := ctx.Connect(g, src); !errors.Is(err, engine.ErrNoInput) {
		t.Errorf("connecting into a source: got %v", err)
	}
	if err := ctx.Connect(ctx.Destination(), g); !errors.Is(err, engine.ErrNoOutput) {
		t.Errorf("connecting out of the destination: got %v", err)
	}
	if err := ctx.Connect(g, other.Destination()); !errors.Is(err, engine.ErrForeignNode) {
		t.Errorf("connecting across contexts: got %v", err)
	}
	connect(t, ctx, src, g, ctx.Destination())
	connect(t, ctx, src, g)
	if n := len(ctx.Inputs(g)); n != 1 {
		t.Errorf("duplicate connection should be ignored, gain has %d inputs", n)
	}
	ctx.Disconnect(g)
	if n := len(ctx.Inputs(ctx.Destination())); n != 0 {
		t.Errorf("destination still has %d inputs after disconnect", n)
	}
	ctx.Disconnect(g) // no-op
}

func TestLowpass(t *testing.T) {
	const sr = 48000
	ctx := runningContext(t, sr)
	dc := make([]float32, sr/10)
	alt := make([]float32, sr/10)
	for i := range dc {
		dc[i] = 1
		alt[i] = float32(1 - 2*(i%2))
	}
	measure := func(data []float32) float32 {
		clip, _ := looper.NewClip([][]float32{data}, sr)
		src := ctx.NewBufferSource(clip)
		f := ctx.NewLowpass(1000)
		connect(t, ctx, src, f, ctx.Destination())
		src.Start(0)
		buf := make(looper.AudioBuffer, len(data))
		ctx.Render(buf)
		ctx.Disconnect(f)
		ctx.Disconnect(src)
		return buf[len(buf)-1][0]
	}
	if v := measure(dc); math.Abs(float64(v)-1) > 1e-3 {
		t.Errorf("DC gain = %v, want 1", v)
	}
	if v := measure(alt); math.Abs(float64(v)) > 1e-3 {
		t.Errorf("Nyquist gain = %v, want 0", v)
	}
}

func TestDelayFeedback(t *testing.T) {
	const sr = 100
	ctx := runningContext(t, sr)
	impulse := make([]float32, 200)
	impulse[0] = 1
	clip, _ := looper.NewClip([][]float32{impulse}, sr)
	src := ctx.NewBufferSource(clip)
	d := ctx.NewDelay(0.3, 0.5)
	connect(t, ctx, src, d, ctx.Destination())
	src.Start(0)
	buf := make(looper.AudioBuffer, 200)
	ctx.Render(buf)
	for i, f := range buf {
		var want float32
		if i >= 30 && i%30 == 0 {
			want = float32(math.Pow(0.5, float64(i/30-1)))
		}
		if math.Abs(float64(f[0]-want)) > 1e-6 {
			t.Errorf("frame %d: got %v, want %v", i, f[0], want)
		}
	}
}

func TestConvolverMatchesDirectConvolution(t *testing.T) {
	const sr = 1000
	rng := rand.New(rand.NewSource(1))
	ir := make([]float32, 300) // spans three partitions
	for i := range ir {
		ir[i] = float32(rng.Float64()*2-1) * float32(math.Exp(-float64(i)/80))
	}
	input := make([]float32, 5*engine.Quantum)
	for i := range input {
		input[i] = float32(rng.Float64()*2 - 1)
	}
	ctx := runningContext(t, sr)
	irClip, _ := looper.NewClip([][]float32{ir}, sr)
	inClip, _ := looper.NewClip([][]float32{input}, sr)
	conv, err := ctx.NewConvolver(irClip, false)
	if err != nil {
		t.Fatalf("NewConvolver failed: %v", err)
	}
	src := ctx.NewBufferSource(inClip)
	connect(t, ctx, src, conv, ctx.Destination())
	src.Start(0)
	buf := make(looper.AudioBuffer, len(input))
	ctx.Render(buf)
	for n := range input {
		var want float64
		for k := 0; k < len(ir) && k <= n; k++ {
			want += float64(ir[k]) * float64(input[n-k])
		}
		if math.Abs(want-float64(buf[n][0])) > 1e-4 || math.Abs(want-float64(buf[n][1])) > 1e-4 {
			t.Fatalf("frame %d: got %v, want %v", n, buf[n], want)
		}
	}
}

func TestConvolverRejectsSampleRateMismatch(t *testing.T) {
	ctx := engine.NewContext(48000)
	ir, _ := looper.NewClip([][]float32{{1}}, 44100)
	if _, err := ctx.NewConvolver(ir, true); !errors.Is(err, engine.ErrImpulseRate) {
		t.Errorf("got %v, want ErrImpulseRate", err)
	}
}
