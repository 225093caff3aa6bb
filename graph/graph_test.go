package graph_test

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/engine"
	"github.com/psytec1x/looper/graph"
)

const testRate = 8000

func testClip(t *testing.T, seconds float64) *looper.Clip {
	t.Helper()
	data := make([]float32, int(seconds*testRate))
	for i := range data {
		data[i] = float32(math.Sin(float64(i) * 0.05))
	}
	clip, err := looper.NewClip([][]float32{data}, testRate)
	if err != nil {
		t.Fatalf("NewClip failed: %v", err)
	}
	return clip
}

func newBuilder() (*graph.Builder, *engine.StreamDestination) {
	ctx := engine.NewContext(testRate)
	ctx.Resume()
	bus := ctx.NewStreamDestination()
	return &graph.Builder{
		Context:  ctx,
		Outputs:  graph.Outputs{Speakers: ctx.Destination(), Bus: bus},
		Settings: graph.DefaultSettings(),
	}, bus
}

func impulseFunc(calls *int) graph.ImpulseFunc {
	return func() (*looper.Clip, error) {
		*calls++
		return graph.ImpulseResponse(testRate, 0.1, 0.05, rand.New(rand.NewSource(1)))
	}
}

func TestBranchesAreConditional(t *testing.T) {
	tests := []struct {
		name        string
		delay, verb float64
		want        []engine.Kind
	}{
		{"dry only", 0, 0, []engine.Kind{engine.KindBufferSource, engine.KindBiquadFilter, engine.KindGain}},
		{"delay", 0.5, 0, []engine.Kind{engine.KindBufferSource, engine.KindBiquadFilter, engine.KindGain, engine.KindDelay, engine.KindGain}},
		{"reverb", 0, 0.5, []engine.Kind{engine.KindBufferSource, engine.KindBiquadFilter, engine.KindGain, engine.KindConvolver, engine.KindGain}},
		{"both", 0.2, 0.3, []engine.Kind{engine.KindBufferSource, engine.KindBiquadFilter, engine.KindGain, engine.KindDelay, engine.KindGain, engine.KindConvolver, engine.KindGain}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newBuilder()
			clip := testClip(t, 1)
			params := looper.EffectParams{FilterCutoffHz: 1000, DelayMix: tt.delay, ReverbMix: tt.verb}
			calls := 0
			g, err := b.Build(clip, looper.FullRegion(clip), params, impulseFunc(&calls))
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if got := g.Nodes(); !slices.Equal(got, tt.want) {
				t.Errorf("nodes = %v, want %v", got, tt.want)
			}
			if (g.Delay != nil) != (tt.delay > 0) {
				t.Errorf("delay branch present = %v with mix %v", g.Delay != nil, tt.delay)
			}
			wantCalls := 0
			if tt.verb > 0 {
				wantCalls = 1
			}
			if calls != wantCalls {
				t.Errorf("impulse requested %d times, want %d", calls, wantCalls)
			}
		})
	}
}

func TestTrackFeedsSpeakersAndBus(t *testing.T) {
	b, bus := newBuilder()
	clip := testClip(t, 1)
	var captured looper.AudioBuffer
	bus.SetSink(func(buf looper.AudioBuffer) { captured = append(captured, buf...) })
	g, err := b.Build(clip, looper.LoopRegion{Start: 0.25, End: 0.5}, looper.DefaultEffectParams(), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	out := make(looper.AudioBuffer, 4*engine.Quantum)
	b.Context.Render(out)
	if len(captured) != len(out) {
		t.Fatalf("bus got %d frames, want %d", len(captured), len(out))
	}
	for i := range out {
		if out[i] != captured[i] {
			t.Fatalf("frame %d: speakers %v differ from bus %v", i, out[i], captured[i])
		}
	}
	// the filter is open, so the first frame is the first sample of the region
	want := clip.Frame(int(0.25 * testRate))
	if math.Abs(float64(out[0][0]-want[0])) > 1e-6 {
		t.Errorf("first frame = %v, want %v", out[0], want)
	}
}

func TestTeardownDisconnectsEverything(t *testing.T) {
	b, bus := newBuilder()
	clip := testClip(t, 1)
	params := looper.EffectParams{FilterCutoffHz: 500, DelayMix: 0.5, ReverbMix: 0.5}
	calls := 0
	g, err := b.Build(clip, looper.FullRegion(clip), params, impulseFunc(&calls))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	g.Start()
	g.Teardown()
	g.Teardown()
	if n := len(b.Context.Inputs(b.Context.Destination())); n != 0 {
		t.Errorf("speakers still have %d inputs", n)
	}
	if n := len(b.Context.Inputs(bus)); n != 0 {
		t.Errorf("bus still has %d inputs", n)
	}
	if g.Source.Playing() {
		t.Error("source still playing after teardown")
	}
}

func TestBuildFailureLeavesNothingConnected(t *testing.T) {
	b, _ := newBuilder()
	clip := testClip(t, 1)
	boom := errors.New("boom")
	params := looper.EffectParams{FilterCutoffHz: 500, ReverbMix: 0.5}
	_, err := b.Build(clip, looper.FullRegion(clip), params, func() (*looper.Clip, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped boom", err)
	}
	if n := len(b.Context.Inputs(b.Context.Destination())); n != 0 {
		t.Errorf("speakers have %d inputs after a failed build", n)
	}
}

func TestImpulseResponseDecays(t *testing.T) {
	ir, err := graph.ImpulseResponse(1000, 2, 0.5, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("ImpulseResponse failed: %v", err)
	}
	if ir.NumChannels() != 2 || ir.NumFrames() != 2000 {
		t.Fatalf("got %d channels, %d frames", ir.NumChannels(), ir.NumFrames())
	}
	for ch := range 2 {
		data := ir.Channel(ch)
		for i, v := range data {
			bound := math.Exp(-float64(i)/1000/0.5) + 1e-7
			if math.Abs(float64(v)) > bound {
				t.Fatalf("channel %d sample %d = %v exceeds envelope %v", ch, i, v, bound)
			}
		}
	}
	if _, err := graph.ImpulseResponse(1000, 0, 0.5, rand.New(rand.NewSource(7))); err == nil {
		t.Error("expected an error for a zero length response")
	}
}
