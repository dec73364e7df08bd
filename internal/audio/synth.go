package audio

import (
	"io"
	"math"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
)

// Sound identifies a procedural effect.
type Sound int

const (
	SoundPause Sound = iota
	SoundResume
	SoundShuffle
	SoundNavigate
)

var soundNames = [...]string{"pause", "resume", "shuffle", "navigate"}

func (s Sound) String() string {
	if s < 0 || int(s) >= len(soundNames) {
		return "unknown"
	}
	return soundNames[s]
}

// Sounds lists every effect the synth can produce.
func Sounds() []Sound {
	return []Sound{SoundPause, SoundResume, SoundShuffle, SoundNavigate}
}

// Generate renders s as interleaved stereo float32 LE samples, or nil for an
// unknown sound.
func Generate(s Sound) []byte {
	switch s {
	case SoundPause:
		return genPause()
	case SoundResume:
		return genResume()
	case SoundShuffle:
		return genShuffle()
	case SoundNavigate:
		return genNavigate()
	}
	return nil
}

// genPause: falling FM ping, a glassy "freeze".
func genPause() []byte {
	n := SampleRate * 120 / 1000
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.01, 0.4, 0.2, 0.3)
		freq := 1320 - 560*p
		s := fm(t, freq, 3.0, 2.2*env) * env * 0.4
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genResume: short rising chirp, softer than the pause.
func genResume() []byte {
	n := SampleRate * 90 / 1000
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.05, 0.45, 0.1, 0.2)
		freq := 660 + 440*p
		s := fm(t, freq, 2.0, 1.2*env) * env * 0.28
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genShuffle: filtered noise sweep with a low thump underneath.
func genShuffle() []byte {
	n := SampleRate * 220 / 1000
	buf := makeBuf(n)
	seed := uint64(0x5eed)
	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		k := 0.15 + 0.6*p
		lp = lp*(1-k) + lcg(&seed)*k
		env := adsr(p, 0.02, 0.3, 0.4, 0.4)
		thump := math.Sin(2*math.Pi*90*t) * math.Exp(-p*18)
		s := (lp*0.35 + thump*0.4) * env
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genNavigate: crisp click plus a brief high tone.
func genNavigate() []byte {
	n := SampleRate * 65 / 1000
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.004, 0.55, 0.0, 0.1)
		freq := 1400 - 700*p
		s := fm(t, freq, 1.0, 0.6) * env * 0.38
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// sampleReader streams a finished buffer to an oto player.
type sampleReader struct {
	data []byte
	pos  int
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both channels of frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	for c := 0; c < ChannelCount; c++ {
		o := i*8 + c*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}

// softSat saturates gently instead of clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/x
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack, decay and release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

func makeBuf(n int) []byte { return make([]byte, n*8) }
