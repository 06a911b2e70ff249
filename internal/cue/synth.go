package cue

import "math"

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	bytesPerFrame = 8
)

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
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

// bell is a two-operator FM partial with a soft inharmonic overtone.
func bell(t, freq float64) float64 {
	mod := math.Sin(2 * math.Pi * freq * 3.5 * t)
	return 0.8*math.Sin(2*math.Pi*freq*t+1.2*mod) + 0.2*math.Sin(2*math.Pi*freq*2.76*t)
}

// Chime renders the "someone is looking" cue: two rising bell notes, the
// second entering a third of the way in. gain scales the peak.
func Chime(gain float64) []byte {
	const (
		dur   = 0.55
		noteA = 659.25 // E5
		noteB = 987.77 // B5
	)
	n := int(SampleRate * dur)
	buf := make([]byte, n*bytesPerFrame)
	split := n / 3
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		s := bell(t, noteA) * adsr(p, 0.02, 0.25, 0.35, 0.5)
		if i >= split {
			tb := float64(i-split) / SampleRate
			pb := float64(i-split) / float64(n-split)
			s += bell(tb, noteB) * adsr(pb, 0.03, 0.3, 0.3, 0.55)
		}
		putStereoF32(buf, i, 0.5*gain*s)
	}
	return buf
}
