package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundCheck
	SoundCastle
	SoundInvalid
	SoundUndo
	SoundGameEnd
)

const sampleRate = 44100

// AudioManager plays short synthesized effects.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates a new audio manager.
func NewAudioManager(enabled bool) *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  make(map[SoundType][]byte),
		enabled: enabled,
		volume:  0.5,
	}
	am.sounds[SoundMove] = click(440, 0.08, 0.3)
	am.sounds[SoundCapture] = click(330, 0.12, 0.5)
	am.sounds[SoundCheck] = tone(880, 0.15, 0.4)
	am.sounds[SoundCastle] = concat(click(400, 0.06, 0.3), silence(0.05), click(440, 0.06, 0.24))
	am.sounds[SoundInvalid] = buzz(150, 0.1, 0.3)
	am.sounds[SoundUndo] = tone(520, 0.07, 0.25)
	am.sounds[SoundGameEnd] = chord(0.4, 0.5, 261.63, 329.63, 392.00)
	return am
}

// synth renders a mono wave as 16-bit little-endian stereo PCM.
func synth(duration float64, wave func(t, progress float64) float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		v := wave(t, t/duration)
		v = math.Max(-1, math.Min(1, v))
		val := int16(v * 32767)
		data[i*4] = byte(val)
		data[i*4+1] = byte(val >> 8)
		data[i*4+2] = byte(val)
		data[i*4+3] = byte(val >> 8)
	}
	return data
}

// click is a percussive knock with a little noise, like wood on wood.
func click(freq, duration, amplitude float64) []byte {
	i := 0.0
	return synth(duration, func(t, _ float64) float64 {
		i++
		noise := (math.Sin(i*0.3) + math.Sin(i*0.7)) * 0.3
		return (math.Sin(2*math.Pi*freq*t) + noise) * math.Exp(-t*30) * amplitude
	})
}

func tone(freq, duration, amplitude float64) []byte {
	return synth(duration, func(t, p float64) float64 {
		env := 1 - (p-0.1)/0.9
		if p < 0.1 {
			env = p / 0.1
		}
		return math.Sin(2*math.Pi*freq*t) * env * amplitude
	})
}

func buzz(freq, duration, amplitude float64) []byte {
	return synth(duration, func(t, p float64) float64 {
		wave := math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(4*math.Pi*freq*t)
		return wave * (1 - p) * amplitude * 0.5
	})
}

func chord(duration, amplitude float64, freqs ...float64) []byte {
	return synth(duration, func(t, p float64) float64 {
		env := 1.0
		switch {
		case p < 0.1:
			env = p / 0.1
		case p > 0.7:
			env = (1 - p) / 0.3
		}
		sum := 0.0
		for _, f := range freqs {
			sum += math.Sin(2 * math.Pi * f * t)
		}
		return sum / float64(len(freqs)) * env * amplitude
	})
}

func silence(duration float64) []byte {
	return make([]byte, int(sampleRate*duration)*4)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Play plays a sound effect. Overlapping sounds each get their own player.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
