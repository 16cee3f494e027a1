package render

import (
	"fmt"

	"promoreel/internal/config"
	"promoreel/internal/timeline"
)

// AudioGraph is the assembled audio half of the filter graph. The output
// label always carries a stream; when no track is available a silent bed is
// synthesized so the container keeps a valid audio stream.
type AudioGraph struct {
	Lines       []string
	OutputLabel string
}

// BuildAudioGraph synthesizes the audio filter graph for one render. Four
// shapes exist: voice only, music only, voice plus ducked music, and the
// silent fallback.
func BuildAudioGraph(spec GraphSpec, audio config.AudioConfig, totalDuration float64) AudioGraph {
	hasMusic := spec.Project.Music.Enabled && spec.Plan.Has(InputMusic)
	hasVoice := spec.Project.Voice.Enabled && spec.Plan.Has(InputVoice)

	switch {
	case hasVoice && hasMusic:
		return voiceOverMusic(spec, totalDuration)
	case hasVoice:
		return voiceOnly(spec, totalDuration)
	case hasMusic:
		return musicOnly(spec, totalDuration)
	default:
		return silentBed(audio, totalDuration)
	}
}

func voiceOnly(spec GraphSpec, totalDuration float64) AudioGraph {
	idx, _ := spec.Plan.Index(InputVoice)
	line := fmt.Sprintf("[%d:a]%s,atrim=0:%s,asetpts=PTS-STARTPTS[aout]",
		idx, volumeFilter(spec.Project.Voice.VolumePercent), formatSeconds(totalDuration))
	return AudioGraph{Lines: []string{line}, OutputLabel: "aout"}
}

func musicOnly(spec GraphSpec, totalDuration float64) AudioGraph {
	idx, _ := spec.Plan.Index(InputMusic)
	line := fmt.Sprintf("[%d:a]%s[aout]", idx, musicChain(spec.Project.Music, totalDuration))
	return AudioGraph{Lines: []string{line}, OutputLabel: "aout"}
}

// voiceOverMusic ducks the music under narration with a sidechain
// compressor keyed by a split of the voice stream, then mixes the two.
func voiceOverMusic(spec GraphSpec, totalDuration float64) AudioGraph {
	musicIdx, _ := spec.Plan.Index(InputMusic)
	voiceIdx, _ := spec.Plan.Index(InputVoice)

	lines := []string{
		fmt.Sprintf("[%d:a]%s,atrim=0:%s,asetpts=PTS-STARTPTS,asplit=2[vmix][vkey]",
			voiceIdx, volumeFilter(spec.Project.Voice.VolumePercent), formatSeconds(totalDuration)),
		fmt.Sprintf("[%d:a]%s[mbed]", musicIdx, musicChain(spec.Project.Music, totalDuration)),
		"[mbed][vkey]sidechaincompress=threshold=0.02:ratio=8:attack=50:release=300[mduck]",
		"[vmix][mduck]amix=inputs=2:duration=first:dropout_transition=0[aout]",
	}
	return AudioGraph{Lines: lines, OutputLabel: "aout"}
}

// musicChain builds the per-track music processing: optional infinite loop,
// trim to the video length, volume, and fades.
func musicChain(music timeline.Music, totalDuration float64) string {
	chain := ""
	if music.Loop {
		chain = "aloop=loop=-1:size=2147483647,"
	}
	chain += fmt.Sprintf("atrim=0:%s,asetpts=PTS-STARTPTS,%s",
		formatSeconds(totalDuration), volumeFilter(music.VolumePercent))

	if music.FadeIn > 0 {
		chain += fmt.Sprintf(",afade=t=in:st=0:d=%s", formatSeconds(music.FadeIn))
	}
	if music.FadeOut > 0 {
		start := totalDuration - music.FadeOut
		if start < 0 {
			start = 0
		}
		chain += fmt.Sprintf(",afade=t=out:st=%s:d=%s", formatSeconds(start), formatSeconds(music.FadeOut))
	}
	return chain
}

// silentBed synthesizes a silent stereo track spanning the whole video.
func silentBed(audio config.AudioConfig, totalDuration float64) AudioGraph {
	rate := audio.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	line := fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d,atrim=0:%s[aout]",
		rate, formatSeconds(totalDuration))
	return AudioGraph{Lines: []string{line}, OutputLabel: "aout"}
}

// volumeFilter converts a percentage into a volume filter term. Values
// outside 0..200 are clamped.
func volumeFilter(percent int) string {
	v := clamp(float64(percent)/100.0, 0, 2)
	return fmt.Sprintf("volume=%s", formatFloat(v))
}
