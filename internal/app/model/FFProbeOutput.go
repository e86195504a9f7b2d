package model

// FFProbeOutput is the subset of `ffprobe -print_format json -show_streams
// -show_format` the audio helpers read.
type FFProbeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate int    `json:"sample_rate,string"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}
