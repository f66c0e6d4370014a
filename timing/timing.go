// Package timing tracks frame times for the render loop
package timing

import "time"

const fpsWindowSize = 60

var (
	startTime      time.Time
	frameStartTime time.Time

	dt        float32
	frameTime [fpsWindowSize]float32
	frameIdx  int
	frames    int
)

func Init() {
	startTime = time.Now()
	frameStartTime = startTime
	dt = 0.01
	frameIdx = 0
	frames = 0
}

func FrameStarted() {
	frameStartTime = time.Now()
}

func FrameEnded() {
	frameEnded(time.Since(frameStartTime))
}

func frameEnded(d time.Duration) {

	dt = float32(d.Seconds())

	frameTime[frameIdx] = dt
	frameIdx = (frameIdx + 1) % fpsWindowSize
	if frames < fpsWindowSize {
		frames++
	}
}

// DT is the duration of the last frame in seconds
func DT() float32 {
	return dt
}

// ElapsedTime is the number of seconds since Init
func ElapsedTime() float32 {
	return float32(time.Since(startTime).Seconds())
}

// GetAvgFPS averages over the last frames. Returns 0 before the first frame ends.
func GetAvgFPS() float32 {

	if frames == 0 {
		return 0
	}

	var total float32
	for i := 0; i < frames; i++ {
		total += frameTime[i]
	}

	if total == 0 {
		return 0
	}

	return float32(frames) / total
}
