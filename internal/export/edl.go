package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/heimdex/storyreel/internal/story"
)

// DefaultFrameRate is used when a caller passes a non-positive frame rate.
const DefaultFrameRate = 30.0

// GenerateEDL renders the scene timeline as a CMX3600 edit decision list. Each
// scene becomes one video event on the AX reel whose record in/out follow the
// scene grid, annotated with the overlay text and voice-over line.
func GenerateEDL(scenes []story.Scene, title string, frameRate float64) string {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	fps := int(math.Round(frameRate))

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	recordOffsetMs := 0
	for i, scene := range scenes {
		durationMs := scene.DurationSeconds * 1000
		srcIn := msToTimecode(0, fps)
		srcOut := msToTimecode(durationMs, fps)
		recIn := msToTimecode(recordOffsetMs, fps)
		recOut := msToTimecode(recordOffsetMs+durationMs, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", SanitizeName(scene.TextOverlay, 120)),
			fmt.Sprintf("* COMMENT:  %s", oneLine(scene.VisualDirection)),
			fmt.Sprintf("* COMMENT:  CAMERA %s", oneLine(scene.CameraMovement)),
			fmt.Sprintf("* COMMENT:  VO %s", oneLine(scene.VoiceOver)),
		)

		recordOffsetMs += durationMs
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
