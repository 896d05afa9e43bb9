package actions

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"
)

const cameraWindowTitle = "NOAH Camera - Press Q to close"

// Camera shows a live preview window from the default capture device.
type Camera struct {
	logger   *slog.Logger
	deviceID int
}

// NewCamera creates a preview for capture device 0.
func NewCamera(logger *slog.Logger) *Camera {
	if logger == nil {
		logger = slog.Default()
	}
	return &Camera{logger: logger.With("component", "camera")}
}

// Preview opens the camera window and blocks until the user presses
// 'q' or the stream ends.
func (c *Camera) Preview() error {
	cap, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("camera: open device %d: %w", c.deviceID, err)
	}
	defer cap.Close()

	window := gocv.NewWindow(cameraWindowTitle)
	defer window.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	c.logger.Info("camera opened")
	for {
		if ok := cap.Read(&frame); !ok || frame.Empty() {
			break
		}
		window.IMShow(frame)
		if key := window.WaitKey(1); key == 'q' || key == 'Q' {
			break
		}
	}
	c.logger.Info("camera closed")
	return nil
}
