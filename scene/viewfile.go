package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

const viewFileVersion = 1

// ── JSON data structures ──────────────────────────────────────────────────────

type presetJSON struct {
	DistanceFactor float32
	AngleZ         float32
	AngleY         float32
	LookAt         [3]float32
}

type uiJSON struct {
	Paused       bool
	SoftShadows  bool
	SSAO         bool
	Bloom        bool
	ShowCapture  bool
	LightHeights []float32
}

type viewJSON struct {
	Version int
	Camera  presetJSON
	UI      uiJSON
}

// ViewData is a saved camera pose with the UI toggles that were active.
type ViewData struct {
	Camera Preset
	UI     UIParams
}

// SaveView writes the camera pose and UI state to a JSON file at path.
func SaveView(path string, cam *TurntableCamera, ui UIParams) error {
	p := cam.Preset()
	js := viewJSON{
		Version: viewFileVersion,
		Camera: presetJSON{
			DistanceFactor: p.DistanceFactor,
			AngleZ:         p.AngleZ,
			AngleY:         p.AngleY,
			LookAt:         [3]float32(p.LookAt),
		},
		UI: uiJSON{
			Paused:       ui.Paused,
			SoftShadows:  ui.SoftShadows,
			SSAO:         ui.SSAO,
			Bloom:        ui.Bloom,
			ShowCapture:  ui.ShowCapture,
			LightHeights: ui.LightHeights,
		},
	}
	data, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadView reads a file written by SaveView.
func LoadView(path string) (*ViewData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read view: %w", err)
	}
	var js viewJSON
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, fmt.Errorf("parse view %s: %w", path, err)
	}
	if js.Version != viewFileVersion {
		return nil, fmt.Errorf("view %s: unsupported version %d", path, js.Version)
	}
	return &ViewData{
		Camera: Preset{
			DistanceFactor: js.Camera.DistanceFactor,
			AngleZ:         js.Camera.AngleZ,
			AngleY:         js.Camera.AngleY,
			LookAt:         mgl32.Vec3(js.Camera.LookAt),
		},
		UI: UIParams{
			Paused:       js.UI.Paused,
			SoftShadows:  js.UI.SoftShadows,
			SSAO:         js.UI.SSAO,
			Bloom:        js.UI.Bloom,
			ShowCapture:  js.UI.ShowCapture,
			LightHeights: js.UI.LightHeights,
		},
	}, nil
}

// Apply moves cam to the saved pose and replaces ui.
func (vd *ViewData) Apply(cam *TurntableCamera, ui *UIParams) {
	cam.SetPresetView(vd.Camera)
	*ui = vd.UI
}
